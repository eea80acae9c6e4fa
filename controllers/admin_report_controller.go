package controllers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Arjun-407/voucherverse/config"
	"github.com/Arjun-407/voucherverse/models"
	"github.com/Arjun-407/voucherverse/utils"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
)

// GET /v1/admin/orders
func AdminListOrders(c *gin.Context) {
	utils.LogInfo("AdminListOrders called")

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)
	pagination.SetTotal(total)

	var orders []models.Order
	if err := query.Preload("User").Preload("VoucherType").
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to list orders: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		resp := orderResponse(&orders[i])
		resp["user"] = gin.H{"id": orders[i].UserID, "username": orders[i].User.Username}
		out = append(out, resp)
	}
	utils.SendPaginatedResponse(c, out, pagination)
}

// GET /v1/admin/orders/export
//
// Streams an xlsx report of orders for the requested period (day, week or
// month).
func ExportOrdersExcel(c *gin.Context) {
	utils.LogInfo("ExportOrdersExcel called")

	period := c.DefaultQuery("period", "day")
	now := time.Now()
	var startDate time.Time

	switch period {
	case "day":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		startDate = now.AddDate(0, 0, -7)
	case "month":
		startDate = now.AddDate(0, -1, 0)
	default:
		utils.LogError("Invalid export period: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	var orders []models.Order
	if err := config.DB.Where("created_at >= ?", startDate).
		Preload("User").Preload("VoucherType").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to load orders for export: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		utils.LogError("Failed to create sheet: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	header := sheet.AddRow()
	for _, title := range []string{"Order ID", "User", "Voucher", "Quantity", "Unit Price", "Total", "Status", "Created At"} {
		header.AddCell().Value = title
	}

	var totalRevenue float64
	for _, order := range orders {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(order.ID))
		row.AddCell().Value = order.User.Username
		row.AddCell().Value = order.VoucherType.Name
		row.AddCell().SetInt(order.Quantity)
		row.AddCell().SetFloat(order.UnitPrice)
		row.AddCell().SetFloat(order.Total)
		row.AddCell().Value = order.Status
		row.AddCell().Value = order.CreatedAt.Format("2006-01-02 15:04:05")
		if order.Status == models.OrderStatusPaid {
			totalRevenue += order.Total
		}
	}

	summary := sheet.AddRow()
	summary.AddCell().Value = "Paid revenue"
	summary.AddCell().SetFloat(totalRevenue)

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		utils.LogError("Failed to write xlsx: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	utils.LogInfo("Exported %d orders for period %s", len(orders), period)
	filename := fmt.Sprintf("orders-%s-%s.xlsx", period, now.Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// GET /v1/admin/logs
func ListAdminLogs(c *gin.Context) {
	utils.LogInfo("ListAdminLogs called")

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.AdminLog{})
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	query.Count(&total)
	pagination.SetTotal(total)

	var logs []models.AdminLog
	if err := query.Preload("Admin").
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&logs).Error; err != nil {
		utils.LogError("Failed to list admin logs: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	out := make([]gin.H, 0, len(logs))
	for _, entry := range logs {
		out = append(out, gin.H{
			"id":         entry.ID,
			"admin":      gin.H{"id": entry.AdminID, "username": entry.Admin.Username},
			"action":     entry.Action,
			"details":    entry.Details,
			"created_at": entry.CreatedAt,
		})
	}
	utils.SendPaginatedResponse(c, out, pagination)
}
