package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Arjun-407/voucherverse/config"
	"github.com/Arjun-407/voucherverse/models"
	"github.com/Arjun-407/voucherverse/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// GET /v1/orders/:id/invoice
//
// DownloadInvoice generates and returns a PDF invoice for a paid order,
// including the delivered voucher codes.
func DownloadInvoice(c *gin.Context) {
	utils.LogInfo("DownloadInvoice called")
	user, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := ownOrderID(c, user)
	if !ok {
		return
	}

	var order models.Order
	if err := config.DB.Preload("VoucherType").Preload("User").First(&order, orderID).Error; err != nil {
		utils.LogError("Order not found for invoice: %d", orderID)
		utils.NotFound(c, "Order not found")
		return
	}
	if order.Status != models.OrderStatusPaid {
		utils.LogError("Invoice requested for unpaid order %d (status %s)", order.ID, order.Status)
		utils.Conflict(c, "Invoice is only available for paid orders", nil)
		return
	}

	var codes []models.VoucherCode
	if err := config.DB.Where("order_id = ? AND status = ?", order.ID, models.CodeStatusAssigned).
		Order("id").Find(&codes).Error; err != nil {
		utils.LogError("Failed to load codes for invoice of order %d: %v", order.ID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "VoucherVerse")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: support@voucherverse.in")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(60, 8, "Order ID: "+strconv.Itoa(int(order.ID)))
	pdf.Cell(80, 8, "Order Date: "+order.CreatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(60, 8, "Status: "+order.Status)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Billed To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, order.User.Username)
	pdf.Ln(6)
	pdf.Cell(100, 8, order.User.Email)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(80, 8, "Item")
	pdf.Cell(30, 8, "Qty")
	pdf.Cell(40, 8, "Unit Price")
	pdf.Cell(40, 8, "Total")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(80, 8, order.VoucherType.Name)
	pdf.Cell(30, 8, strconv.Itoa(order.Quantity))
	pdf.Cell(40, 8, fmt.Sprintf("Rs %.2f", order.UnitPrice))
	pdf.Cell(40, 8, fmt.Sprintf("Rs %.2f", order.Total))
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Voucher Codes:")
	pdf.Ln(8)
	pdf.SetFont("Courier", "", 11)
	for _, code := range codes {
		pdf.Cell(100, 7, code.Code)
		pdf.Ln(7)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to render invoice PDF for order %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to generate invoice", nil)
		return
	}

	utils.LogInfo("Invoice generated for order %d", order.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.pdf", order.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
