package controllers

import (
	"fmt"

	"github.com/Arjun-407/voucherverse/config"
	"github.com/Arjun-407/voucherverse/models"
	"github.com/Arjun-407/voucherverse/utils"
	"github.com/gin-gonic/gin"
)

// POST /v1/orders
func CreateOrder(c *gin.Context) {
	utils.LogInfo("CreateOrder called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		VoucherTypeID uint `json:"voucher_type_id" binding:"required"`
		Quantity      int  `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid order request from user %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. voucher_type_id and quantity are required", err.Error())
		return
	}

	order, err := orderSvc.CreatePending(user.ID, req.VoucherTypeID, req.Quantity)
	if err != nil {
		utils.LogError("Failed to create order for user %d: %v", user.ID, err)
		respondServiceError(c, err)
		return
	}
	utils.LogInfo("Created order %d for user %d (qty %d, total %.2f)", order.ID, user.ID, order.Quantity, order.Total)

	utils.Created(c, "Order created. Accept the terms to reserve your vouchers.", gin.H{
		"order":         orderResponse(order),
		"total_display": fmt.Sprintf("₹%.2f", order.Total),
	})
}

// POST /v1/orders/:id/accept-terms
func AcceptOrderTerms(c *gin.Context) {
	utils.LogInfo("AcceptOrderTerms called")
	user, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := ownOrderID(c, user)
	if !ok {
		return
	}

	order, err := orderSvc.AcceptTermsAndReserve(orderID, appConfig.ReservationWindow)
	if err != nil {
		utils.LogError("Terms acceptance failed for order %d: %v", orderID, err)
		respondServiceError(c, err)
		return
	}
	utils.LogInfo("Reserved %d codes for order %d until %v", order.Quantity, order.ID, order.ExpiresAt)

	utils.Success(c, fmt.Sprintf("Your vouchers are reserved for %v. Please confirm your order.", appConfig.ReservationWindow), gin.H{
		"order": orderResponse(order),
	})
}

// POST /v1/orders/:id/confirm
func ConfirmOrder(c *gin.Context) {
	utils.LogInfo("ConfirmOrder called")
	user, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := ownOrderID(c, user)
	if !ok {
		return
	}

	order, err := orderSvc.GetOrder(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if order.Status != models.OrderStatusAwaitingPayment {
		utils.LogError("Confirm attempted on order %d in status %s", order.ID, order.Status)
		utils.Conflict(c, "Order is not awaiting payment", nil)
		return
	}

	// Reuse an already generated link on repeated confirms.
	if order.PaymentLink == "" {
		link, ref, err := payGateway.GeneratePayableLink(order)
		if err != nil {
			utils.LogError("Failed to generate payment link for order %d: %v", order.ID, err)
			utils.InternalServerError(c, "Failed to generate payment link", nil)
			return
		}
		order, err = orderSvc.AttachPaymentLink(order.ID, link, ref)
		if err != nil {
			utils.LogError("Failed to attach payment link to order %d: %v", orderID, err)
			respondServiceError(c, err)
			return
		}
		utils.LogInfo("Generated payment link for order %d (ref %s)", order.ID, ref)
	}

	utils.Success(c, "Order confirmed. Complete the payment to receive your codes.", gin.H{
		"order":         orderResponse(order),
		"total_display": fmt.Sprintf("₹%.2f", order.Total),
	})
}

// POST /v1/orders/:id/cancel
func CancelOrder(c *gin.Context) {
	utils.LogInfo("CancelOrder called")
	user, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := ownOrderID(c, user)
	if !ok {
		return
	}

	order, err := orderSvc.Cancel(orderID)
	if err != nil {
		utils.LogError("Cancel failed for order %d: %v", orderID, err)
		respondServiceError(c, err)
		return
	}
	utils.LogInfo("Order %d cancelled by user %d", order.ID, user.ID)

	utils.Success(c, "Order cancelled", gin.H{"order": orderResponse(order)})
}

// GET /v1/orders
func ListMyOrders(c *gin.Context) {
	utils.LogInfo("ListMyOrders called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	pagination := utils.NewPagination(c)
	var total int64
	query := config.DB.Model(&models.Order{}).Where("user_id = ?", user.ID)
	query.Count(&total)
	pagination.SetTotal(total)

	var orders []models.Order
	if err := config.DB.Preload("VoucherType").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to list orders for user %d: %v", user.ID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		out = append(out, orderResponse(&orders[i]))
	}
	utils.SendPaginatedResponse(c, out, pagination)
}

// GET /v1/orders/:id
func GetMyOrder(c *gin.Context) {
	utils.LogInfo("GetMyOrder called")
	user, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, ok := ownOrderID(c, user)
	if !ok {
		return
	}

	order, err := orderSvc.GetOrder(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := orderResponse(order)
	if order.Status == models.OrderStatusPaid {
		var codes []models.VoucherCode
		if err := config.DB.Where("order_id = ? AND status = ?", order.ID, models.CodeStatusAssigned).
			Order("id").Find(&codes).Error; err == nil {
			strs := make([]string, 0, len(codes))
			for _, code := range codes {
				strs = append(strs, code.Code)
			}
			resp["codes"] = strs
		}
	}

	utils.Success(c, "Order retrieved successfully", gin.H{"order": resp})
}

// ownOrderID parses the order ID parameter and checks the order belongs to
// the caller.
func ownOrderID(c *gin.Context, user models.User) (uint, bool) {
	orderID, ok := paramID(c, "id")
	if !ok {
		return 0, false
	}
	var order models.Order
	if err := config.DB.Select("id", "user_id").First(&order, orderID).Error; err != nil {
		utils.LogError("Order not found: %d", orderID)
		utils.NotFound(c, "Order not found")
		return 0, false
	}
	if order.UserID != user.ID {
		utils.LogError("User %d attempted access to order %d owned by user %d", user.ID, orderID, order.UserID)
		utils.NotFound(c, "Order not found")
		return 0, false
	}
	return orderID, true
}
