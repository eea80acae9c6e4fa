package controllers

import (
	"errors"
	"strconv"

	"github.com/Arjun-407/voucherverse/models"
	"github.com/Arjun-407/voucherverse/services"
	"github.com/Arjun-407/voucherverse/utils"
	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user set by the auth middleware.
func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return models.User{}, false
	}
	return userVal.(models.User), true
}

// paramID parses a numeric path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		utils.LogError("Invalid %s parameter: %q", name, raw)
		utils.BadRequest(c, "Invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps engine outcomes onto the response envelope.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInsufficientStock):
		utils.Conflict(c, utils.ErrSoldOut, nil)
	case errors.Is(err, services.ErrInvalidState):
		utils.Conflict(c, "Order is not in a valid state for this operation", nil)
	case errors.Is(err, services.ErrAlreadyProcessed):
		utils.Conflict(c, "Payment already processed for this order", nil)
	case errors.Is(err, services.ErrOrderExpired):
		utils.Conflict(c, "Order expired before payment", nil)
	case errors.Is(err, services.ErrOrderNotFound):
		utils.NotFound(c, "Order not found")
	case errors.Is(err, services.ErrVoucherTypeNotFound):
		utils.NotFound(c, "Voucher type not found")
	default:
		if appErr := utils.GetAppError(err); appErr != nil {
			utils.Error(c, appErr.Code, appErr.Message, nil)
			return
		}
		utils.InternalServerError(c, utils.ErrInternalServer, err.Error())
	}
}

// orderResponse shapes an order for API output.
func orderResponse(order *models.Order) gin.H {
	resp := gin.H{
		"id":         order.ID,
		"status":     order.Status,
		"quantity":   order.Quantity,
		"unit_price": order.UnitPrice,
		"total":      order.Total,
		"created_at": order.CreatedAt,
	}
	if order.VoucherType.ID != 0 {
		resp["voucher_type"] = gin.H{
			"id":         order.VoucherType.ID,
			"name":       order.VoucherType.Name,
			"face_value": order.VoucherType.FaceValue,
		}
	}
	if order.ExpiresAt != nil {
		resp["expires_at"] = order.ExpiresAt
	}
	if order.PaymentLink != "" {
		resp["payment_link"] = order.PaymentLink
	}
	return resp
}
