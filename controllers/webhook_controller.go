package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/Arjun-407/voucherverse/services"
	"github.com/Arjun-407/voucherverse/utils"
	"github.com/gin-gonic/gin"
)

// POST /webhook/payment
//
// Inbound gateway confirmation. The raw body is verified against the
// X-Webhook-Signature header before anything is parsed. Replays of the same
// event are acknowledged as no-ops; stale events (expired or cancelled
// orders) are acknowledged but logged for investigation so a legitimate
// payment is never silently lost.
func PaymentWebhook(c *gin.Context) {
	utils.LogInfo("PaymentWebhook called")

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.LogError("Failed to read webhook body: %v", err)
		c.String(http.StatusBadRequest, "bad request")
		return
	}
	signature := c.GetHeader("X-Webhook-Signature")

	outcome, err := paymentSvc.HandleEvent(payload, signature)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			utils.LogError("Webhook rejected: invalid signature")
			c.String(http.StatusUnauthorized, "invalid signature")
			return
		}
		utils.LogError("Webhook processing failed: %v", err)
		c.String(http.StatusInternalServerError, "error")
		return
	}

	utils.LogInfo("Webhook absorbed with outcome %q", outcome)
	c.String(http.StatusOK, outcome)
}
