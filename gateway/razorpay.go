package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/Arjun-407/voucherverse/models"
	"github.com/Arjun-407/voucherverse/utils"
	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway generates payable links through the Razorpay payment-link
// API. The order reference travels in reference_id so the webhook can map
// the confirmation back to the ledger.
type RazorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway creates a gateway client from API credentials.
func NewRazorpayGateway(key, secret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(key, secret)}
}

// GeneratePayableLink creates a payment link for the order total. Razorpay
// expects the amount in paise.
func (g *RazorpayGateway) GeneratePayableLink(order *models.Order) (string, string, error) {
	amountPaise := int(order.Total * 100)

	data := map[string]interface{}{
		"amount":       amountPaise,
		"currency":     "INR",
		"reference_id": strconv.FormatUint(uint64(order.ID), 10),
		"description":  fmt.Sprintf("%d x %s", order.Quantity, order.VoucherType.Name),
		"notes": map[string]interface{}{
			"order_id": strconv.FormatUint(uint64(order.ID), 10),
		},
	}

	link, err := g.client.PaymentLink.Create(data, nil)
	if err != nil {
		return "", "", utils.WrapError(err, "failed to create payment link")
	}

	shortURL, _ := link["short_url"].(string)
	id, _ := link["id"].(string)
	if shortURL == "" || id == "" {
		return "", "", fmt.Errorf("unexpected payment link response: %v", link)
	}
	return shortURL, id, nil
}

// HMACVerifier validates webhook payloads with HMAC-SHA256 over the raw
// body, hex-encoded, compared in constant time.
type HMACVerifier struct {
	Secret string
}

// Verify implements services.WebhookVerifier.
func (v HMACVerifier) Verify(payload []byte, signature string) bool {
	if v.Secret == "" || signature == "" {
		return false
	}
	h := hmac.New(sha256.New, []byte(v.Secret))
	h.Write(payload)
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
