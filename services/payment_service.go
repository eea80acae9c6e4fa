package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Arjun-407/voucherverse/models"
	"github.com/Arjun-407/voucherverse/utils"
)

// PaymentGateway generates a payable link for a confirmed order. The link
// generation and signature scheme belong to the gateway; the engine only
// consumes the capability.
type PaymentGateway interface {
	GeneratePayableLink(order *models.Order) (link, gatewayRef string, err error)
}

// WebhookVerifier checks the authenticity of an inbound payment event.
type WebhookVerifier interface {
	Verify(payload []byte, signature string) bool
}

// PaymentEvent is the minimal shape the engine needs from a gateway
// confirmation event.
type PaymentEvent struct {
	ReferenceID uint   `json:"reference_id"`
	Status      string `json:"status"`
}

// Reconciliation outcomes. Every outcome except an infrastructure failure is
// acknowledged to the gateway so it stops retrying.
const (
	ReconcileDelivered = "delivered"
	ReconcileDuplicate = "duplicate"
	ReconcileIgnored   = "ignored"
	ReconcileStale     = "stale"
)

// PaymentService reconciles gateway confirmation events with the order
// ledger, exactly once per order.
type PaymentService struct {
	ledger   *OrderService
	verifier WebhookVerifier
	notifier Notifier
}

// NewPaymentService creates a PaymentService.
func NewPaymentService(ledger *OrderService, verifier WebhookVerifier, notifier Notifier) *PaymentService {
	return &PaymentService{ledger: ledger, verifier: verifier, notifier: notifier}
}

// HandleEvent processes a raw webhook payload. It verifies authenticity,
// confirms payment idempotently, and delivers the assigned codes to the
// buyer. The returned outcome tells the webhook handler how the event was
// absorbed; a non-nil error means the event must not be acknowledged.
func (s *PaymentService) HandleEvent(payload []byte, signature string) (string, error) {
	if !s.verifier.Verify(payload, signature) {
		return "", ErrUnauthorized
	}

	var event PaymentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		utils.LogError("Webhook payload could not be parsed: %v", err)
		return ReconcileIgnored, nil
	}

	if event.Status != "paid" {
		utils.LogInfo("Webhook event for order %d ignored with status %q", event.ReferenceID, event.Status)
		return ReconcileIgnored, nil
	}

	order, codes, err := s.ledger.ConfirmPayment(event.ReferenceID)
	switch {
	case err == nil:
		s.deliverCodes(order, codes)
		return ReconcileDelivered, nil
	case errors.Is(err, ErrAlreadyProcessed):
		// The gateway retried delivery of an event we already applied.
		utils.LogInfo("Duplicate payment confirmation for order %d acknowledged", event.ReferenceID)
		return ReconcileDuplicate, nil
	case errors.Is(err, ErrOrderExpired), errors.Is(err, ErrInvalidState), errors.Is(err, ErrOrderNotFound):
		// Stale or malformed event. Acknowledge so the gateway stops
		// retrying, but keep a trace for investigation: a legitimate payment
		// landing here means the buyer paid for an expired reservation.
		utils.LogError("Payment confirmation for order %d not applicable: %v", event.ReferenceID, err)
		return ReconcileStale, nil
	default:
		return "", err
	}
}

func (s *PaymentService) deliverCodes(order *models.Order, codes []models.VoucherCode) {
	if s.notifier == nil {
		return
	}
	lines := make([]string, 0, len(codes))
	for _, c := range codes {
		lines = append(lines, "- "+c.Code)
	}
	body := fmt.Sprintf("Payment received for order #%d!<br>Here are your voucher codes:<br><br>%s",
		order.ID, strings.Join(lines, "<br>"))
	if err := s.notifier.Notify(&order.User, "Your voucher codes", body); err != nil {
		utils.LogError("Could not deliver codes for order %d to user %d: %v", order.ID, order.UserID, err)
	}
}
