package models

import (
	"time"

	"gorm.io/gorm"
)

// Order status constants
const (
	OrderStatusPendingTerms    = "PENDING_TERMS"
	OrderStatusTermsAccepted   = "TERMS_ACCEPTED"
	OrderStatusAwaitingPayment = "AWAITING_PAYMENT"
	OrderStatusPaid            = "PAID"
	OrderStatusExpired         = "EXPIRED"
	OrderStatusCancelled       = "CANCELLED"
)

// orderNext defines the legal order status transitions. PAID, EXPIRED and
// CANCELLED are terminal.
var orderNext = map[string]map[string]bool{
	OrderStatusPendingTerms:    {OrderStatusTermsAccepted: true, OrderStatusAwaitingPayment: true, OrderStatusCancelled: true},
	OrderStatusTermsAccepted:   {OrderStatusAwaitingPayment: true, OrderStatusCancelled: true},
	OrderStatusAwaitingPayment: {OrderStatusPaid: true, OrderStatusExpired: true, OrderStatusCancelled: true},
	OrderStatusPaid:            {},
	OrderStatusExpired:         {},
	OrderStatusCancelled:       {},
}

// CanTransitionOrder reports whether an order may move between the two
// statuses.
func CanTransitionOrder(from, to string) bool {
	return orderNext[from][to]
}

// Order represents a purchase of N voucher codes of one type. Quantity,
// UnitPrice and Total are snapshotted at creation and never change even if
// the voucher type is later repriced. Orders are never deleted; terminal
// rows serve as the purchase history.
type Order struct {
	gorm.Model
	UserID        uint        `json:"user_id" gorm:"index;not null"`
	User          User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	VoucherTypeID uint        `json:"voucher_type_id" gorm:"not null"`
	VoucherType   VoucherType `json:"voucher_type,omitempty" gorm:"foreignKey:VoucherTypeID"`
	Quantity      int         `json:"quantity" gorm:"not null"`
	UnitPrice     float64     `json:"unit_price" gorm:"not null"`
	Total         float64     `json:"total" gorm:"not null"`
	Status        string      `json:"status" gorm:"index;default:'PENDING_TERMS'"`
	ExpiresAt     *time.Time  `json:"expires_at,omitempty"`
	PaymentLink   string      `json:"payment_link,omitempty"`
	GatewayRef    string      `json:"gateway_ref,omitempty" gorm:"index"`

	Codes []VoucherCode `json:"codes,omitempty" gorm:"foreignKey:OrderID"`
}
