package models

import (
	"time"

	"gorm.io/gorm"
)

// Voucher code status constants
const (
	CodeStatusUnused   = "UNUSED"
	CodeStatusReserved = "RESERVED"
	CodeStatusAssigned = "ASSIGNED"
	CodeStatusRedeemed = "REDEEMED"
	CodeStatusRemoved  = "REMOVED"
)

// codeNext defines the legal voucher code status transitions. REMOVED codes
// may return to UNUSED when an admin restores withdrawn stock; REDEEMED is
// terminal.
var codeNext = map[string]map[string]bool{
	CodeStatusUnused:   {CodeStatusReserved: true, CodeStatusRemoved: true},
	CodeStatusReserved: {CodeStatusAssigned: true, CodeStatusUnused: true},
	CodeStatusAssigned: {CodeStatusRedeemed: true},
	CodeStatusRedeemed: {},
	CodeStatusRemoved:  {CodeStatusUnused: true},
}

// CanTransitionCode reports whether a voucher code may move between the two
// statuses.
func CanTransitionCode(from, to string) bool {
	return codeNext[from][to]
}

// VoucherType represents a priced denomination of voucher codes,
// e.g. a ₹2000 face-value tier sold at ₹70 per code.
type VoucherType struct {
	gorm.Model
	Name      string  `json:"name" gorm:"not null"`
	FaceValue float64 `json:"face_value" gorm:"not null"`
	Price     float64 `json:"price" gorm:"not null;check:price > 0"`
	Active    bool    `json:"active" gorm:"default:true"`

	Codes []VoucherCode `json:"-" gorm:"foreignKey:VoucherTypeID"`
}

// VoucherCode is the atomic unit of inventory: a single redeemable code
// string tied to one voucher type. Codes are never physically deleted;
// administrative withdrawal marks them REMOVED to preserve audit history.
//
// Invariant: OrderID is non-nil exactly when Status is RESERVED or ASSIGNED.
// Status and OrderID only change together inside inventory transactions.
type VoucherCode struct {
	gorm.Model
	VoucherTypeID uint        `json:"voucher_type_id" gorm:"index;not null"`
	VoucherType   VoucherType `json:"voucher_type,omitempty" gorm:"foreignKey:VoucherTypeID"`
	Code          string      `json:"code" gorm:"uniqueIndex;not null"`
	Status        string      `json:"status" gorm:"index;default:'UNUSED'"`
	OrderID       *uint       `json:"order_id,omitempty" gorm:"index"`
	ReservedUntil *time.Time  `json:"reserved_until,omitempty"`
}
