package services

import "errors"

// Expected outcomes of inventory and order operations. Stock exhaustion and
// the expiry/payment race are ordinary return values, not fatal failures;
// only storage errors propagate untyped.
var (
	// ErrInsufficientStock is returned when fewer UNUSED codes exist than a
	// claim or withdrawal asked for. The attempt leaves no partial state.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidState is returned when an operation finds the order outside
	// its required precondition state.
	ErrInvalidState = errors.New("order not in a valid state for this operation")

	// ErrAlreadyProcessed is returned for a duplicate payment confirmation.
	// Webhook callers treat it as success.
	ErrAlreadyProcessed = errors.New("payment already processed")

	// ErrOrderExpired is returned when a payment confirmation loses the race
	// against the reservation sweeper.
	ErrOrderExpired = errors.New("order expired before payment")

	// ErrOrderNotFound is returned when the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrVoucherTypeNotFound is returned when the referenced voucher type
	// does not exist or is inactive.
	ErrVoucherTypeNotFound = errors.New("voucher type not found")

	// ErrUnauthorized is returned when a webhook event fails signature
	// verification. No state is mutated.
	ErrUnauthorized = errors.New("webhook signature verification failed")
)

// errNothingReserved signals that no codes are currently RESERVED for an
// order. It stays internal to the inventory/ledger boundary: the ledger maps
// it to ErrOrderExpired before it reaches any caller.
var errNothingReserved = errors.New("no codes reserved for order")
