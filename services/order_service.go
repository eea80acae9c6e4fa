package services

import (
	"errors"
	"time"

	"github.com/Arjun-407/voucherverse/models"
	"github.com/Arjun-407/voucherverse/utils"
	"gorm.io/gorm"
)

// OrderService drives the order state machine. Every transition is a
// conditional update guarded by the required precondition status, so racing
// callers (buyer, sweeper, webhook) resolve through affected-row counts:
// exactly one wins, the rest observe ErrInvalidState or ErrOrderExpired.
type OrderService struct {
	db        *gorm.DB
	inventory *InventoryService
}

// NewOrderService creates an OrderService backed by the inventory store.
func NewOrderService(db *gorm.DB, inventory *InventoryService) *OrderService {
	return &OrderService{db: db, inventory: inventory}
}

// CreatePending creates an order in PENDING_TERMS, snapshotting the voucher
// type's current unit price. Quantity must be between 1 and 20. The snapshot
// makes the order immune to later price changes on the type.
func (s *OrderService) CreatePending(userID, voucherTypeID uint, quantity int) (*models.Order, error) {
	if quantity < utils.MinOrderQuantity || quantity > utils.MaxOrderQuantity {
		return nil, utils.BadRequestError(utils.ErrInvalidQuantity, nil)
	}

	var vt models.VoucherType
	if err := s.db.Where("id = ? AND active = ?", voucherTypeID, true).First(&vt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoucherTypeNotFound
		}
		return nil, utils.WrapError(err, "failed to load voucher type")
	}

	order := &models.Order{
		UserID:        userID,
		VoucherTypeID: vt.ID,
		Quantity:      quantity,
		UnitPrice:     vt.Price,
		Total:         vt.Price * float64(quantity),
		Status:        models.OrderStatusPendingTerms,
	}
	if err := s.db.Create(order).Error; err != nil {
		return nil, utils.WrapError(err, "failed to create order")
	}
	order.VoucherType = vt
	return order, nil
}

// AcceptTermsAndReserve claims the order's quantity of codes and moves the
// order from PENDING_TERMS to AWAITING_PAYMENT with the reservation window
// applied. On insufficient stock the order is cancelled and
// ErrInsufficientStock propagates to the caller.
func (s *OrderService) AcceptTermsAndReserve(orderID uint, window time.Duration) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPendingTerms {
		return nil, ErrInvalidState
	}

	expiry := time.Now().Add(window)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.inventory.claimTx(tx, order.VoucherTypeID, order.Quantity, order.ID, expiry); err != nil {
			return err
		}
		moved, err := transitionOrderTx(tx, order.ID,
			[]string{models.OrderStatusPendingTerms},
			models.OrderStatusAwaitingPayment,
			map[string]interface{}{"expires_at": expiry})
		if err != nil {
			return err
		}
		if !moved {
			return ErrInvalidState
		}
		return nil
	})

	if errors.Is(err, ErrInsufficientStock) {
		// Stock ran out between order creation and terms acceptance. The
		// order is dead either way; record the cancellation and surface the
		// shortage to the buyer.
		if _, cerr := s.transitionOrder(order.ID,
			[]string{models.OrderStatusPendingTerms}, models.OrderStatusCancelled, nil); cerr != nil {
			utils.LogError("Failed to cancel order %d after stock shortage: %v", order.ID, cerr)
		}
		return nil, ErrInsufficientStock
	}
	if err != nil {
		return nil, err
	}

	return s.GetOrder(order.ID)
}

// Cancel releases any reserved codes and moves the order to CANCELLED.
// Orders that already reached a terminal state return ErrInvalidState.
func (s *OrderService) Cancel(orderID uint) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		moved, err := transitionOrderTx(tx, order.ID,
			[]string{models.OrderStatusPendingTerms, models.OrderStatusTermsAccepted, models.OrderStatusAwaitingPayment},
			models.OrderStatusCancelled, nil)
		if err != nil {
			return err
		}
		if !moved {
			return ErrInvalidState
		}
		if _, err := s.inventory.releaseTx(tx, order.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(order.ID)
}

// ConfirmPayment finalizes the reservation and moves the order to PAID,
// returning the assigned codes for delivery. Duplicate confirmations get
// ErrAlreadyProcessed; a confirmation that lost the race against the expiry
// sweeper gets ErrOrderExpired with the order marked EXPIRED.
func (s *OrderService) ConfirmPayment(orderID uint) (*models.Order, []models.VoucherCode, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.Status == models.OrderStatusPaid {
		return order, nil, ErrAlreadyProcessed
	}
	if order.Status != models.OrderStatusAwaitingPayment {
		return nil, nil, ErrInvalidState
	}

	var codes []models.VoucherCode
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		codes, err = s.inventory.finalizeTx(tx, order.ID)
		if err != nil {
			return err
		}
		moved, err := transitionOrderTx(tx, order.ID,
			[]string{models.OrderStatusAwaitingPayment}, models.OrderStatusPaid, nil)
		if err != nil {
			return err
		}
		if !moved {
			return ErrAlreadyProcessed
		}
		return nil
	})

	if errors.Is(err, errNothingReserved) {
		// The sweeper released the reservation first. Mark the order EXPIRED
		// if the sweeper has not already done so.
		if _, terr := s.transitionOrder(order.ID,
			[]string{models.OrderStatusAwaitingPayment}, models.OrderStatusExpired, nil); terr != nil {
			utils.LogError("Failed to expire order %d after lost payment race: %v", order.ID, terr)
		}
		return nil, nil, ErrOrderExpired
	}
	if err != nil {
		return nil, nil, err
	}

	paid, err := s.GetOrder(order.ID)
	if err != nil {
		return nil, nil, err
	}
	return paid, codes, nil
}

// ExpireReservation releases the order's reserved codes and moves it from
// AWAITING_PAYMENT to EXPIRED. Returns false without error when a concurrent
// payment confirmation consumed the reservation first.
func (s *OrderService) ExpireReservation(orderID uint) (bool, error) {
	expired := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		moved, err := transitionOrderTx(tx, orderID,
			[]string{models.OrderStatusAwaitingPayment}, models.OrderStatusExpired, nil)
		if err != nil {
			return err
		}
		if !moved {
			return nil
		}
		if _, err := s.inventory.releaseTx(tx, orderID); err != nil {
			return err
		}
		expired = true
		return nil
	})
	return expired, err
}

// AttachPaymentLink records the gateway link and reference on an order that
// is awaiting payment.
func (s *OrderService) AttachPaymentLink(orderID uint, link, gatewayRef string) (*models.Order, error) {
	order, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusAwaitingPayment {
		return nil, ErrInvalidState
	}

	if err := s.db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{"payment_link": link, "gateway_ref": gatewayRef}).Error; err != nil {
		return nil, utils.WrapError(err, "failed to attach payment link")
	}
	return s.GetOrder(order.ID)
}

// GetOrder loads an order with its voucher type and user.
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("VoucherType").Preload("User").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, utils.WrapError(err, "failed to load order")
	}
	return &order, nil
}

// FindExpired returns the IDs of orders awaiting payment whose reservation
// window lapsed before the given instant.
func (s *OrderService) FindExpired(now time.Time) ([]uint, error) {
	var ids []uint
	if err := s.db.Model(&models.Order{}).
		Where("status = ? AND expires_at < ?", models.OrderStatusAwaitingPayment, now).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, utils.WrapError(err, "failed to select expired orders")
	}
	return ids, nil
}

// transitionOrder runs a single conditional transition in its own
// transaction.
func (s *OrderService) transitionOrder(orderID uint, from []string, to string, extra map[string]interface{}) (bool, error) {
	var moved bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		moved, err = transitionOrderTx(tx, orderID, from, to, extra)
		return err
	})
	return moved, err
}

// transitionOrderTx moves an order to the target status only if it is
// currently in one of the expected source statuses. The guarded WHERE clause
// makes the transition atomic; a false return means another caller changed
// the order first.
func transitionOrderTx(tx *gorm.DB, orderID uint, from []string, to string, extra map[string]interface{}) (bool, error) {
	for _, f := range from {
		if !models.CanTransitionOrder(f, to) {
			return false, utils.WrapError(ErrInvalidState, "illegal order transition "+f+" -> "+to)
		}
	}

	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND status IN ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return false, utils.WrapError(res.Error, "failed to transition order")
	}
	return res.RowsAffected == 1, nil
}
