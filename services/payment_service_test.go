package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/Arjun-407/voucherverse/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidEvent(orderID uint) []byte {
	return []byte(fmt.Sprintf(`{"reference_id":%d,"status":"paid"}`, orderID))
}

func awaitingOrder(t *testing.T, ledger *OrderService, userID, typeID uint, qty int) *models.Order {
	t.Helper()
	order, err := ledger.CreatePending(userID, typeID, qty)
	require.NoError(t, err)
	order, err = ledger.AcceptTermsAndReserve(order.ID, 5*time.Minute)
	require.NoError(t, err)
	return order
}

func TestHandleEventRejectsBadSignature(t *testing.T) {
	db := newTestDB(t)
	ledger := NewOrderService(db, NewInventoryService(db))
	svc := NewPaymentService(ledger, stubVerifier{ok: false}, &recordingNotifier{})

	outcome, err := svc.HandleEvent(paidEvent(1), "forged")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, outcome)
}

func TestHandleEventDeliversCodes(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	ledger := NewOrderService(db, inv)
	user := createTestUser(t, db, "buyer")
	vt := createTestType(t, db, 1000, 40)
	codes := addTestCodes(t, db, vt.ID, 2)

	order := awaitingOrder(t, ledger, user.ID, vt.ID, 2)

	notifier := &recordingNotifier{}
	svc := NewPaymentService(ledger, stubVerifier{ok: true}, notifier)

	outcome, err := svc.HandleEvent(paidEvent(order.ID), "sig")
	require.NoError(t, err)
	assert.Equal(t, ReconcileDelivered, outcome)

	got, err := ledger.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, got.Status)

	require.Equal(t, 1, notifier.count())
	for _, code := range codes {
		assert.Contains(t, notifier.last(), code)
	}
}

func TestHandleEventDuplicateDeliversOnce(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	ledger := NewOrderService(db, inv)
	user := createTestUser(t, db, "buyer")
	vt := createTestType(t, db, 1000, 40)
	addTestCodes(t, db, vt.ID, 1)

	order := awaitingOrder(t, ledger, user.ID, vt.ID, 1)

	notifier := &recordingNotifier{}
	svc := NewPaymentService(ledger, stubVerifier{ok: true}, notifier)

	outcome, err := svc.HandleEvent(paidEvent(order.ID), "sig")
	require.NoError(t, err)
	assert.Equal(t, ReconcileDelivered, outcome)

	// The gateway retries the same event.
	outcome, err = svc.HandleEvent(paidEvent(order.ID), "sig")
	require.NoError(t, err)
	assert.Equal(t, ReconcileDuplicate, outcome)

	// Codes went out exactly once.
	assert.Equal(t, 1, notifier.count())
}

func TestHandleEventIgnoresNonPaidStatus(t *testing.T) {
	db := newTestDB(t)
	ledger := NewOrderService(db, NewInventoryService(db))
	svc := NewPaymentService(ledger, stubVerifier{ok: true}, &recordingNotifier{})

	outcome, err := svc.HandleEvent([]byte(`{"reference_id":1,"status":"failed"}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, ReconcileIgnored, outcome)
}

func TestHandleEventIgnoresGarbagePayload(t *testing.T) {
	db := newTestDB(t)
	ledger := NewOrderService(db, NewInventoryService(db))
	svc := NewPaymentService(ledger, stubVerifier{ok: true}, &recordingNotifier{})

	outcome, err := svc.HandleEvent([]byte(`not json`), "sig")
	require.NoError(t, err)
	assert.Equal(t, ReconcileIgnored, outcome)
}

func TestHandleEventStaleForUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	ledger := NewOrderService(db, NewInventoryService(db))
	svc := NewPaymentService(ledger, stubVerifier{ok: true}, &recordingNotifier{})

	outcome, err := svc.HandleEvent(paidEvent(999), "sig")
	require.NoError(t, err)
	assert.Equal(t, ReconcileStale, outcome)
}

func TestHandleEventStaleAfterExpiry(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	ledger := NewOrderService(db, inv)
	user := createTestUser(t, db, "buyer")
	vt := createTestType(t, db, 1000, 40)
	addTestCodes(t, db, vt.ID, 1)

	order, err := ledger.CreatePending(user.ID, vt.ID, 1)
	require.NoError(t, err)
	_, err = ledger.AcceptTermsAndReserve(order.ID, -time.Second)
	require.NoError(t, err)

	// The sweeper reclaimed the codes before the payment event landed.
	NewSweeper(ledger, nil, time.Minute).SweepOnce(time.Now())

	notifier := &recordingNotifier{}
	svc := NewPaymentService(ledger, stubVerifier{ok: true}, notifier)

	outcome, err := svc.HandleEvent(paidEvent(order.ID), "sig")
	require.NoError(t, err)
	assert.Equal(t, ReconcileStale, outcome)

	// No codes were delivered and the pool is intact.
	assert.Equal(t, 0, notifier.count())
	assert.Equal(t, int64(1), countCodes(t, db, vt.ID, models.CodeStatusUnused))
}
