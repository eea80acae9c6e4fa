package services

import (
	"strings"
	"testing"
	"time"

	"github.com/Arjun-407/voucherverse/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepExpiresLapsedReservations(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	ledger := NewOrderService(db, inv)
	user := createTestUser(t, db, "buyer")
	vt := createTestType(t, db, 1000, 40)
	addTestCodes(t, db, vt.ID, 4)

	lapsed, err := ledger.CreatePending(user.ID, vt.ID, 2)
	require.NoError(t, err)
	_, err = ledger.AcceptTermsAndReserve(lapsed.ID, -time.Second)
	require.NoError(t, err)

	fresh, err := ledger.CreatePending(user.ID, vt.ID, 2)
	require.NoError(t, err)
	_, err = ledger.AcceptTermsAndReserve(fresh.ID, 5*time.Minute)
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	sweeper := NewSweeper(ledger, notifier, time.Minute)

	expired := sweeper.SweepOnce(time.Now())
	assert.Equal(t, 1, expired)

	// The lapsed order is EXPIRED and its codes are back in the pool.
	got, err := ledger.GetOrder(lapsed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusExpired, got.Status)
	assert.Equal(t, int64(2), countCodes(t, db, vt.ID, models.CodeStatusUnused))

	// The fresh order keeps its reservation.
	got, err = ledger.GetOrder(fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAwaitingPayment, got.Status)
	assert.Equal(t, int64(2), countCodes(t, db, vt.ID, models.CodeStatusReserved))

	// The buyer heard about it.
	assert.Equal(t, 1, notifier.count())
	assert.Contains(t, notifier.last(), "expired")

	// A payment arriving after the sweep is rejected as expired.
	_, _, err = ledger.ConfirmPayment(lapsed.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSweepIsIdempotent(t *testing.T) {
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

	notifier := &recordingNotifier{}
	sweeper := NewSweeper(ledger, notifier, time.Minute)

	assert.Equal(t, 1, sweeper.SweepOnce(time.Now()))
	assert.Equal(t, 0, sweeper.SweepOnce(time.Now()))
	assert.Equal(t, 1, notifier.count())
}

func TestSweepSkipsPaidOrders(t *testing.T) {
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

	// Payment lands before the sweep runs.
	_, _, err = ledger.ConfirmPayment(order.ID)
	require.NoError(t, err)

	sweeper := NewSweeper(ledger, &recordingNotifier{}, time.Minute)
	assert.Equal(t, 0, sweeper.SweepOnce(time.Now()))

	got, err := ledger.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, got.Status)
	assert.Equal(t, int64(1), countCodes(t, db, vt.ID, models.CodeStatusAssigned))
}

func TestSweeperStartStop(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	ledger := NewOrderService(db, inv)

	sweeper := NewSweeper(ledger, nil, 10*time.Millisecond)
	sweeper.Start()
	time.Sleep(30 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		sweeper.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestNotifyExpiryMentionsOrder(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	ledger := NewOrderService(db, inv)
	user := createTestUser(t, db, "buyer")
	vt := createTestType(t, db, 2000, 70)
	addTestCodes(t, db, vt.ID, 1)

	order, err := ledger.CreatePending(user.ID, vt.ID, 1)
	require.NoError(t, err)
	_, err = ledger.AcceptTermsAndReserve(order.ID, -time.Second)
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	NewSweeper(ledger, notifier, time.Minute).SweepOnce(time.Now())

	require.Equal(t, 1, notifier.count())
	assert.True(t, strings.Contains(notifier.last(), "#"), "notification should reference the order number")
}
