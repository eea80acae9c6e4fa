package services

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Arjun-407/voucherverse/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimReservesExactly(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	vt := createTestType(t, db, 1000, 40)
	addTestCodes(t, db, vt.ID, 3)

	expiry := time.Now().Add(5 * time.Minute)
	claimed, err := inv.Claim(vt.ID, 2, 101, expiry)
	require.NoError(t, err)
	require.Len(t, claimed, 2)

	for _, code := range claimed {
		assert.Equal(t, models.CodeStatusReserved, code.Status)
		require.NotNil(t, code.OrderID)
		assert.Equal(t, uint(101), *code.OrderID)
		require.NotNil(t, code.ReservedUntil)
	}

	assert.Equal(t, int64(1), countCodes(t, db, vt.ID, models.CodeStatusUnused))
	assert.Equal(t, int64(2), countCodes(t, db, vt.ID, models.CodeStatusReserved))
}

func TestClaimAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	vt := createTestType(t, db, 1000, 40)
	addTestCodes(t, db, vt.ID, 1)

	_, err := inv.Claim(vt.ID, 2, 101, time.Now().Add(time.Minute))
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing was claimed.
	assert.Equal(t, int64(1), countCodes(t, db, vt.ID, models.CodeStatusUnused))
	assert.Equal(t, int64(0), countCodes(t, db, vt.ID, models.CodeStatusReserved))
}

func TestClaimConcurrentNoDoubleAllocation(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	vt := createTestType(t, db, 2000, 70)
	addTestCodes(t, db, vt.ID, 20)

	totalRequests := 50
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(orderID uint) {
			defer wg.Done()
			_, err := inv.Claim(vt.ID, 1, orderID, time.Now().Add(time.Minute))
			if err == nil {
				successCount.Add(1)
			} else {
				assert.ErrorIs(t, err, ErrInsufficientStock)
			}
		}(uint(i + 1))
	}
	wg.Wait()

	// Reservations never exceed the pre-claim stock.
	assert.Equal(t, int32(20), successCount.Load())
	assert.Equal(t, int64(20), countCodes(t, db, vt.ID, models.CodeStatusReserved))
	assert.Equal(t, int64(0), countCodes(t, db, vt.ID, models.CodeStatusUnused))

	// No code is bound to two orders: each winning order holds exactly one.
	var rows []struct {
		OrderID uint
		N       int64
	}
	require.NoError(t, db.Model(&models.VoucherCode{}).
		Select("order_id, count(*) as n").
		Where("status = ?", models.CodeStatusReserved).
		Group("order_id").
		Scan(&rows).Error)
	require.Len(t, rows, 20)
	for _, r := range rows {
		assert.Equal(t, int64(1), r.N)
	}
}

func TestReleaseRoundTrip(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	vt := createTestType(t, db, 1000, 40)
	addTestCodes(t, db, vt.ID, 5)

	_, err := inv.Claim(vt.ID, 3, 7, time.Now().Add(time.Minute))
	require.NoError(t, err)

	released, err := inv.Release(7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), released)

	// Every claimed code is back in the pool with no residual binding.
	assert.Equal(t, int64(5), countCodes(t, db, vt.ID, models.CodeStatusUnused))
	var bound int64
	require.NoError(t, db.Model(&models.VoucherCode{}).
		Where("order_id IS NOT NULL").Count(&bound).Error)
	assert.Equal(t, int64(0), bound)

	// Idempotent: a second release is a no-op.
	released, err = inv.Release(7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), released)
}

func TestFinalizeAssignsAndGuardsDuplicates(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	vt := createTestType(t, db, 1000, 40)
	addTestCodes(t, db, vt.ID, 2)

	_, err := inv.Claim(vt.ID, 2, 9, time.Now().Add(time.Minute))
	require.NoError(t, err)

	assigned, err := inv.Finalize(9)
	require.NoError(t, err)
	require.Len(t, assigned, 2)
	for _, code := range assigned {
		assert.Equal(t, models.CodeStatusAssigned, code.Status)
	}
	assert.Equal(t, int64(2), countCodes(t, db, vt.ID, models.CodeStatusAssigned))

	// A second finalize finds nothing reserved.
	_, err = inv.Finalize(9)
	require.ErrorIs(t, err, errNothingReserved)

	// Finalizing an order that never reserved also fails.
	_, err = inv.Finalize(12345)
	require.ErrorIs(t, err, errNothingReserved)
}

func TestBulkAddSkipsDuplicates(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	vt := createTestType(t, db, 4000, 140)

	inserted, err := inv.BulkAdd(vt.ID, []string{"AAA", "BBB", "  ", "CCC"})
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	// Duplicates are rejected individually without aborting the batch.
	inserted, err = inv.BulkAdd(vt.ID, []string{"BBB", "DDD"})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	assert.Equal(t, int64(4), countCodes(t, db, vt.ID, models.CodeStatusUnused))
}

func TestBulkWithdrawAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	vt := createTestType(t, db, 1000, 40)
	addTestCodes(t, db, vt.ID, 3)

	_, err := inv.BulkWithdraw(vt.ID, 5)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, int64(3), countCodes(t, db, vt.ID, models.CodeStatusUnused))

	withdrawn, err := inv.BulkWithdraw(vt.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), withdrawn)
	assert.Equal(t, int64(1), countCodes(t, db, vt.ID, models.CodeStatusUnused))
	assert.Equal(t, int64(2), countCodes(t, db, vt.ID, models.CodeStatusRemoved))
}

func TestBulkRestoreReturnsWithdrawnCodes(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	vt := createTestType(t, db, 1000, 40)
	addTestCodes(t, db, vt.ID, 3)

	_, err := inv.BulkWithdraw(vt.ID, 3)
	require.NoError(t, err)

	restored, err := inv.BulkRestore(vt.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), restored)
	assert.Equal(t, int64(2), countCodes(t, db, vt.ID, models.CodeStatusUnused))
	assert.Equal(t, int64(1), countCodes(t, db, vt.ID, models.CodeStatusRemoved))
}

func TestCountByStatus(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	vt := createTestType(t, db, 2000, 70)
	addTestCodes(t, db, vt.ID, 4)

	_, err := inv.Claim(vt.ID, 2, 1, time.Now().Add(time.Minute))
	require.NoError(t, err)
	_, err = inv.BulkWithdraw(vt.ID, 1)
	require.NoError(t, err)

	count, err := inv.CountByStatus(vt.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Unused)
	assert.Equal(t, int64(2), count.Reserved)
	assert.Equal(t, int64(0), count.Assigned)
	assert.Equal(t, int64(1), count.Removed)
}

func TestClaimDoesNotTouchOtherTypes(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	vtA := createTestType(t, db, 1000, 40)
	vtB := createTestType(t, db, 2000, 70)
	addTestCodes(t, db, vtA.ID, 2)
	addTestCodes(t, db, vtB.ID, 2)

	_, err := inv.Claim(vtA.ID, 2, 1, time.Now().Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, int64(2), countCodes(t, db, vtB.ID, models.CodeStatusUnused))
	assert.Equal(t, int64(0), countCodes(t, db, vtB.ID, models.CodeStatusReserved))
}

func TestStockCountsAcrossLifecycle(t *testing.T) {
	db := newTestDB(t)
	inv := NewInventoryService(db)
	vt := createTestType(t, db, 1000, 40)
	addTestCodes(t, db, vt.ID, 3)

	for i, want := range []struct {
		claim  int
		unused int64
	}{{1, 2}, {2, 0}} {
		_, err := inv.Claim(vt.ID, want.claim, uint(i+1), time.Now().Add(time.Minute))
		require.NoError(t, err, fmt.Sprintf("claim %d", i))
		assert.Equal(t, want.unused, countCodes(t, db, vt.ID, models.CodeStatusUnused))
	}
}
