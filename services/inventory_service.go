package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Arjun-407/voucherverse/models"
	"github.com/Arjun-407/voucherverse/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryService is the sole authority over voucher code status. Every
// mutation runs inside a transaction and transitions codes with guarded
// conditional updates: the UPDATE carries the expected current status in its
// WHERE clause and the affected-row count is checked against the expected
// set size. Two transactions racing for the same codes cannot both win; the
// loser observes a short row count and rolls back.
type InventoryService struct {
	db *gorm.DB
}

// NewInventoryService creates an InventoryService on the given database.
func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// Claim atomically reserves exactly quantity UNUSED codes of the voucher
// type for the order, stamping them with the reservation expiry. The claim
// is all-or-nothing: if fewer than quantity codes are UNUSED at the moment
// of the attempt, nothing is reserved and ErrInsufficientStock is returned.
func (s *InventoryService) Claim(voucherTypeID uint, quantity int, orderID uint, expiry time.Time) ([]models.VoucherCode, error) {
	var claimed []models.VoucherCode
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		claimed, err = s.claimTx(tx, voucherTypeID, quantity, orderID, expiry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (s *InventoryService) claimTx(tx *gorm.DB, voucherTypeID uint, quantity int, orderID uint, expiry time.Time) ([]models.VoucherCode, error) {
	var ids []uint
	if err := tx.Model(&models.VoucherCode{}).
		Where("voucher_type_id = ? AND status = ?", voucherTypeID, models.CodeStatusUnused).
		Order("id").
		Limit(quantity).
		Pluck("id", &ids).Error; err != nil {
		return nil, utils.WrapError(err, "failed to select unused codes")
	}
	if len(ids) < quantity {
		return nil, ErrInsufficientStock
	}

	res := tx.Model(&models.VoucherCode{}).
		Where("id IN ? AND status = ?", ids, models.CodeStatusUnused).
		Updates(map[string]interface{}{
			"status":         models.CodeStatusReserved,
			"order_id":       orderID,
			"reserved_until": expiry,
		})
	if res.Error != nil {
		return nil, utils.WrapError(res.Error, "failed to reserve codes")
	}
	// A concurrent claim snatched part of the candidate set between the
	// select and the guarded update. Roll back rather than hold a partial
	// reservation.
	if res.RowsAffected != int64(quantity) {
		return nil, ErrInsufficientStock
	}

	var claimed []models.VoucherCode
	if err := tx.Where("id IN ?", ids).Order("id").Find(&claimed).Error; err != nil {
		return nil, utils.WrapError(err, "failed to load reserved codes")
	}
	return claimed, nil
}

// Release returns every code currently RESERVED for the order to UNUSED,
// clearing the order binding and expiry. Idempotent: an order with no
// reserved codes is a no-op returning 0.
func (s *InventoryService) Release(orderID uint) (int64, error) {
	var released int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		released, err = s.releaseTx(tx, orderID)
		return err
	})
	return released, err
}

func (s *InventoryService) releaseTx(tx *gorm.DB, orderID uint) (int64, error) {
	res := tx.Model(&models.VoucherCode{}).
		Where("order_id = ? AND status = ?", orderID, models.CodeStatusReserved).
		Updates(map[string]interface{}{
			"status":         models.CodeStatusUnused,
			"order_id":       nil,
			"reserved_until": nil,
		})
	if res.Error != nil {
		return 0, utils.WrapError(res.Error, "failed to release codes")
	}
	return res.RowsAffected, nil
}

// Finalize transitions every RESERVED code of the order to ASSIGNED and
// returns them for delivery. Returns errNothingReserved when no codes are
// reserved for the order (already finalized, already released, or never
// reserved); that check is the idempotency guard against duplicate payment
// confirmations.
func (s *InventoryService) Finalize(orderID uint) ([]models.VoucherCode, error) {
	var assigned []models.VoucherCode
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		assigned, err = s.finalizeTx(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return assigned, nil
}

func (s *InventoryService) finalizeTx(tx *gorm.DB, orderID uint) ([]models.VoucherCode, error) {
	var reserved []models.VoucherCode
	if err := tx.Where("order_id = ? AND status = ?", orderID, models.CodeStatusReserved).
		Order("id").
		Find(&reserved).Error; err != nil {
		return nil, utils.WrapError(err, "failed to load reserved codes")
	}
	if len(reserved) == 0 {
		return nil, errNothingReserved
	}

	res := tx.Model(&models.VoucherCode{}).
		Where("order_id = ? AND status = ?", orderID, models.CodeStatusReserved).
		Updates(map[string]interface{}{
			"status":         models.CodeStatusAssigned,
			"reserved_until": nil,
		})
	if res.Error != nil {
		return nil, utils.WrapError(res.Error, "failed to assign codes")
	}
	if res.RowsAffected == 0 {
		return nil, errNothingReserved
	}
	// The reservation invariant guarantees all-or-nothing binding, so a
	// partial match here means inventory state is corrupt. Fail loudly
	// instead of delivering a short set.
	if res.RowsAffected != int64(len(reserved)) {
		return nil, fmt.Errorf("finalize consistency violation for order %d: expected %d reserved codes, assigned %d",
			orderID, len(reserved), res.RowsAffected)
	}

	for i := range reserved {
		reserved[i].Status = models.CodeStatusAssigned
		reserved[i].ReservedUntil = nil
	}
	return reserved, nil
}

// BulkAdd inserts new UNUSED codes for the voucher type. Duplicate or empty
// code strings are skipped individually without aborting the batch; the
// returned count is the number actually inserted.
func (s *InventoryService) BulkAdd(voucherTypeID uint, codes []string) (int, error) {
	inserted := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, raw := range codes {
			code := strings.TrimSpace(raw)
			if code == "" {
				continue
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.VoucherCode{
				VoucherTypeID: voucherTypeID,
				Code:          code,
				Status:        models.CodeStatusUnused,
			})
			if res.Error != nil {
				return utils.WrapError(res.Error, "failed to insert code")
			}
			inserted += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// BulkWithdraw soft-deletes up to quantity UNUSED codes of the voucher type
// by marking them REMOVED. All-or-nothing like Claim.
func (s *InventoryService) BulkWithdraw(voucherTypeID uint, quantity int) (int64, error) {
	var withdrawn int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.VoucherCode{}).
			Where("voucher_type_id = ? AND status = ?", voucherTypeID, models.CodeStatusUnused).
			Order("id").
			Limit(quantity).
			Pluck("id", &ids).Error; err != nil {
			return utils.WrapError(err, "failed to select unused codes")
		}
		if len(ids) < quantity {
			return ErrInsufficientStock
		}

		res := tx.Model(&models.VoucherCode{}).
			Where("id IN ? AND status = ?", ids, models.CodeStatusUnused).
			Update("status", models.CodeStatusRemoved)
		if res.Error != nil {
			return utils.WrapError(res.Error, "failed to withdraw codes")
		}
		if res.RowsAffected != int64(quantity) {
			return ErrInsufficientStock
		}
		withdrawn = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return withdrawn, nil
}

// BulkRestore returns up to quantity REMOVED codes of the voucher type to
// UNUSED, undoing an administrative withdrawal.
func (s *InventoryService) BulkRestore(voucherTypeID uint, quantity int) (int64, error) {
	var restored int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.VoucherCode{}).
			Where("voucher_type_id = ? AND status = ?", voucherTypeID, models.CodeStatusRemoved).
			Order("id").
			Limit(quantity).
			Pluck("id", &ids).Error; err != nil {
			return utils.WrapError(err, "failed to select removed codes")
		}
		if len(ids) == 0 {
			return nil
		}

		res := tx.Model(&models.VoucherCode{}).
			Where("id IN ? AND status = ?", ids, models.CodeStatusRemoved).
			Update("status", models.CodeStatusUnused)
		if res.Error != nil {
			return utils.WrapError(res.Error, "failed to restore codes")
		}
		restored = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return restored, nil
}

// StockCount holds per-status code counts for one voucher type.
type StockCount struct {
	Unused   int64 `json:"unused"`
	Reserved int64 `json:"reserved"`
	Assigned int64 `json:"assigned"`
	Removed  int64 `json:"removed"`
}

// CountByStatus returns the code counts for a voucher type.
func (s *InventoryService) CountByStatus(voucherTypeID uint) (*StockCount, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	if err := s.db.Model(&models.VoucherCode{}).
		Select("status, count(*) as n").
		Where("voucher_type_id = ?", voucherTypeID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, utils.WrapError(err, "failed to count codes")
	}

	count := &StockCount{}
	for _, r := range rows {
		switch r.Status {
		case models.CodeStatusUnused:
			count.Unused = r.N
		case models.CodeStatusReserved:
			count.Reserved = r.N
		case models.CodeStatusAssigned:
			count.Assigned = r.N
		case models.CodeStatusRemoved:
			count.Removed = r.N
		}
	}
	return count, nil
}
