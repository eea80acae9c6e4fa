package services

import (
	"errors"
	"fmt"

	"github.com/Arjun-407/voucherverse/models"
	"github.com/Arjun-407/voucherverse/utils"
	"gorm.io/gorm"
)

// StockService is thin orchestration over the inventory store for
// administrative stock edits. Every mutation appends an AdminLog entry.
// Correctness under concurrent sales relies entirely on InventoryService's
// guarded transitions; callers are expected to have passed the admin
// capability check already.
type StockService struct {
	db        *gorm.DB
	inventory *InventoryService
}

// NewStockService creates a StockService.
func NewStockService(db *gorm.DB, inventory *InventoryService) *StockService {
	return &StockService{db: db, inventory: inventory}
}

// AddCodes bulk-inserts UNUSED codes for a voucher type. Duplicates are
// skipped; the returned count is what was actually added.
func (s *StockService) AddCodes(adminID, voucherTypeID uint, codes []string) (int, error) {
	vt, err := s.getType(voucherTypeID)
	if err != nil {
		return 0, err
	}

	added, err := s.inventory.BulkAdd(vt.ID, codes)
	if err != nil {
		return 0, err
	}

	s.appendLog(adminID, models.AdminActionAddStock,
		fmt.Sprintf("Voucher ₹%.0f: +%d codes", vt.FaceValue, added))
	return added, nil
}

// WithdrawCodes marks quantity UNUSED codes of a voucher type as REMOVED.
func (s *StockService) WithdrawCodes(adminID, voucherTypeID uint, quantity int) (int64, error) {
	if quantity < 1 {
		return 0, utils.BadRequestError("Quantity must be positive", nil)
	}
	vt, err := s.getType(voucherTypeID)
	if err != nil {
		return 0, err
	}

	withdrawn, err := s.inventory.BulkWithdraw(vt.ID, quantity)
	if err != nil {
		return 0, err
	}

	s.appendLog(adminID, models.AdminActionRemoveStock,
		fmt.Sprintf("Voucher ₹%.0f: -%d codes (marked REMOVED)", vt.FaceValue, withdrawn))
	return withdrawn, nil
}

// ChangePrice updates a voucher type's unit price. Existing orders keep
// their snapshotted price.
func (s *StockService) ChangePrice(adminID, voucherTypeID uint, price float64) (*models.VoucherType, error) {
	if price <= 0 {
		return nil, utils.BadRequestError(utils.ErrInvalidPrice, nil)
	}
	vt, err := s.getType(voucherTypeID)
	if err != nil {
		return nil, err
	}

	old := vt.Price
	if err := s.db.Model(vt).Update("price", price).Error; err != nil {
		return nil, utils.WrapError(err, "failed to update price")
	}
	vt.Price = price

	s.appendLog(adminID, models.AdminActionChangePrice,
		fmt.Sprintf("Voucher ₹%.0f: %.2f -> %.2f", vt.FaceValue, old, price))
	return vt, nil
}

// CreateType creates a new voucher denomination.
func (s *StockService) CreateType(adminID uint, name string, faceValue, price float64) (*models.VoucherType, error) {
	if price <= 0 {
		return nil, utils.BadRequestError(utils.ErrInvalidPrice, nil)
	}

	vt := &models.VoucherType{Name: name, FaceValue: faceValue, Price: price, Active: true}
	if err := s.db.Create(vt).Error; err != nil {
		return nil, utils.WrapError(err, "failed to create voucher type")
	}

	s.appendLog(adminID, models.AdminActionCreateType,
		fmt.Sprintf("Created %s (face ₹%.0f, price ₹%.2f)", name, faceValue, price))
	return vt, nil
}

// SetTypeActive toggles a voucher type in or out of the purchase listings.
// Existing codes and orders referencing an inactive type stay valid.
func (s *StockService) SetTypeActive(adminID, voucherTypeID uint, active bool) (*models.VoucherType, error) {
	vt, err := s.getType(voucherTypeID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(vt).Update("active", active).Error; err != nil {
		return nil, utils.WrapError(err, "failed to update voucher type")
	}
	vt.Active = active

	s.appendLog(adminID, models.AdminActionToggleType,
		fmt.Sprintf("Voucher ₹%.0f: active=%t", vt.FaceValue, active))
	return vt, nil
}

// PromoteAdmin grants admin rights to an existing user.
func (s *StockService) PromoteAdmin(adminID, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFoundError("User not found", nil)
		}
		return nil, utils.WrapError(err, "failed to load user")
	}

	if !user.IsAdmin {
		if err := s.db.Model(&user).Update("is_admin", true).Error; err != nil {
			return nil, utils.WrapError(err, "failed to promote user")
		}
		user.IsAdmin = true
	}

	s.appendLog(adminID, models.AdminActionAddAdmin,
		fmt.Sprintf("Granted admin rights to user %d", user.ID))
	return &user, nil
}

func (s *StockService) getType(voucherTypeID uint) (*models.VoucherType, error) {
	var vt models.VoucherType
	if err := s.db.First(&vt, voucherTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoucherTypeNotFound
		}
		return nil, utils.WrapError(err, "failed to load voucher type")
	}
	return &vt, nil
}

func (s *StockService) appendLog(adminID uint, action, details string) {
	entry := &models.AdminLog{AdminID: adminID, Action: action, Details: details}
	if err := s.db.Create(entry).Error; err != nil {
		utils.LogError("Failed to append admin log (%s): %v", action, err)
	}
}
