package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Arjun-407/voucherverse/config"
	"github.com/Arjun-407/voucherverse/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. Capping the pool at a
// single connection keeps every goroutine on the same sqlite database and
// serializes concurrent transactions the way row locks would on postgres.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, config.MigrateDB(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestType(t *testing.T, db *gorm.DB, faceValue, price float64) *models.VoucherType {
	t.Helper()
	vt := &models.VoucherType{
		Name:      fmt.Sprintf("₹%.0f Voucher", faceValue),
		FaceValue: faceValue,
		Price:     price,
		Active:    true,
	}
	require.NoError(t, db.Create(vt).Error)
	return vt
}

func addTestCodes(t *testing.T, db *gorm.DB, voucherTypeID uint, n int) []string {
	t.Helper()
	codes := make([]string, 0, n)
	for i := 0; i < n; i++ {
		code := fmt.Sprintf("CODE-%d-%d", voucherTypeID, i)
		codes = append(codes, code)
		require.NoError(t, db.Create(&models.VoucherCode{
			VoucherTypeID: voucherTypeID,
			Code:          code,
			Status:        models.CodeStatusUnused,
		}).Error)
	}
	return codes
}

func countCodes(t *testing.T, db *gorm.DB, voucherTypeID uint, status string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.VoucherCode{}).
		Where("voucher_type_id = ? AND status = ?", voucherTypeID, status).
		Count(&n).Error)
	return n
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(user *models.User, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, subject+": "+body)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func (n *recordingNotifier) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return ""
	}
	return n.messages[len(n.messages)-1]
}

// stubVerifier accepts or rejects every payload.
type stubVerifier struct{ ok bool }

func (v stubVerifier) Verify(payload []byte, signature string) bool { return v.ok }
