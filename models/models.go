package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a buyer or administrator in the system
type User struct {
	gorm.Model
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `json:"-"`
	FirstName   string    `json:"first_name"`
	IsBlocked   bool      `json:"is_blocked"`
	IsAdmin     bool      `json:"is_admin" gorm:"default:false"`
	LastLoginAt time.Time `json:"last_login_at"`

	Orders []Order `json:"orders,omitempty" gorm:"foreignKey:UserID"`
}

// Complaint status constants
const (
	ComplaintStatusOpen       = "OPEN"
	ComplaintStatusInProgress = "IN_PROGRESS"
	ComplaintStatusClosed     = "CLOSED"
)

// Complaint represents a support ticket raised by a user
type Complaint struct {
	gorm.Model
	UserID uint   `json:"user_id"`
	User   User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Text   string `json:"text" gorm:"not null"`
	Status string `json:"status" gorm:"default:'OPEN'"`
}

// AdminLog action constants
const (
	AdminActionAddStock    = "ADD_STOCK"
	AdminActionRemoveStock = "REMOVE_STOCK"
	AdminActionChangePrice = "CHANGE_PRICE"
	AdminActionCreateType  = "CREATE_TYPE"
	AdminActionToggleType  = "TOGGLE_TYPE"
	AdminActionAddAdmin    = "ADD_ADMIN"
)

// AdminLog is an append-only audit record of administrative actions
type AdminLog struct {
	gorm.Model
	AdminID uint   `json:"admin_id"`
	Admin   User   `json:"admin,omitempty" gorm:"foreignKey:AdminID"`
	Action  string `json:"action"`
	Details string `json:"details"`
}
