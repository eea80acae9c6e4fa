package utils

// Application constants
const (
	// Application name
	AppName = "VoucherVerse"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// JWT token expiration (24 hours)
	JWTExpiration = "24h"

	// Minimum voucher quantity per order
	MinOrderQuantity = 1

	// Maximum voucher quantity per order
	MaxOrderQuantity = 20

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 100

	// Minimum password length
	MinPasswordLength = 8
)

// Error messages
const (
	// Authentication errors
	ErrInvalidCredentials = "Invalid email or password"
	ErrUserBlocked        = "Your account has been blocked"
	ErrInvalidToken       = "Invalid or expired token"
	ErrUnauthorized       = "Unauthorized access"

	// Validation errors
	ErrInvalidQuantity = "Quantity must be between 1 and 20"
	ErrInvalidPrice    = "Price must be greater than 0"

	// Stock errors
	ErrSoldOut = "Not enough vouchers in stock"

	// Database errors
	ErrRecordNotFound = "Record not found"

	// Server errors
	ErrInternalServer = "Internal server error"
)
