package controllers

import (
	"os"
	"time"

	"github.com/Arjun-407/voucherverse/config"
	"github.com/Arjun-407/voucherverse/models"
	"github.com/Arjun-407/voucherverse/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
}

// Register creates a new user account
func Register(c *gin.Context) {
	utils.LogInfo("Register called")

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid registration request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error; err == nil {
		utils.LogError("Registration rejected, user already exists: %s", req.Email)
		utils.Conflict(c, "User with this email or username already exists", nil)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.LogError("Failed to hash password: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		utils.LogError("Failed to create user: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, err.Error())
		return
	}

	utils.LogInfo("User registered successfully: %d", user.ID)
	utils.Created(c, "Registration successful", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a user and returns a JWT
func Login(c *gin.Context) {
	utils.LogInfo("Login called")

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid login request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.LogError("Login failed, user not found: %s", req.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.LogError("Login failed, wrong password for user %d", user.ID)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	if user.IsBlocked {
		utils.LogError("Blocked user attempted login: %d", user.ID)
		utils.Forbidden(c, utils.ErrUserBlocked)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		utils.LogError("Failed to sign token for user %d: %v", user.ID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	config.DB.Model(&user).Update("last_login_at", time.Now())

	utils.LogInfo("User %d logged in successfully", user.ID)
	utils.Success(c, "Login successful", gin.H{
		"token": signed,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"is_admin": user.IsAdmin,
		},
	})
}

// CreateSampleAdmin creates the initial admin account from environment
// variables when no admin exists yet
func CreateSampleAdmin() error {
	var count int64
	if err := config.DB.Model(&models.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return utils.WrapError(err, "failed to count admins")
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		utils.LogInfo("No admin present and ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping sample admin")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return utils.WrapError(err, "failed to hash admin password")
	}

	admin := models.User{
		Username: "admin",
		Email:    email,
		Password: string(hashed),
		IsAdmin:  true,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		return utils.WrapError(err, "failed to create sample admin")
	}
	utils.LogInfo("Sample admin created: %s", email)
	return nil
}
