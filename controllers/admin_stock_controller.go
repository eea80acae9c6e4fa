package controllers

import (
	"github.com/Arjun-407/voucherverse/utils"
	"github.com/gin-gonic/gin"
)

// POST /v1/admin/voucher-types
func CreateVoucherType(c *gin.Context) {
	utils.LogInfo("CreateVoucherType called")
	admin, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Name      string  `json:"name" binding:"required"`
		FaceValue float64 `json:"face_value" binding:"required,gt=0"`
		Price     float64 `json:"price" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid voucher type request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	vt, err := stockSvc.CreateType(admin.ID, req.Name, req.FaceValue, req.Price)
	if err != nil {
		utils.LogError("Failed to create voucher type: %v", err)
		respondServiceError(c, err)
		return
	}
	utils.LogInfo("Voucher type %d created by admin %d", vt.ID, admin.ID)

	utils.Created(c, "Voucher type created", gin.H{"voucher_type": vt})
}

// POST /v1/admin/voucher-types/:id/stock
//
// Accepts a batch of code strings. Duplicates are skipped individually, so a
// partially-new batch still lands.
func AddStock(c *gin.Context) {
	utils.LogInfo("AddStock called")
	admin, ok := currentUser(c)
	if !ok {
		return
	}
	typeID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Codes []string `json:"codes" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid add stock request: %v", err)
		utils.BadRequest(c, "codes is required and must not be empty", err.Error())
		return
	}

	added, err := stockSvc.AddCodes(admin.ID, typeID, req.Codes)
	if err != nil {
		utils.LogError("Failed to add stock to type %d: %v", typeID, err)
		respondServiceError(c, err)
		return
	}
	utils.LogInfo("Admin %d added %d codes to voucher type %d", admin.ID, added, typeID)

	utils.Success(c, "Stock added", gin.H{
		"added":   added,
		"skipped": len(req.Codes) - added,
	})
}

// DELETE /v1/admin/voucher-types/:id/stock
func RemoveStock(c *gin.Context) {
	utils.LogInfo("RemoveStock called")
	admin, ok := currentUser(c)
	if !ok {
		return
	}
	typeID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid remove stock request: %v", err)
		utils.BadRequest(c, "quantity is required and must be positive", err.Error())
		return
	}

	withdrawn, err := stockSvc.WithdrawCodes(admin.ID, typeID, req.Quantity)
	if err != nil {
		utils.LogError("Failed to withdraw stock from type %d: %v", typeID, err)
		respondServiceError(c, err)
		return
	}
	utils.LogInfo("Admin %d withdrew %d codes from voucher type %d", admin.ID, withdrawn, typeID)

	utils.Success(c, "Stock withdrawn", gin.H{"withdrawn": withdrawn})
}

// PATCH /v1/admin/voucher-types/:id/price
func ChangePrice(c *gin.Context) {
	utils.LogInfo("ChangePrice called")
	admin, ok := currentUser(c)
	if !ok {
		return
	}
	typeID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Price float64 `json:"price" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid price change request: %v", err)
		utils.BadRequest(c, "price is required and must be positive", err.Error())
		return
	}

	vt, err := stockSvc.ChangePrice(admin.ID, typeID, req.Price)
	if err != nil {
		utils.LogError("Failed to change price for type %d: %v", typeID, err)
		respondServiceError(c, err)
		return
	}
	utils.LogInfo("Admin %d changed price of voucher type %d to %.2f", admin.ID, typeID, req.Price)

	utils.Success(c, "Price updated. Existing orders keep their snapshotted price.", gin.H{"voucher_type": vt})
}

// PATCH /v1/admin/voucher-types/:id/active
func ToggleVoucherType(c *gin.Context) {
	utils.LogInfo("ToggleVoucherType called")
	admin, ok := currentUser(c)
	if !ok {
		return
	}
	typeID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "active is required", err.Error())
		return
	}

	vt, err := stockSvc.SetTypeActive(admin.ID, typeID, *req.Active)
	if err != nil {
		utils.LogError("Failed to toggle voucher type %d: %v", typeID, err)
		respondServiceError(c, err)
		return
	}
	utils.LogInfo("Admin %d set voucher type %d active=%t", admin.ID, typeID, vt.Active)

	utils.Success(c, "Voucher type updated", gin.H{"voucher_type": vt})
}

// POST /v1/admin/users/:id/promote
func PromoteAdmin(c *gin.Context) {
	utils.LogInfo("PromoteAdmin called")
	admin, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := stockSvc.PromoteAdmin(admin.ID, userID)
	if err != nil {
		utils.LogError("Failed to promote user %d: %v", userID, err)
		respondServiceError(c, err)
		return
	}
	utils.LogInfo("Admin %d promoted user %d to admin", admin.ID, user.ID)

	utils.Success(c, "User promoted to admin", gin.H{
		"id":       user.ID,
		"username": user.Username,
		"is_admin": user.IsAdmin,
	})
}
