package controllers

import (
	"fmt"

	"github.com/Arjun-407/voucherverse/config"
	"github.com/Arjun-407/voucherverse/models"
	"github.com/Arjun-407/voucherverse/utils"
	"github.com/gin-gonic/gin"
)

// ListVoucherTypes returns the active voucher denominations with their
// current stock counts
func ListVoucherTypes(c *gin.Context) {
	utils.LogInfo("ListVoucherTypes called")

	var types []models.VoucherType
	if err := config.DB.Where("active = ?", true).Order("face_value").Find(&types).Error; err != nil {
		utils.LogError("Failed to load voucher types: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, err.Error())
		return
	}

	out := make([]gin.H, 0, len(types))
	for _, vt := range types {
		count, err := inventorySvc.CountByStatus(vt.ID)
		if err != nil {
			utils.LogError("Failed to count stock for voucher type %d: %v", vt.ID, err)
			utils.InternalServerError(c, utils.ErrInternalServer, nil)
			return
		}
		out = append(out, gin.H{
			"id":            vt.ID,
			"name":          vt.Name,
			"face_value":    vt.FaceValue,
			"price":         vt.Price,
			"price_display": fmt.Sprintf("₹%.2f", vt.Price),
			"available":     count.Unused,
			"reserved":      count.Reserved,
		})
	}

	utils.Success(c, "Voucher types retrieved successfully", gin.H{"voucher_types": out})
}

// GetVoucherTypeStock returns the stock breakdown for one voucher type
func GetVoucherTypeStock(c *gin.Context) {
	utils.LogInfo("GetVoucherTypeStock called")

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var vt models.VoucherType
	if err := config.DB.First(&vt, id).Error; err != nil {
		utils.LogError("Voucher type not found: %d", id)
		utils.NotFound(c, "Voucher type not found")
		return
	}

	count, err := inventorySvc.CountByStatus(vt.ID)
	if err != nil {
		utils.LogError("Failed to count stock for voucher type %d: %v", vt.ID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	utils.Success(c, "Stock retrieved successfully", gin.H{
		"voucher_type": gin.H{"id": vt.ID, "name": vt.Name, "face_value": vt.FaceValue},
		"stock":        count,
	})
}
