package controllers

import (
	"github.com/Arjun-407/voucherverse/config"
	"github.com/Arjun-407/voucherverse/models"
	"github.com/Arjun-407/voucherverse/utils"
	"github.com/gin-gonic/gin"
)

// POST /v1/complaints
func CreateComplaint(c *gin.Context) {
	utils.LogInfo("CreateComplaint called")
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required,min=5"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid complaint from user %d: %v", user.ID, err)
		utils.BadRequest(c, "Please describe your issue clearly", err.Error())
		return
	}

	complaint := models.Complaint{
		UserID: user.ID,
		Text:   req.Text,
		Status: models.ComplaintStatusOpen,
	}
	if err := config.DB.Create(&complaint).Error; err != nil {
		utils.LogError("Failed to create complaint for user %d: %v", user.ID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}
	utils.LogInfo("Complaint %d recorded for user %d", complaint.ID, user.ID)

	utils.Created(c, "Your complaint has been recorded", gin.H{
		"ticket_id": complaint.ID,
		"status":    complaint.Status,
	})
}

// GET /v1/admin/complaints
func AdminListComplaints(c *gin.Context) {
	utils.LogInfo("AdminListComplaints called")

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Complaint{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)
	pagination.SetTotal(total)

	var complaints []models.Complaint
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&complaints).Error; err != nil {
		utils.LogError("Failed to list complaints: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}

	out := make([]gin.H, 0, len(complaints))
	for _, comp := range complaints {
		out = append(out, gin.H{
			"id":         comp.ID,
			"user":       gin.H{"id": comp.UserID, "username": comp.User.Username},
			"text":       comp.Text,
			"status":     comp.Status,
			"created_at": comp.CreatedAt,
		})
	}
	utils.SendPaginatedResponse(c, out, pagination)
}

// PATCH /v1/admin/complaints/:id
func AdminUpdateComplaint(c *gin.Context) {
	utils.LogInfo("AdminUpdateComplaint called")

	complaintID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "status is required", err.Error())
		return
	}

	switch req.Status {
	case models.ComplaintStatusOpen, models.ComplaintStatusInProgress, models.ComplaintStatusClosed:
	default:
		utils.LogError("Invalid complaint status: %s", req.Status)
		utils.BadRequest(c, "Invalid status", nil)
		return
	}

	var complaint models.Complaint
	if err := config.DB.First(&complaint, complaintID).Error; err != nil {
		utils.NotFound(c, "Complaint not found")
		return
	}

	if err := config.DB.Model(&complaint).Update("status", req.Status).Error; err != nil {
		utils.LogError("Failed to update complaint %d: %v", complaintID, err)
		utils.InternalServerError(c, utils.ErrInternalServer, nil)
		return
	}
	utils.LogInfo("Complaint %d moved to %s", complaintID, req.Status)

	utils.Success(c, "Complaint updated", gin.H{"id": complaint.ID, "status": req.Status})
}
