package routes

import (
	"github.com/Arjun-407/voucherverse/controllers"
	"github.com/Arjun-407/voucherverse/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		// Voucher type and stock management
		admin.POST("/voucher-types", controllers.CreateVoucherType)
		admin.POST("/voucher-types/:id/stock", controllers.AddStock)
		admin.DELETE("/voucher-types/:id/stock", controllers.RemoveStock)
		admin.PATCH("/voucher-types/:id/price", controllers.ChangePrice)
		admin.PATCH("/voucher-types/:id/active", controllers.ToggleVoucherType)

		// Orders and reporting
		admin.GET("/orders", controllers.AdminListOrders)
		admin.GET("/orders/export", controllers.ExportOrdersExcel)
		admin.GET("/logs", controllers.ListAdminLogs)

		// Complaints
		admin.GET("/complaints", controllers.AdminListComplaints)
		admin.PATCH("/complaints/:id", controllers.AdminUpdateComplaint)

		// User management
		admin.POST("/users/:id/promote", controllers.PromoteAdmin)
	}
}
