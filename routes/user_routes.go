package routes

import (
	"github.com/Arjun-407/voucherverse/controllers"
	"github.com/Arjun-407/voucherverse/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all buyer-facing routes
func initUserRoutes(router *gin.RouterGroup) {
	// Public routes
	router.POST("/register", controllers.Register)
	router.POST("/login", controllers.Login)
	router.GET("/voucher-types", controllers.ListVoucherTypes)
	router.GET("/voucher-types/:id/stock", controllers.GetVoucherTypeStock)

	// Authenticated routes
	user := router.Group("")
	user.Use(middleware.AuthMiddleware())
	{
		user.POST("/orders", controllers.CreateOrder)
		user.GET("/orders", controllers.ListMyOrders)
		user.GET("/orders/:id", controllers.GetMyOrder)
		user.POST("/orders/:id/accept-terms", controllers.AcceptOrderTerms)
		user.POST("/orders/:id/confirm", controllers.ConfirmOrder)
		user.POST("/orders/:id/cancel", controllers.CancelOrder)
		user.GET("/orders/:id/invoice", controllers.DownloadInvoice)

		user.POST("/complaints", controllers.CreateComplaint)
	}
}
