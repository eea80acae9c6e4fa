package routes

import (
	"github.com/Arjun-407/voucherverse/controllers"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.Default()

	// Gateway webhook sits outside the API group: the gateway authenticates
	// with a signature, not a bearer token.
	router.POST("/webhook/payment", controllers.PaymentWebhook)

	api := router.Group("/v1")
	{
		initUserRoutes(api)
		initAdminRoutes(api)
	}

	return router
}
