package controllers

import (
	"github.com/Arjun-407/voucherverse/config"
	"github.com/Arjun-407/voucherverse/gateway"
	"github.com/Arjun-407/voucherverse/services"
)

var (
	appConfig    *config.Config
	inventorySvc *services.InventoryService
	orderSvc     *services.OrderService
	stockSvc     *services.StockService
	paymentSvc   *services.PaymentService
	payGateway   services.PaymentGateway
)

// InitServices wires the engine services onto the shared database connection
// and returns the reservation sweeper for the caller to start.
func InitServices(cfg *config.Config) *services.Sweeper {
	appConfig = cfg

	notifier := services.EmailNotifier{}
	inventorySvc = services.NewInventoryService(config.DB)
	orderSvc = services.NewOrderService(config.DB, inventorySvc)
	stockSvc = services.NewStockService(config.DB, inventorySvc)
	payGateway = gateway.NewRazorpayGateway(cfg.RazorpayKey, cfg.RazorpaySecret)
	paymentSvc = services.NewPaymentService(orderSvc,
		gateway.HMACVerifier{Secret: cfg.RazorpayWebhookSecret}, notifier)

	return services.NewSweeper(orderSvc, notifier, cfg.SweepInterval)
}
