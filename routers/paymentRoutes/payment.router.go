package paymentRoutes

import (
	paymentControllers "internhub/controllers/payment"
	"internhub/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/payments")

	// Webhook is authenticated by its signature, not a JWT
	paymentGroup.Post("/webhook", paymentControllers.GatewayWebhook)

	paymentGroup.Post("/coupon/validate", middleware.JWTMiddleware, paymentControllers.ValidateCouponForApplication)
	paymentGroup.Post("/order", middleware.JWTMiddleware, paymentControllers.CreateOrder)
	paymentGroup.Post("/verify", middleware.JWTMiddleware, paymentControllers.VerifyPayment)
	paymentGroup.Get("/history", middleware.JWTMiddleware, paymentControllers.GetPaymentHistory)
}
