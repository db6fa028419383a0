package adminRoutes

import (
	adminControllers "internhub/controllers/admin"
	couponControllers "internhub/controllers/coupon"
	"internhub/middleware"
	couponValidators "internhub/validators/coupon"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.AdminOnly)

	adminGroup.Get("/stats", adminControllers.GetStats)
	adminGroup.Get("/users", adminControllers.GetUsers)
	adminGroup.Delete("/users/:id", adminControllers.DeleteUser)
	adminGroup.Get("/audit-logs", adminControllers.GetAuditLogs)

	couponGroup := adminGroup.Group("/coupons")
	couponGroup.Post("/", couponValidators.Create(), couponControllers.CreateCoupon)
	couponGroup.Get("/", couponControllers.GetCoupons)
	couponGroup.Patch("/:id", couponControllers.UpdateCoupon)
	couponGroup.Delete("/:id", couponControllers.DeleteCoupon)
	couponGroup.Get("/:id/usage", couponControllers.GetCouponUsage)
}
