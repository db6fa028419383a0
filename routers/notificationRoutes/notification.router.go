package notificationRoutes

import (
	notificationControllers "internhub/controllers/notification"
	"internhub/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/notifications", middleware.JWTMiddleware)

	notificationGroup.Get("/", notificationControllers.GetNotifications)
	notificationGroup.Patch("/read-all", notificationControllers.MarkAllRead)
	notificationGroup.Patch("/:id/read", notificationControllers.MarkRead)
	notificationGroup.Delete("/clear", notificationControllers.ClearNotifications)
}
