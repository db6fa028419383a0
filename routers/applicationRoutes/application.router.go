package applicationRoutes

import (
	applicationControllers "internhub/controllers/application"
	"internhub/middleware"
	applicationValidators "internhub/validators/application"

	"github.com/gofiber/fiber/v2"
)

func SetupApplicationRoutes(app *fiber.App) {
	applicationGroup := app.Group("/applications")

	// Student routes
	applicationGroup.Post("/", middleware.JWTMiddleware, applicationValidators.Submit(), applicationControllers.SubmitApplication)
	applicationGroup.Get("/my", middleware.JWTMiddleware, applicationControllers.GetMyApplications)
	applicationGroup.Get("/:id", middleware.JWTMiddleware, applicationControllers.GetApplication)

	// Admin routes
	applicationGroup.Get("/", middleware.JWTMiddleware, middleware.AdminOnly, applicationControllers.GetApplications)
	applicationGroup.Patch("/:id/status", middleware.JWTMiddleware, middleware.AdminOnly, applicationControllers.UpdateApplicationStatus)
	applicationGroup.Delete("/:id", middleware.JWTMiddleware, middleware.AdminOnly, applicationControllers.DeleteApplication)
}
