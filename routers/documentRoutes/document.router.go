package documentRoutes

import (
	documentControllers "internhub/controllers/document"
	"internhub/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupDocumentRoutes(app *fiber.App) {
	documentGroup := app.Group("/documents")

	// Public verification lookup behind the QR code
	documentGroup.Get("/verify/:verificationId", documentControllers.VerifyDocument)

	documentGroup.Get("/application/:id", middleware.JWTMiddleware, documentControllers.GetDocuments)

	// Admin generation and visibility
	documentGroup.Post("/application/:id/generate/:kind", middleware.JWTMiddleware, middleware.AdminOnly, documentControllers.IssueDocument)
	documentGroup.Post("/application/:id/generate-all", middleware.JWTMiddleware, middleware.AdminOnly, documentControllers.GenerateAll)
	documentGroup.Patch("/application/:id/visibility/:kind", middleware.JWTMiddleware, middleware.AdminOnly, documentControllers.ToggleVisibility)
}
