package taskRoutes

import (
	taskControllers "internhub/controllers/task"
	"internhub/middleware"
	taskValidators "internhub/validators/task"

	"github.com/gofiber/fiber/v2"
)

func SetupTaskRoutes(app *fiber.App) {
	taskGroup := app.Group("/tasks", middleware.JWTMiddleware)

	// Student routes
	taskGroup.Get("/", taskControllers.GetTasks)
	taskGroup.Post("/submit", taskControllers.SubmitTask)
	taskGroup.Get("/submissions/my", taskControllers.GetMySubmissions)
	taskGroup.Get("/progress/:id", taskControllers.GetProgress)

	// Admin routes
	taskGroup.Post("/", middleware.AdminOnly, taskValidators.Create(), taskControllers.CreateTask)
	taskGroup.Patch("/:id", middleware.AdminOnly, taskControllers.UpdateTask)
	taskGroup.Delete("/:id", middleware.AdminOnly, taskControllers.DeleteTask)
	taskGroup.Get("/submissions", middleware.AdminOnly, taskControllers.GetSubmissions)
	taskGroup.Patch("/submissions/:id/evaluate", middleware.AdminOnly, taskControllers.EvaluateSubmission)
	taskGroup.Patch("/eligibility/:id", middleware.AdminOnly, taskControllers.UpdateEligibility)
}
