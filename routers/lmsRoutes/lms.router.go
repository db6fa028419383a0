package lmsRoutes

import (
	lmsControllers "internhub/controllers/lms"
	"internhub/middleware"
	lmsValidators "internhub/validators/lms"

	"github.com/gofiber/fiber/v2"
)

func SetupLmsRoutes(app *fiber.App) {
	// Student routes
	lmsGroup := app.Group("/lms", middleware.JWTMiddleware)
	lmsGroup.Get("/enrollments", lmsControllers.GetMyEnrollments)
	lmsGroup.Get("/programs/:id", lmsControllers.GetProgramDetails)
	lmsGroup.Get("/lessons/:id", lmsControllers.GetLessonContent)
	lmsGroup.Post("/progress", lmsControllers.UpdateActivityProgress)
	lmsGroup.Post("/quiz/submit", lmsControllers.SubmitQuiz)

	// Admin content management
	adminGroup := app.Group("/admin/lms", middleware.JWTMiddleware, middleware.AdminOnly)
	adminGroup.Post("/programs", lmsValidators.CreateProgram(), lmsControllers.CreateProgram)
	adminGroup.Get("/programs", lmsControllers.GetPrograms)
	adminGroup.Patch("/programs/:id", lmsControllers.UpdateProgram)
	adminGroup.Delete("/programs/:id", lmsControllers.DeleteProgram)

	adminGroup.Post("/programs/:programId/courses", lmsControllers.CreateCourse)
	adminGroup.Patch("/courses/:id", lmsControllers.UpdateCourse)
	adminGroup.Post("/courses/:courseId/modules", lmsControllers.CreateModule)
	adminGroup.Patch("/modules/:id", lmsControllers.UpdateModule)
	adminGroup.Post("/modules/:moduleId/lessons", lmsControllers.CreateLesson)
	adminGroup.Patch("/lessons/:id", lmsControllers.UpdateLesson)
	adminGroup.Post("/lessons/:lessonId/activities", lmsValidators.CreateActivity(), lmsControllers.CreateActivity)
	adminGroup.Patch("/activities/:id", lmsControllers.UpdateActivity)

	adminGroup.Get("/enrollments", lmsControllers.GetEnrollments)
	adminGroup.Patch("/progress/:id/approve", lmsControllers.ApproveActivityProgress)
	adminGroup.Post("/enrollments/:id/certificate", lmsControllers.IssueCertificate)
}
