package taskValidator

import (
	"strings"

	"internhub/middleware"
	"internhub/models"

	"github.com/gofiber/fiber/v2"
)

// Create validates the new-task form.
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqData models.Task
		if err := c.BodyParser(&reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		}
		switch reqData.Type {
		case "MCQ", "File", "Link", "Text":
		default:
			errors["type"] = "Type must be MCQ, File, Link or Text!"
		}
		if strings.TrimSpace(reqData.InternshipDomain) == "" {
			errors["internshipDomain"] = "Internship domain is required!"
		}
		if reqData.MaxMarks < 0 {
			errors["maxMarks"] = "Max marks cannot be negative!"
		}
		if reqData.PassingMarks < 0 || (reqData.MaxMarks > 0 && reqData.PassingMarks > reqData.MaxMarks) {
			errors["passingMarks"] = "Passing marks cannot exceed max marks!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTask", reqData)
		return c.Next()
	}
}
