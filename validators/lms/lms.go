package lmsValidator

import (
	"encoding/json"
	"strings"

	"internhub/middleware"
	"internhub/models/lms"

	"github.com/gofiber/fiber/v2"
)

// CreateProgram validates the new-program form.
func CreateProgram() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqData lms.Program
		if err := c.BodyParser(&reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if strings.TrimSpace(reqData.InternshipDomain) == "" {
			errors["internshipDomain"] = "Internship domain is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgram", reqData)
		return c.Next()
	}
}

// CreateActivity validates the new-activity form, including the quiz payload
// for quiz activities.
func CreateActivity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqData lms.Activity
		if err := c.BodyParser(&reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		switch reqData.Type {
		case lms.ActivityVideo, lms.ActivityPDF, lms.ActivityText,
			lms.ActivityExternalLink, lms.ActivityAssignment, lms.ActivityReflection:
			if strings.TrimSpace(reqData.Content) == "" {
				errors["content"] = "Content is required for this activity type!"
			}
		case lms.ActivityQuiz:
			var questions []lms.QuizQuestion
			if err := json.Unmarshal(reqData.QuizData, &questions); err != nil || len(questions) == 0 {
				errors["quizData"] = "A quiz needs at least one question!"
			} else {
				for _, q := range questions {
					if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.CorrectAnswer) == "" {
						errors["quizData"] = "Every question needs text and a correct answer!"
						break
					}
				}
			}
			if reqData.PassingScore < 0 || reqData.PassingScore > reqData.MaxMarks && reqData.MaxMarks > 0 {
				errors["passingScore"] = "Passing score cannot exceed max marks!"
			}
		default:
			errors["type"] = "Invalid activity type!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		// Activities count toward progress unless the form opts out.
		var flags struct {
			IsRequired *bool `json:"isRequired"`
		}
		if json.Unmarshal(c.Body(), &flags) == nil && flags.IsRequired == nil {
			reqData.IsRequired = true
		}

		c.Locals("validatedActivity", reqData)
		return c.Next()
	}
}
