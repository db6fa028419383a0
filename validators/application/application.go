package applicationValidator

import (
	"internhub/middleware"
	"internhub/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

type submitRequest struct {
	Name            string `json:"name" validate:"required,min=3,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,len=10,numeric"`
	College         string `json:"college" validate:"required,min=2,max=200"`
	Course          string `json:"course" validate:"omitempty,max=100"`
	Year            string `json:"year" validate:"omitempty,max=20"`
	Skills          string `json:"skills" validate:"omitempty,max=500"`
	Experience      string `json:"experience" validate:"omitempty,max=1000"`
	PreferredDomain string `json:"preferredDomain" validate:"required,min=2,max=100"`
	Duration        int    `json:"duration" validate:"required,oneof=1 3 6"`
	Amount          int    `json:"amount" validate:"omitempty,gte=0"`
}

// fieldMessage turns a validator tag failure into a readable message.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required!"
	case "email":
		return "Invalid email!"
	case "len", "numeric":
		return "Must be a valid 10 digit phone number!"
	case "oneof":
		return "Duration must be 1, 3 or 6 months!"
	case "min":
		return "Too short!"
	case "max":
		return "Too long!"
	default:
		return "Invalid value!"
	}
}

// Submit validates the application form before it reaches the controller.
func Submit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqData submitRequest
		if err := c.BodyParser(&reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(&reqData); err != nil {
			errors := make(map[string]string)
			for _, fe := range err.(validator.ValidationErrors) {
				errors[fe.Field()] = fieldMessage(fe)
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		application := models.Application{
			Name:            reqData.Name,
			Email:           reqData.Email,
			Phone:           reqData.Phone,
			College:         reqData.College,
			Course:          reqData.Course,
			Year:            reqData.Year,
			Skills:          reqData.Skills,
			Experience:      reqData.Experience,
			PreferredDomain: reqData.PreferredDomain,
			Duration:        reqData.Duration,
			Amount:          reqData.Amount,
		}

		c.Locals("validatedApplication", application)
		return c.Next()
	}
}
