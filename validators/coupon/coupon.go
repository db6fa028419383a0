package couponValidator

import (
	"strings"
	"time"

	"internhub/middleware"
	"internhub/models"

	"github.com/gofiber/fiber/v2"
)

// Create validates the new-coupon form.
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reqData models.Coupon
		if err := c.BodyParser(&reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		code := strings.TrimSpace(reqData.Code)
		if len(code) < 3 || len(code) > 30 {
			errors["code"] = "Code must be between 3 and 30 characters!"
		}

		switch reqData.DiscountType {
		case models.DiscountPercentage:
			if reqData.DiscountValue < 1 || reqData.DiscountValue > 100 {
				errors["discountValue"] = "Percentage must be between 1 and 100!"
			}
		case models.DiscountFlat:
			if reqData.DiscountValue < 1 {
				errors["discountValue"] = "Flat discount must be positive!"
			}
		default:
			errors["discountType"] = "Discount type must be percentage or flat!"
		}

		if reqData.MaxUses < 0 {
			errors["maxUses"] = "Max uses cannot be negative!"
		}
		if reqData.MaxUsesPerUser < 0 {
			errors["maxUsesPerUser"] = "Max uses per user cannot be negative!"
		}
		if reqData.ExpiryDate.IsZero() || reqData.ExpiryDate.Before(time.Now()) {
			errors["expiryDate"] = "Expiry date must be in the future!"
		}
		if len(reqData.ApplicableAmounts) == 0 {
			errors["applicableAmounts"] = "At least one applicable plan amount is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		if reqData.MaxUsesPerUser == 0 {
			reqData.MaxUsesPerUser = 1
		}

		c.Locals("validatedCoupon", reqData)
		return c.Next()
	}
}
