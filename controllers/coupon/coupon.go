package couponController

import (
	"log"
	"strings"

	"internhub/database"
	"internhub/middleware"
	"internhub/models"
	"internhub/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateCoupon adds a new discount code (admin only).
func CreateCoupon(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	reqData, ok := c.Locals("validatedCoupon").(models.Coupon)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	reqData.Code = strings.ToUpper(strings.TrimSpace(reqData.Code))
	reqData.CreatedByID = admin.ID
	if reqData.Status == "" {
		reqData.Status = models.CouponActive
	}

	if err := db.Where("code = ?", reqData.Code).First(&models.Coupon{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Coupon code already exists!", nil)
	}

	if err := db.Create(&reqData).Error; err != nil {
		log.Printf("Error creating coupon: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create coupon!", nil)
	}

	utils.RecordAudit(admin.ID, "CREATE", "coupon", reqData.ID, fiber.Map{"code": reqData.Code}, c.IP())

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Coupon created successfully.", reqData)
}

// GetCoupons lists all coupons (admin only).
func GetCoupons(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Model(&models.Coupon{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var coupons []models.Coupon
	if err := query.Order("created_at DESC").Find(&coupons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch coupons!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupons fetched successfully.", coupons)
}

// UpdateCoupon edits mutable coupon fields. The code and the usage counter
// stay untouched so the redemption ledger keeps its meaning.
func UpdateCoupon(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	couponID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid coupon id!", nil)
	}

	db := database.Database.Db

	var coupon models.Coupon
	if err := db.First(&coupon, couponID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Coupon not found!", nil)
	}

	var reqData models.Coupon
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.DiscountType != "" {
		if reqData.DiscountType != models.DiscountPercentage && reqData.DiscountType != models.DiscountFlat {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid discount type!", nil)
		}
		updates["discount_type"] = reqData.DiscountType
	}
	if reqData.DiscountValue > 0 {
		updates["discount_value"] = reqData.DiscountValue
	}
	if reqData.MaxUses >= 0 && reqData.MaxUses != coupon.MaxUses {
		updates["max_uses"] = reqData.MaxUses
	}
	if reqData.MaxUsesPerUser > 0 {
		updates["max_uses_per_user"] = reqData.MaxUsesPerUser
	}
	if !reqData.ExpiryDate.IsZero() {
		updates["expiry_date"] = reqData.ExpiryDate
	}
	if reqData.Status == models.CouponActive || reqData.Status == models.CouponInactive {
		updates["status"] = reqData.Status
	}
	if len(reqData.ApplicableAmounts) > 0 {
		updates["applicable_amounts"] = reqData.ApplicableAmounts
	}

	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(&coupon).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update coupon!", nil)
	}

	utils.RecordAudit(admin.ID, "UPDATE", "coupon", coupon.ID, updates, c.IP())

	db.First(&coupon, couponID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon updated successfully.", coupon)
}

// DeleteCoupon soft-deletes a coupon. Existing usage rows are kept.
func DeleteCoupon(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	couponID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid coupon id!", nil)
	}

	db := database.Database.Db

	var coupon models.Coupon
	if err := db.First(&coupon, couponID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Coupon not found!", nil)
	}

	if err := db.Delete(&coupon).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete coupon!", nil)
	}

	utils.RecordAudit(admin.ID, "DELETE", "coupon", coupon.ID, fiber.Map{"code": coupon.Code}, c.IP())

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon deleted successfully.", nil)
}

// GetCouponUsage lists the redemption ledger for one coupon (admin only).
func GetCouponUsage(c *fiber.Ctx) error {
	couponID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid coupon id!", nil)
	}

	db := database.Database.Db

	var coupon models.Coupon
	if err := db.First(&coupon, couponID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Coupon not found!", nil)
	}

	var usages []models.CouponUsage
	if err := db.Where("coupon_id = ?", couponID).Order("created_at DESC").Find(&usages).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch coupon usage!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Coupon usage fetched successfully.", fiber.Map{
		"coupon": coupon,
		"usages": usages,
	})
}
