package adminController

import (
	"internhub/database"
	"internhub/middleware"
	"internhub/models"
	"internhub/models/lms"
	"internhub/utils"

	"github.com/gofiber/fiber/v2"
)

// GetStats returns the admin dashboard counters.
func GetStats(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalApplications, pendingReview, selected, approved int64
	db.Model(&models.Application{}).Count(&totalApplications)
	db.Model(&models.Application{}).Where("status = ?", models.StatusNew).Count(&pendingReview)
	db.Model(&models.Application{}).Where("status = ?", models.StatusSelected).Count(&selected)
	db.Model(&models.Application{}).Where("status = ?", models.StatusApproved).Count(&approved)

	var verifiedPayments int64
	var revenue int64
	db.Model(&models.Payment{}).Where("status = ?", models.OrderCaptured).Count(&verifiedPayments)
	db.Model(&models.Payment{}).Where("status = ?", models.OrderCaptured).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenue)

	var totalUsers, activeEnrollments, certificatesIssued int64
	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
	db.Model(&lms.Enrollment{}).Where("status = ?", lms.EnrollmentActive).Count(&activeEnrollments)
	db.Model(&lms.Certificate{}).Where("status = ?", lms.CertificateIssued).Count(&certificatesIssued)

	// Applications per domain for the breakdown chart
	type domainCount struct {
		Domain string `json:"domain"`
		Count  int64  `json:"count"`
	}
	var byDomain []domainCount
	db.Model(&models.Application{}).
		Select("preferred_domain AS domain, COUNT(*) AS count").
		Group("preferred_domain").Scan(&byDomain)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched successfully.", fiber.Map{
		"applications": fiber.Map{
			"total":    totalApplications,
			"new":      pendingReview,
			"selected": selected,
			"approved": approved,
			"byDomain": byDomain,
		},
		"payments": fiber.Map{
			"verified": verifiedPayments,
			"revenue":  revenue,
		},
		"users":              totalUsers,
		"activeEnrollments":  activeEnrollments,
		"certificatesIssued": certificatesIssued,
	})
}

// GetUsers lists users for admins with pagination.
func GetUsers(c *fiber.Ctx) error {
	db := database.Database.Db

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&models.User{}).Where("is_deleted = ?", false)
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully.", fiber.Map{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// DeleteUser soft-deletes a user via the IsDeleted flag.
func DeleteUser(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	userID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}
	if uint(userID) == admin.ID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot delete your own account!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := db.Model(&user).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
	}

	utils.RecordAudit(admin.ID, "DELETE", "user", user.ID, fiber.Map{"email": user.Email}, c.IP())

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully.", nil)
}

// GetAuditLogs lists admin actions, newest first.
func GetAuditLogs(c *fiber.Ctx) error {
	db := database.Database.Db

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	query := db.Model(&models.AuditLog{})
	if actionType := c.Query("actionType"); actionType != "" {
		query = query.Where("action_type = ?", actionType)
	}
	if targetType := c.Query("targetType"); targetType != "" {
		query = query.Where("target_type = ?", targetType)
	}

	var total int64
	query.Count(&total)

	var logs []models.AuditLog
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&logs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch audit logs!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Audit logs fetched successfully.", fiber.Map{
		"logs":  logs,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
