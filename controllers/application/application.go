package applicationController

import (
	"errors"
	"log"
	"time"

	"internhub/database"
	"internhub/middleware"
	"internhub/models"
	"internhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubmitApplication creates a new internship application. A user can hold at
// most one active application per domain; the amount is derived from the
// duration when the client does not send one.
func SubmitApplication(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	reqData, ok := c.Locals("validatedApplication").(models.Application)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// One active application per user and domain
	var existing models.Application
	err := db.Where("user_id = ? AND preferred_domain = ? AND status IN ?",
		userID, reqData.PreferredDomain, models.ActiveStatuses).First(&existing).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You already have an active application for this domain!", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error checking for existing application: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit application!", nil)
	}

	if reqData.Amount == 0 {
		reqData.Amount = utils.DefaultAmountForDuration(reqData.Duration)
	}
	reqData.UserID = userID
	reqData.Status = models.StatusNew
	reqData.PaymentStatus = models.PaymentPending

	if err := db.Create(&reqData).Error; err != nil {
		log.Printf("Error saving application: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit application!", nil)
	}

	utils.SendApplicationReceivedEmail(reqData.Email, reqData.Name, reqData.PreferredDomain)
	utils.CreateNotification(userID, "Application Received",
		"Your application for "+reqData.PreferredDomain+" has been received.", "application")

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Application submitted successfully.", reqData)
}

// GetMyApplications lists the authenticated user's applications with their
// documents attached.
func GetMyApplications(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	db := database.Database.Db

	var applications []models.Application
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&applications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch applications!", nil)
	}

	type applicationWithDocs struct {
		models.Application
		Documents *models.Document `json:"documents"`
	}

	result := make([]applicationWithDocs, 0, len(applications))
	for _, app := range applications {
		entry := applicationWithDocs{Application: app}
		var doc models.Document
		if err := db.Where("application_id = ?", app.ID).First(&doc).Error; err == nil {
			entry.Documents = &doc
		}
		result = append(result, entry)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Applications fetched successfully.", result)
}

// GetApplications lists all applications for admins, filterable by status,
// domain and payment status.
func GetApplications(c *fiber.Ctx) error {
	db := database.Database.Db

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&models.Application{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if domain := c.Query("domain"); domain != "" {
		query = query.Where("preferred_domain = ?", domain)
	}
	if paymentStatus := c.Query("paymentStatus"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}

	var total int64
	query.Count(&total)

	var applications []models.Application
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&applications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch applications!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Applications fetched successfully.", fiber.Map{
		"applications": applications,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

// GetApplication returns one application. Admins can read any; users only
// their own.
func GetApplication(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(uint)
	role, _ := c.Locals("userRole").(string)

	applicationID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid application id!", nil)
	}

	db := database.Database.Db

	var application models.Application
	if err := db.First(&application, applicationID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Application not found!", nil)
	}

	if role != models.RoleAdmin && application.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Application fetched successfully.", application)
}

type statusUpdateRequest struct {
	Status            string     `json:"status"`
	PaymentStatus     string     `json:"paymentStatus"`
	StartDate         *time.Time `json:"startDate"`
	EndDate           *time.Time `json:"endDate"`
	DocumentIssueDate *time.Time `json:"documentIssueDate"`
}

// UpdateApplicationStatus is the admin review action. Moving an application
// to Approved or Selected auto-enrolls the applicant into the published
// program for their domain.
func UpdateApplicationStatus(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	applicationID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid application id!", nil)
	}

	var reqData statusUpdateRequest
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var application models.Application
	if err := db.First(&application, applicationID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Application not found!", nil)
	}

	updates := map[string]interface{}{}
	previousStatus := application.Status

	if reqData.Status != "" {
		switch reqData.Status {
		case models.StatusNew, models.StatusReviewed, models.StatusContacted,
			models.StatusSelected, models.StatusRejected, models.StatusApproved, models.StatusCompleted:
			updates["status"] = reqData.Status
		default:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid status value!", nil)
		}
	}
	if reqData.PaymentStatus != "" {
		switch reqData.PaymentStatus {
		case models.PaymentPending, models.PaymentProcessing, models.PaymentVerified, models.PaymentFailed:
			updates["payment_status"] = reqData.PaymentStatus
		default:
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid payment status value!", nil)
		}
	}
	if reqData.StartDate != nil {
		updates["start_date"] = reqData.StartDate
	}
	if reqData.EndDate != nil {
		updates["end_date"] = reqData.EndDate
	}
	if reqData.DocumentIssueDate != nil {
		updates["document_issue_date"] = reqData.DocumentIssueDate
	}

	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(&application).Updates(updates).Error; err != nil {
		log.Printf("Error updating application %d: %v", application.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update application!", nil)
	}

	if reqData.Status != "" && reqData.Status != previousStatus {
		utils.CreateNotification(application.UserID, "Application Status Updated",
			"Your application status is now "+reqData.Status+".", "application")
		utils.SendStatusUpdateEmail(application.Email, application.Name, reqData.Status)

		if reqData.Status == models.StatusApproved || reqData.Status == models.StatusSelected {
			if _, err := utils.AutoEnrollUser(db, application.UserID, application.PreferredDomain, application.ID); err != nil {
				log.Printf("Auto-enroll failed for application %d: %v", application.ID, err)
			}
		}
	}

	utils.RecordAudit(admin.ID, "UPDATE_STATUS", "application", application.ID, fiber.Map{
		"from":    previousStatus,
		"updates": updates,
	}, c.IP())

	db.First(&application, applicationID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Application updated successfully.", application)
}

// DeleteApplication permanently removes an application (admin only). The
// audit record keeps the trail.
func DeleteApplication(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	applicationID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid application id!", nil)
	}

	db := database.Database.Db

	var application models.Application
	if err := db.First(&application, applicationID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Application not found!", nil)
	}

	if err := db.Unscoped().Delete(&application).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete application!", nil)
	}

	utils.RecordAudit(admin.ID, "DELETE", "application", application.ID, fiber.Map{
		"name":   application.Name,
		"domain": application.PreferredDomain,
	}, c.IP())

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Application deleted successfully.", nil)
}
