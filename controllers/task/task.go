package taskController

import (
	"errors"
	"log"
	"math"
	"time"

	"internhub/database"
	"internhub/middleware"
	"internhub/models"
	"internhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateTask publishes an internship assignment to a domain (admin only).
func CreateTask(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	reqData, ok := c.Locals("validatedTask").(models.Task)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	reqData.CreatedByID = admin.ID
	if reqData.MaxMarks == 0 {
		reqData.MaxMarks = 100
	}
	if reqData.PassingMarks == 0 {
		reqData.PassingMarks = 40
	}

	if err := database.Database.Db.Create(&reqData).Error; err != nil {
		log.Printf("Error creating task: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create task!", nil)
	}

	utils.RecordAudit(admin.ID, "CREATE", "task", reqData.ID, fiber.Map{"title": reqData.Title}, c.IP())

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Task created successfully.", reqData)
}

// GetTasks lists tasks. Students see the tasks for their domain; admins can
// filter by any domain.
func GetTasks(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Model(&models.Task{})
	if domain := c.Query("domain"); domain != "" {
		query = query.Where("internship_domain = ?", domain)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tasks!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tasks fetched successfully.", tasks)
}

// UpdateTask edits an existing task (admin only).
func UpdateTask(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid task id!", nil)
	}

	db := database.Database.Db

	var task models.Task
	if err := db.First(&task, taskID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Task not found!", nil)
	}

	var reqData models.Task
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.Title != "" {
		updates["title"] = reqData.Title
	}
	if reqData.Description != "" {
		updates["description"] = reqData.Description
	}
	if reqData.MaxMarks > 0 {
		updates["max_marks"] = reqData.MaxMarks
	}
	if reqData.PassingMarks > 0 {
		updates["passing_marks"] = reqData.PassingMarks
	}
	if reqData.Deadline != nil {
		updates["deadline"] = reqData.Deadline
	}

	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(&task).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update task!", nil)
	}

	utils.RecordAudit(admin.ID, "UPDATE", "task", task.ID, updates, c.IP())

	db.First(&task, taskID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Task updated successfully.", task)
}

// DeleteTask removes a task and keeps existing submissions for the record.
func DeleteTask(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid task id!", nil)
	}

	db := database.Database.Db

	var task models.Task
	if err := db.First(&task, taskID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Task not found!", nil)
	}

	if err := db.Delete(&task).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete task!", nil)
	}

	utils.RecordAudit(admin.ID, "DELETE", "task", task.ID, fiber.Map{"title": task.Title}, c.IP())

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Task deleted successfully.", nil)
}

type submitTaskRequest struct {
	TaskID        uint   `json:"taskId"`
	ApplicationID uint   `json:"applicationId"`
	Content       string `json:"content"`
}

// SubmitTask records a student's answer. Re-submitting before evaluation
// replaces the content; after a Resubmission Required verdict it reopens the
// submission.
func SubmitTask(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	var reqData submitTaskRequest
	if err := c.BodyParser(&reqData); err != nil || reqData.TaskID == 0 || reqData.ApplicationID == 0 || reqData.Content == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Task id, application id and content are required!", nil)
	}

	db := database.Database.Db

	var task models.Task
	if err := db.First(&task, reqData.TaskID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Task not found!", nil)
	}
	if task.Deadline != nil && time.Now().After(*task.Deadline) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "The deadline for this task has passed!", nil)
	}

	var application models.Application
	if err := db.Where("id = ? AND user_id = ?", reqData.ApplicationID, userID).First(&application).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Application not found!", nil)
	}
	if application.PreferredDomain != task.InternshipDomain {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "This task is not for your internship domain!", nil)
	}

	var submission models.Submission
	err := db.Where("task_id = ? AND application_id = ?", reqData.TaskID, reqData.ApplicationID).First(&submission).Error
	if err == nil {
		if submission.Status == models.SubmissionApproved {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "This task is already approved!", nil)
		}
		if err := db.Model(&submission).Updates(map[string]interface{}{
			"content": reqData.Content,
			"status":  models.SubmissionSubmitted,
		}).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update submission!", nil)
		}
		db.First(&submission, submission.ID)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission updated successfully.", submission)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check submission!", nil)
	}

	submission = models.Submission{
		TaskID:        reqData.TaskID,
		StudentID:     userID,
		ApplicationID: reqData.ApplicationID,
		Content:       reqData.Content,
		Status:        models.SubmissionSubmitted,
	}
	if err := db.Create(&submission).Error; err != nil {
		log.Printf("Error saving submission: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit task!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Task submitted successfully.", submission)
}

// GetMySubmissions lists the student's submissions for one application.
func GetMySubmissions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	query := database.Database.Db.Where("student_id = ?", userID)
	if applicationID := c.QueryInt("applicationId", 0); applicationID > 0 {
		query = query.Where("application_id = ?", applicationID)
	}

	var submissions []models.Submission
	if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully.", submissions)
}

// GetSubmissions lists submissions for evaluation (admin only).
func GetSubmissions(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Model(&models.Submission{})
	if taskID := c.QueryInt("taskId", 0); taskID > 0 {
		query = query.Where("task_id = ?", taskID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var submissions []models.Submission
	if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully.", submissions)
}

type evaluateRequest struct {
	Status       string `json:"status"`
	Marks        int    `json:"marks"`
	AdminRemarks string `json:"adminRemarks"`
}

// EvaluateSubmission records the verdict and marks, then recomputes the
// application's internship progress.
func EvaluateSubmission(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	submissionID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid submission id!", nil)
	}

	var reqData evaluateRequest
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}
	switch reqData.Status {
	case models.SubmissionApproved, models.SubmissionRejected, models.SubmissionResubmission:
	default:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid evaluation status!", nil)
	}

	db := database.Database.Db

	var submission models.Submission
	if err := db.First(&submission, submissionID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
	}

	now := time.Now()
	if err := db.Model(&submission).Updates(map[string]interface{}{
		"status":          reqData.Status,
		"marks":           reqData.Marks,
		"admin_remarks":   reqData.AdminRemarks,
		"evaluated_by_id": admin.ID,
		"evaluated_at":    now,
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to evaluate submission!", nil)
	}

	if err := recomputeInternshipProgress(db, submission.ApplicationID, admin.ID); err != nil {
		log.Printf("Error recomputing internship progress for application %d: %v", submission.ApplicationID, err)
	}

	utils.RecordAudit(admin.ID, "EVALUATE_SUBMISSION", "submission", submission.ID, fiber.Map{
		"status": reqData.Status,
		"marks":  reqData.Marks,
	}, c.IP())
	utils.CreateNotification(submission.StudentID, "Task Evaluated",
		"Your task submission has been evaluated: "+reqData.Status+".", "task")

	db.First(&submission, submissionID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission evaluated successfully.", submission)
}

// recomputeInternshipProgress recounts approved submissions against the
// domain's task pool and stores the percentage. Eligibility is never derived
// here; an admin grants it explicitly.
func recomputeInternshipProgress(db *gorm.DB, applicationID, adminID uint) error {
	var application models.Application
	if err := db.First(&application, applicationID).Error; err != nil {
		return err
	}

	var totalTasks int64
	if err := db.Model(&models.Task{}).
		Where("internship_domain = ?", application.PreferredDomain).
		Count(&totalTasks).Error; err != nil {
		return err
	}

	var approved int64
	if err := db.Model(&models.Submission{}).
		Where("application_id = ? AND status = ?", applicationID, models.SubmissionApproved).
		Count(&approved).Error; err != nil {
		return err
	}

	percentage := 0
	if totalTasks > 0 {
		percentage = int(math.Round(float64(approved) / float64(totalTasks) * 100))
	}

	var progress models.ActivityProgress
	err := db.Where("application_id = ?", applicationID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&models.ActivityProgress{
			ApplicationID:       applicationID,
			UserID:              application.UserID,
			ProgressPercentage:  percentage,
			CompletedTasksCount: int(approved),
			LastUpdatedByID:     &adminID,
		}).Error
	}
	if err != nil {
		return err
	}

	return db.Model(&progress).Updates(map[string]interface{}{
		"progress_percentage":   percentage,
		"completed_tasks_count": approved,
		"last_updated_by_id":    adminID,
	}).Error
}

type eligibilityRequest struct {
	IsEligibleForCertificate bool `json:"isEligibleForCertificate"`
	AdminManuallyCompleted   bool `json:"adminManuallyCompleted"`
}

// UpdateEligibility is the explicit admin switch that gates the certificate
// document.
func UpdateEligibility(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	applicationID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid application id!", nil)
	}

	var reqData eligibilityRequest
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var application models.Application
	if err := db.First(&application, applicationID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Application not found!", nil)
	}

	var progress models.ActivityProgress
	err = db.Where("application_id = ?", applicationID).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.ActivityProgress{
			ApplicationID: application.ID,
			UserID:        application.UserID,
		}
		if err := db.Create(&progress).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create progress record!", nil)
		}
	} else if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress record!", nil)
	}

	if err := db.Model(&progress).Updates(map[string]interface{}{
		"is_eligible_for_certificate": reqData.IsEligibleForCertificate,
		"admin_manually_completed":    reqData.AdminManuallyCompleted,
		"last_updated_by_id":          admin.ID,
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update eligibility!", nil)
	}

	utils.RecordAudit(admin.ID, "UPDATE_ELIGIBILITY", "application", application.ID, reqData, c.IP())

	db.First(&progress, progress.ID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Eligibility updated successfully.", progress)
}

// GetProgress returns the internship progress for one application.
func GetProgress(c *fiber.Ctx) error {
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

	var progress models.ActivityProgress
	if err := db.Where("application_id = ?", applicationID).First(&progress).Error; err != nil {
		// No record yet means nothing evaluated; report zeros.
		progress = models.ActivityProgress{ApplicationID: application.ID, UserID: application.UserID}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully.", progress)
}
