package lmsController

import (
	"errors"
	"fmt"
	"log"
	"time"

	"internhub/database"
	"internhub/middleware"
	"internhub/models"
	"internhub/models/lms"
	"internhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateProgram adds a new LMS program (admin only). Programs start
// unpublished so content can be built before students see it.
func CreateProgram(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	reqData, ok := c.Locals("validatedProgram").(lms.Program)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	reqData.CreatedByID = admin.ID

	db := database.Database.Db

	// One published program per domain at most; enforced at publish time, but
	// warn early when a published one already exists.
	if reqData.IsPublished {
		var existing lms.Program
		if err := db.Where("internship_domain = ? AND is_published = ?", reqData.InternshipDomain, true).
			First(&existing).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A published program already exists for this domain!", nil)
		}
	}

	if err := db.Create(&reqData).Error; err != nil {
		log.Printf("Error creating program: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create program!", nil)
	}

	utils.RecordAudit(admin.ID, "CREATE", "program", reqData.ID, fiber.Map{"title": reqData.Title}, c.IP())

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Program created successfully.", reqData)
}

// GetPrograms lists all programs for admins.
func GetPrograms(c *fiber.Ctx) error {
	var programs []lms.Program
	if err := database.Database.Db.Order("created_at DESC").Find(&programs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch programs!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Programs fetched successfully.", programs)
}

// UpdateProgram edits program fields, including the publish flag.
func UpdateProgram(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	programID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid program id!", nil)
	}

	db := database.Database.Db

	var program lms.Program
	if err := db.First(&program, programID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
	}

	var reqData struct {
		Title            string `json:"title"`
		Description      string `json:"description"`
		Thumbnail        string `json:"thumbnail"`
		Duration         string `json:"duration"`
		InternshipDomain string `json:"internshipDomain"`
		IsPublished      *bool  `json:"isPublished"`
	}
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
	if reqData.Thumbnail != "" {
		updates["thumbnail"] = reqData.Thumbnail
	}
	if reqData.Duration != "" {
		updates["duration"] = reqData.Duration
	}
	if reqData.InternshipDomain != "" {
		updates["internship_domain"] = reqData.InternshipDomain
	}
	if reqData.IsPublished != nil {
		if *reqData.IsPublished {
			domain := program.InternshipDomain
			if reqData.InternshipDomain != "" {
				domain = reqData.InternshipDomain
			}
			var existing lms.Program
			if err := db.Where("internship_domain = ? AND is_published = ? AND id <> ?", domain, true, program.ID).
				First(&existing).Error; err == nil {
				return middleware.JsonResponse(c, fiber.StatusConflict, false, "A published program already exists for this domain!", nil)
			}
		}
		updates["is_published"] = *reqData.IsPublished
	}

	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(&program).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update program!", nil)
	}

	utils.RecordAudit(admin.ID, "UPDATE", "program", program.ID, updates, c.IP())

	db.First(&program, programID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program updated successfully.", program)
}

// DeleteProgram removes a program and its whole content tree, enrollments
// included.
func DeleteProgram(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	programID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid program id!", nil)
	}

	db := database.Database.Db

	var program lms.Program
	if err := db.First(&program, programID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
	}

	if err := utils.DeleteProgramCascade(db, program.ID); err != nil {
		log.Printf("Error cascading program delete %d: %v", program.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete program!", nil)
	}

	utils.RecordAudit(admin.ID, "DELETE", "program", program.ID, fiber.Map{"title": program.Title}, c.IP())

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program deleted successfully.", nil)
}

// CreateCourse adds a course under a program. New courses start unpublished
// unless the form says otherwise.
func CreateCourse(c *fiber.Ctx) error {
	programID, err := c.ParamsInt("programId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid program id!", nil)
	}

	db := database.Database.Db

	if err := db.First(&lms.Program{}, programID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
	}

	var reqData lms.Course
	if err := c.BodyParser(&reqData); err != nil || reqData.Title == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course title is required!", nil)
	}

	reqData.ProgramID = uint(programID)
	if err := db.Create(&reqData).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", reqData)
}

// CreateModule adds a module under a course.
func CreateModule(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("courseId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}

	db := database.Database.Db

	if err := db.First(&lms.Course{}, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var reqData lms.Module
	if err := c.BodyParser(&reqData); err != nil || reqData.Title == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Module title is required!", nil)
	}

	reqData.CourseID = uint(courseID)
	if err := db.Create(&reqData).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully.", reqData)
}

// CreateLesson adds a lesson under a module. Lessons start unpublished.
func CreateLesson(c *fiber.Ctx) error {
	moduleID, err := c.ParamsInt("moduleId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module id!", nil)
	}

	db := database.Database.Db

	if err := db.First(&lms.Module{}, moduleID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var reqData lms.Lesson
	if err := c.BodyParser(&reqData); err != nil || reqData.Title == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson title is required!", nil)
	}

	reqData.ModuleID = uint(moduleID)
	if err := db.Create(&reqData).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully.", reqData)
}

// CreateActivity adds an activity under a lesson.
func CreateActivity(c *fiber.Ctx) error {
	lessonID, err := c.ParamsInt("lessonId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson id!", nil)
	}

	db := database.Database.Db

	if err := db.First(&lms.Lesson{}, lessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	reqData, ok := c.Locals("validatedActivity").(lms.Activity)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	reqData.LessonID = uint(lessonID)
	if err := db.Create(&reqData).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create activity!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Activity created successfully.", reqData)
}

// updatePublishable handles the shared edit shape of courses, modules,
// lessons and activities.
func updatePublishable(c *fiber.Ctx, record interface{}, id int) error {
	db := database.Database.Db

	if err := db.First(record, id).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Record not found!", nil)
	}

	var reqData struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		OrderIndex  *int   `json:"orderIndex"`
		IsPublished *bool  `json:"isPublished"`
		IsRequired  *bool  `json:"isRequired"`
	}
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
	if reqData.Content != "" {
		updates["content"] = reqData.Content
	}
	if reqData.OrderIndex != nil {
		updates["order_index"] = *reqData.OrderIndex
	}
	if reqData.IsPublished != nil {
		updates["is_published"] = *reqData.IsPublished
	}
	if reqData.IsRequired != nil {
		updates["is_required"] = *reqData.IsRequired
	}

	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(record).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update record!", nil)
	}

	db.First(record, id)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Updated successfully.", record)
}

func UpdateCourse(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
	}
	return updatePublishable(c, &lms.Course{}, id)
}

func UpdateModule(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module id!", nil)
	}
	return updatePublishable(c, &lms.Module{}, id)
}

func UpdateLesson(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson id!", nil)
	}
	return updatePublishable(c, &lms.Lesson{}, id)
}

func UpdateActivity(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid activity id!", nil)
	}
	return updatePublishable(c, &lms.Activity{}, id)
}

// GetEnrollments lists enrollments for admins, filterable by program.
func GetEnrollments(c *fiber.Ctx) error {
	db := database.Database.Db

	query := db.Model(&lms.Enrollment{})
	if programID := c.QueryInt("programId", 0); programID > 0 {
		query = query.Where("program_id = ?", programID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var enrollments []lms.Enrollment
	if err := query.Order("created_at DESC").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully.", enrollments)
}

type approveProgressRequest struct {
	Approved bool   `json:"approved"`
	Marks    int    `json:"marks"`
	Remarks  string `json:"remarks"`
}

// ApproveActivityProgress is the admin verdict on a submitted activity.
// Approval completes the activity and recomputes enrollment progress;
// rejection sends it back to the student.
func ApproveActivityProgress(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	progressID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid progress id!", nil)
	}

	var reqData approveProgressRequest
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var progress lms.ActivityProgress
	if err := db.First(&progress, progressID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Activity progress not found!", nil)
	}

	now := time.Now()
	status := lms.ProgressRejected
	if reqData.Approved {
		status = lms.ProgressCompleted
	}

	if err := db.Model(&progress).Updates(map[string]interface{}{
		"status":         status,
		"is_approved":    reqData.Approved,
		"marks":          reqData.Marks,
		"remarks":        reqData.Remarks,
		"approved_by_id": admin.ID,
		"approved_at":    now,
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update activity progress!", nil)
	}

	percentage, err := utils.UpdateEnrollmentProgress(db, progress.EnrollmentID)
	if err != nil {
		log.Printf("Error updating enrollment progress %d: %v", progress.EnrollmentID, err)
	}

	utils.RecordAudit(admin.ID, "APPROVE_ACTIVITY", "activityProgress", progress.ID, fiber.Map{
		"approved": reqData.Approved,
		"marks":    reqData.Marks,
	}, c.IP())
	utils.CreateNotification(progress.UserID, "Activity Reviewed",
		"Your activity submission has been reviewed.", "lms")

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity progress updated successfully.", fiber.Map{
		"status":   status,
		"progress": percentage,
	})
}

// IssueCertificate issues the LMS completion certificate for an enrollment.
// Requires 100% progress and is a one-time action per enrollment.
func IssueCertificate(c *fiber.Ctx) error {
	admin, _ := c.Locals("adminUser").(models.User)

	enrollmentID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment id!", nil)
	}

	db := database.Database.Db

	var enrollment lms.Enrollment
	if err := db.First(&enrollment, enrollmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.Progress < 100 {
		return middleware.JsonResponse(c, fiber.StatusPreconditionFailed, false,
			fmt.Sprintf("Program is only %d%% complete!", enrollment.Progress), nil)
	}

	var existing lms.Certificate
	err = db.Where("enrollment_id = ?", enrollment.ID).First(&existing).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Certificate already issued for this enrollment!", existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check certificates!", nil)
	}

	certificateID := "IH-" + uuid.NewString()[:8]
	certificate := lms.Certificate{
		EnrollmentID:    enrollment.ID,
		UserID:          enrollment.UserID,
		ProgramID:       enrollment.ProgramID,
		CertificateID:   certificateID,
		IssueDate:       time.Now(),
		Status:          lms.CertificateIssued,
		ApprovedByID:    admin.ID,
		VerificationURL: utils.VerificationURL(certificateID),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&certificate).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&enrollment).Updates(map[string]interface{}{
			"status":                lms.EnrollmentCompleted,
			"completed_at":          now,
			"is_certificate_issued": true,
		}).Error
	})
	if err != nil {
		log.Printf("Error issuing certificate for enrollment %d: %v", enrollment.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to issue certificate!", nil)
	}

	utils.RecordAudit(admin.ID, "ISSUE_CERTIFICATE", "enrollment", enrollment.ID, fiber.Map{
		"certificateId": certificateID,
	}, c.IP())
	utils.CreateNotification(enrollment.UserID, "Certificate Issued",
		"Congratulations! Your program completion certificate has been issued.", "certificate")

	var user models.User
	if err := db.First(&user, enrollment.UserID).Error; err == nil {
		utils.SendCertificateIssuedEmail(user.Email, user.Name, certificate.VerificationURL)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Certificate issued successfully.", certificate)
}
