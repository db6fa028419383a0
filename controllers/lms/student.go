package lmsController

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"internhub/database"
	"internhub/middleware"
	"internhub/models/lms"
	"internhub/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetMyEnrollments lists the student's enrollments with program details.
func GetMyEnrollments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	var enrollments []lms.Enrollment
	if err := database.Database.Db.Where("user_id = ?", userID).
		Preload("Program").Order("created_at DESC").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully.", enrollments)
}

// enrollmentFor loads the enrollment joining the student to a program,
// refusing access when there is none.
func enrollmentFor(db *gorm.DB, userID uint, programID int) (*lms.Enrollment, error) {
	var enrollment lms.Enrollment
	err := db.Where("user_id = ? AND program_id = ?", userID, programID).First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// GetProgramDetails returns the published content tree of a program the
// student is enrolled in: courses with their modules and lesson summaries.
func GetProgramDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	programID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid program id!", nil)
	}

	db := database.Database.Db

	enrollment, err := enrollmentFor(db, userID, programID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this program!", nil)
	}

	var program lms.Program
	if err := db.Where("id = ? AND is_published = ?", programID, true).First(&program).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Program not found!", nil)
	}

	var courses []lms.Course
	if err := db.Where("program_id = ? AND is_published = ?", programID, true).
		Order("order_index ASC").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch program content!", nil)
	}

	type moduleView struct {
		lms.Module
		Lessons []lms.Lesson `json:"lessons"`
	}
	type courseView struct {
		lms.Course
		Modules []moduleView `json:"modules"`
	}

	tree := make([]courseView, 0, len(courses))
	for _, course := range courses {
		cv := courseView{Course: course}

		var modules []lms.Module
		db.Where("course_id = ? AND is_published = ?", course.ID, true).
			Order("order_index ASC").Find(&modules)

		for _, module := range modules {
			mv := moduleView{Module: module}
			db.Where("module_id = ? AND is_published = ?", module.ID, true).
				Order("order_index ASC").Find(&mv.Lessons)
			cv.Modules = append(cv.Modules, mv)
		}
		tree = append(tree, cv)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Program fetched successfully.", fiber.Map{
		"program":    program,
		"courses":    tree,
		"enrollment": enrollment,
	})
}

// GetLessonContent returns a lesson's published activities together with the
// student's progress on each. Quiz answers are stripped before sending.
func GetLessonContent(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	lessonID, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson id!", nil)
	}

	db := database.Database.Db

	var lesson lms.Lesson
	if err := db.Where("id = ? AND is_published = ?", lessonID, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	enrollment, err := enrollmentForLesson(db, userID, &lesson)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this program!", nil)
	}

	var activities []lms.Activity
	if err := db.Where("lesson_id = ? AND is_published = ?", lessonID, true).
		Order("order_index ASC").Find(&activities).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch activities!", nil)
	}

	type activityView struct {
		lms.Activity
		Progress *lms.ActivityProgress `json:"progress"`
	}

	result := make([]activityView, 0, len(activities))
	for _, activity := range activities {
		if activity.Type == lms.ActivityQuiz {
			activity.QuizData = stripQuizAnswers(activity.QuizData)
		}
		av := activityView{Activity: activity}
		var progress lms.ActivityProgress
		if err := db.Where("enrollment_id = ? AND activity_id = ?", enrollment.ID, activity.ID).
			First(&progress).Error; err == nil {
			av.Progress = &progress
		}
		result = append(result, av)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson content fetched successfully.", fiber.Map{
		"lesson":     lesson,
		"activities": result,
	})
}

// enrollmentForLesson climbs the content tree to the program to find the
// student's enrollment.
func enrollmentForLesson(db *gorm.DB, userID uint, lesson *lms.Lesson) (*lms.Enrollment, error) {
	var module lms.Module
	if err := db.First(&module, lesson.ModuleID).Error; err != nil {
		return nil, err
	}
	var course lms.Course
	if err := db.First(&course, module.CourseID).Error; err != nil {
		return nil, err
	}
	return enrollmentFor(db, userID, int(course.ProgramID))
}

// stripQuizAnswers removes correct answers and explanations from the quiz
// payload before it goes to the student.
func stripQuizAnswers(raw []byte) []byte {
	var questions []lms.QuizQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return raw
	}
	for i := range questions {
		questions[i].CorrectAnswer = ""
		questions[i].Explanation = ""
	}
	stripped, err := json.Marshal(questions)
	if err != nil {
		return raw
	}
	return stripped
}

type updateProgressRequest struct {
	ActivityID        uint   `json:"activityId"`
	WatchTime         int    `json:"watchTime"`
	PercentageWatched int    `json:"percentageWatched"`
	SubmissionContent string `json:"submissionContent"`
	MarkDone          bool   `json:"markDone"`
}

// UpdateActivityProgress records the student's work on one activity. Passive
// kinds complete directly; assignments and reflections go to pending
// approval for an admin verdict.
func UpdateActivityProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	var reqData updateProgressRequest
	if err := c.BodyParser(&reqData); err != nil || reqData.ActivityID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Activity id is required!", nil)
	}

	db := database.Database.Db

	var activity lms.Activity
	if err := db.Where("id = ? AND is_published = ?", reqData.ActivityID, true).First(&activity).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Activity not found!", nil)
	}
	if activity.Type == lms.ActivityQuiz {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quizzes are submitted through the quiz endpoint!", nil)
	}

	var lesson lms.Lesson
	if err := db.First(&lesson, activity.LessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}
	enrollment, err := enrollmentForLesson(db, userID, &lesson)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this program!", nil)
	}

	progress, err := getOrCreateProgress(db, enrollment.ID, activity.ID, userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load progress record!", nil)
	}
	if progress.Status == lms.ProgressCompleted {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity already completed.", progress)
	}

	updates := map[string]interface{}{}
	if reqData.WatchTime > progress.WatchTime {
		updates["watch_time"] = reqData.WatchTime
	}
	if reqData.PercentageWatched > progress.PercentageWatched {
		updates["percentage_watched"] = reqData.PercentageWatched
	}
	if reqData.SubmissionContent != "" {
		updates["submission_content"] = reqData.SubmissionContent
	}

	completed := false
	switch activity.Type {
	case lms.ActivityAssignment, lms.ActivityReflection:
		if strings.TrimSpace(reqData.SubmissionContent) != "" {
			updates["status"] = lms.ProgressPendingApproval
		}
	default:
		// Video, PDF, Text, ExternalLink complete on the student's say-so.
		if reqData.MarkDone {
			updates["status"] = lms.ProgressCompleted
			completed = true
		}
	}

	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(progress).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
	}

	percentage := enrollment.Progress
	if completed {
		if percentage, err = utils.UpdateEnrollmentProgress(db, enrollment.ID); err != nil {
			log.Printf("Error updating enrollment progress %d: %v", enrollment.ID, err)
		}
	}

	db.First(progress, progress.ID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully.", fiber.Map{
		"activityProgress": progress,
		"programProgress":  percentage,
	})
}

func getOrCreateProgress(db *gorm.DB, enrollmentID, activityID, userID uint) (*lms.ActivityProgress, error) {
	var progress lms.ActivityProgress
	err := db.Where("enrollment_id = ? AND activity_id = ?", enrollmentID, activityID).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	progress = lms.ActivityProgress{
		EnrollmentID: enrollmentID,
		ActivityID:   activityID,
		UserID:       userID,
		Status:       lms.ProgressStarted,
	}
	if err := db.Create(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

type quizSubmission struct {
	ActivityID uint     `json:"activityId"`
	Answers    []string `json:"answers"`
}

// SubmitQuiz scores the student's answers against the stored quiz payload.
// Passing completes the activity; failing records the attempt and lets the
// student retry.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: User ID not found", nil)
	}

	var reqData quizSubmission
	if err := c.BodyParser(&reqData); err != nil || reqData.ActivityID == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Activity id and answers are required!", nil)
	}

	db := database.Database.Db

	var activity lms.Activity
	if err := db.Where("id = ? AND is_published = ? AND type = ?", reqData.ActivityID, true, lms.ActivityQuiz).
		First(&activity).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var questions []lms.QuizQuestion
	if err := json.Unmarshal(activity.QuizData, &questions); err != nil || len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Quiz has no questions!", nil)
	}
	if len(reqData.Answers) != len(questions) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Answer count does not match question count!", nil)
	}

	var lesson lms.Lesson
	if err := db.First(&lesson, activity.LessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}
	enrollment, err := enrollmentForLesson(db, userID, &lesson)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not enrolled in this program!", nil)
	}

	progress, err := getOrCreateProgress(db, enrollment.ID, activity.ID, userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load progress record!", nil)
	}
	if progress.Status == lms.ProgressCompleted {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Quiz already completed!", nil)
	}

	correct := 0
	for i, question := range questions {
		if strings.EqualFold(strings.TrimSpace(reqData.Answers[i]), strings.TrimSpace(question.CorrectAnswer)) {
			correct++
		}
	}
	score := correct * activity.MaxMarks / len(questions)
	passed := score >= activity.PassingScore

	now := time.Now()
	updates := map[string]interface{}{
		"marks":           score,
		"quiz_attempts":   progress.QuizAttempts + 1,
		"last_attempt_at": now,
	}
	if passed {
		updates["status"] = lms.ProgressCompleted
	} else {
		updates["status"] = lms.ProgressSubmitted
	}

	if err := db.Model(progress).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record quiz result!", nil)
	}

	percentage := enrollment.Progress
	if passed {
		if percentage, err = utils.UpdateEnrollmentProgress(db, enrollment.ID); err != nil {
			log.Printf("Error updating enrollment progress %d: %v", enrollment.ID, err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully.", fiber.Map{
		"score":           score,
		"correct":         correct,
		"total":           len(questions),
		"passed":          passed,
		"programProgress": percentage,
	})
}
