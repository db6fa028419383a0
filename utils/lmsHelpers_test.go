package utils

import (
	"testing"
	"time"

	"internhub/models/lms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedProgramTree builds a published program with one course, one module and
// one lesson, returning the lesson id for attaching activities.
func seedProgramTree(t *testing.T, db *gorm.DB, domain string) (programID, lessonID uint) {
	t.Helper()

	program := lms.Program{Title: "Program " + domain, InternshipDomain: domain, IsPublished: true}
	require.NoError(t, db.Create(&program).Error)

	course := lms.Course{ProgramID: program.ID, Title: "Course", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	module := lms.Module{CourseID: course.ID, Title: "Module", IsPublished: true}
	require.NoError(t, db.Create(&module).Error)

	lesson := lms.Lesson{ModuleID: module.ID, Title: "Lesson", IsPublished: true}
	require.NoError(t, db.Create(&lesson).Error)

	return program.ID, lesson.ID
}

func addActivity(t *testing.T, db *gorm.DB, lessonID uint, required, published bool) uint {
	t.Helper()

	activity := lms.Activity{
		LessonID:    lessonID,
		Title:       "Activity",
		Type:        lms.ActivityText,
		Content:     "read this",
		IsRequired:  required,
		IsPublished: published,
	}
	require.NoError(t, db.Create(&activity).Error)
	return activity.ID
}

func completeActivity(t *testing.T, db *gorm.DB, enrollmentID, activityID, userID uint) {
	t.Helper()

	require.NoError(t, db.Create(&lms.ActivityProgress{
		EnrollmentID: enrollmentID,
		ActivityID:   activityID,
		UserID:       userID,
		Status:       lms.ProgressCompleted,
	}).Error)
}

func TestAutoEnrollUser(t *testing.T) {
	db := setupTestDb(t, "lms_autoenroll")

	programID, _ := seedProgramTree(t, db, "Web Development")

	t.Run("EnrollsIntoPublishedProgram", func(t *testing.T) {
		enrollment, err := AutoEnrollUser(db, 1, "Web Development", 10)
		require.NoError(t, err)
		require.NotNil(t, enrollment)
		assert.Equal(t, programID, enrollment.ProgramID)
		assert.Equal(t, lms.EnrollmentActive, enrollment.Status)
	})

	t.Run("RepeatCallIsNoOp", func(t *testing.T) {
		first, err := AutoEnrollUser(db, 2, "Web Development", 11)
		require.NoError(t, err)
		require.NotNil(t, first)

		second, err := AutoEnrollUser(db, 2, "Web Development", 11)
		require.NoError(t, err)
		require.NotNil(t, second)
		assert.Equal(t, first.ID, second.ID)

		var count int64
		db.Model(&lms.Enrollment{}).Where("user_id = ?", 2).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("NoProgramForDomain", func(t *testing.T) {
		enrollment, err := AutoEnrollUser(db, 3, "Quantum Computing", 12)
		require.NoError(t, err)
		assert.Nil(t, enrollment)
	})

	t.Run("UnpublishedProgramIgnored", func(t *testing.T) {
		require.NoError(t, db.Create(&lms.Program{
			Title: "Draft", InternshipDomain: "Data Science", IsPublished: false,
		}).Error)

		enrollment, err := AutoEnrollUser(db, 4, "Data Science", 13)
		require.NoError(t, err)
		assert.Nil(t, enrollment)
	})
}

func TestUpdateEnrollmentProgress(t *testing.T) {
	db := setupTestDb(t, "lms_progress")

	programID, lessonID := seedProgramTree(t, db, "App Development")

	enrollment := lms.Enrollment{UserID: 1, ProgramID: programID, Status: lms.EnrollmentActive, EnrolledAt: time.Now()}
	require.NoError(t, db.Create(&enrollment).Error)

	t.Run("NoRequiredActivitiesMeansZero", func(t *testing.T) {
		progress, err := UpdateEnrollmentProgress(db, enrollment.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, progress)
	})

	required1 := addActivity(t, db, lessonID, true, true)
	required2 := addActivity(t, db, lessonID, true, true)
	required3 := addActivity(t, db, lessonID, true, true)
	optional := addActivity(t, db, lessonID, false, true)
	unpublished := addActivity(t, db, lessonID, true, false)

	t.Run("CountsOnlyRequiredPublished", func(t *testing.T) {
		completeActivity(t, db, enrollment.ID, required1, 1)
		completeActivity(t, db, enrollment.ID, optional, 1)
		completeActivity(t, db, enrollment.ID, unpublished, 1)

		progress, err := UpdateEnrollmentProgress(db, enrollment.ID)
		require.NoError(t, err)
		// 1 of 3 required completes; optional and unpublished do not count.
		assert.Equal(t, 33, progress)

		var reloaded lms.Enrollment
		db.First(&reloaded, enrollment.ID)
		assert.Equal(t, 33, reloaded.Progress)
		assert.Equal(t, lms.EnrollmentActive, reloaded.Status)
	})

	t.Run("RoundsToNearest", func(t *testing.T) {
		completeActivity(t, db, enrollment.ID, required2, 1)

		progress, err := UpdateEnrollmentProgress(db, enrollment.ID)
		require.NoError(t, err)
		assert.Equal(t, 67, progress) // 2/3 rounds up
	})

	t.Run("ReachesHundred", func(t *testing.T) {
		completeActivity(t, db, enrollment.ID, required3, 1)

		progress, err := UpdateEnrollmentProgress(db, enrollment.ID)
		require.NoError(t, err)
		assert.Equal(t, 100, progress)
	})
}

func TestDeleteProgramCascade(t *testing.T) {
	db := setupTestDb(t, "lms_cascade")

	programID, lessonID := seedProgramTree(t, db, "Cloud")
	activityID := addActivity(t, db, lessonID, true, true)

	enrollment := lms.Enrollment{UserID: 1, ProgramID: programID, Status: lms.EnrollmentActive, EnrolledAt: time.Now()}
	require.NoError(t, db.Create(&enrollment).Error)
	completeActivity(t, db, enrollment.ID, activityID, 1)

	// An unrelated program must survive the cascade
	otherProgram, otherLesson := seedProgramTree(t, db, "Security")
	addActivity(t, db, otherLesson, true, true)

	require.NoError(t, DeleteProgramCascade(db, programID))

	var count int64
	db.Model(&lms.Program{}).Where("id = ?", programID).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&lms.Course{}).Where("program_id = ?", programID).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&lms.Activity{}).Where("id = ?", activityID).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&lms.Enrollment{}).Where("program_id = ?", programID).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&lms.ActivityProgress{}).Where("enrollment_id = ?", enrollment.ID).Count(&count)
	assert.EqualValues(t, 0, count)

	db.Model(&lms.Program{}).Where("id = ?", otherProgram).Count(&count)
	assert.EqualValues(t, 1, count)
	db.Model(&lms.Course{}).Where("program_id = ?", otherProgram).Count(&count)
	assert.EqualValues(t, 1, count)
}
