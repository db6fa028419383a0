package taskController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"internhub/config"
	"internhub/database"
	"internhub/middleware"
	"internhub/models"
	"internhub/models/lms"
	"internhub/routers/taskRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTaskTest(t *testing.T, name string) (*fiber.App, *gorm.DB) {
	t.Helper()

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "file:"+name+"?mode=memory&cache=shared")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("GATEWAY_KEY_SECRET", "test-gateway-secret")

	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()
	taskRoutes.SetupTaskRoutes(app)
	return app, database.Database.Db
}

func newTaskUser(t *testing.T, db *gorm.DB, role string) (models.User, string) {
	t.Helper()

	user := models.User{
		Name:     "U " + role,
		Email:    fmt.Sprintf("task%d@test.in", time.Now().UnixNano()),
		Role:     role,
		Password: "x",
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return user, token
}

func seedTaskApplication(t *testing.T, db *gorm.DB, userID uint) models.Application {
	t.Helper()

	application := models.Application{
		UserID:          userID,
		Name:            "Student",
		Email:           fmt.Sprintf("ts%d@test.in", time.Now().UnixNano()),
		Phone:           "9999999999",
		College:         "Test College",
		PreferredDomain: "Web Development",
		Duration:        3,
		Amount:          599,
		Status:          models.StatusSelected,
		PaymentStatus:   models.PaymentPending,
	}
	require.NoError(t, db.Create(&application).Error)
	return application
}

func send(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func TestUpdateEligibility(t *testing.T) {
	app, db := setupTaskTest(t, "task_eligibility")

	_, adminToken := newTaskUser(t, db, models.RoleAdmin)
	student, studentToken := newTaskUser(t, db, models.RoleUser)
	application := seedTaskApplication(t, db, student.ID)

	t.Run("StudentCannotUpdate", func(t *testing.T) {
		code, _ := send(t, app, "PATCH",
			fmt.Sprintf("/tasks/eligibility/%d", application.ID), studentToken,
			fiber.Map{"isEligibleForCertificate": true})
		assert.Equal(t, fiber.StatusForbidden, code)
	})

	t.Run("UnknownApplication", func(t *testing.T) {
		code, _ := send(t, app, "PATCH", "/tasks/eligibility/99999", adminToken,
			fiber.Map{"isEligibleForCertificate": true})
		assert.Equal(t, fiber.StatusNotFound, code)
	})

	t.Run("CreatesAndSetsFlags", func(t *testing.T) {
		code, _ := send(t, app, "PATCH",
			fmt.Sprintf("/tasks/eligibility/%d", application.ID), adminToken,
			fiber.Map{"isEligibleForCertificate": true, "adminManuallyCompleted": true})
		require.Equal(t, fiber.StatusOK, code)

		var progress models.ActivityProgress
		require.NoError(t, db.Where("application_id = ?", application.ID).First(&progress).Error)
		assert.True(t, progress.IsEligibleForCertificate)
		assert.True(t, progress.AdminManuallyCompleted)
		require.NotNil(t, progress.LastUpdatedByID)
	})

	t.Run("OwnerSeesProgress", func(t *testing.T) {
		code, body := send(t, app, "GET",
			fmt.Sprintf("/tasks/progress/%d", application.ID), studentToken, nil)
		require.Equal(t, fiber.StatusOK, code)

		data := body["data"].(map[string]interface{})
		assert.True(t, data["isEligibleForCertificate"].(bool))
	})
}

func TestProgressTablesAreSeparate(t *testing.T) {
	_, db := setupTaskTest(t, "task_tables")

	student, _ := newTaskUser(t, db, models.RoleUser)
	application := seedTaskApplication(t, db, student.ID)

	// Internship progress is keyed by application; course progress is keyed
	// by enrollment and activity. Both rows must land in their own tables.
	require.NoError(t, db.Create(&models.ActivityProgress{
		ApplicationID:            application.ID,
		UserID:                   student.ID,
		IsEligibleForCertificate: true,
	}).Error)

	program := lms.Program{Title: "P", InternshipDomain: "tables", IsPublished: true}
	require.NoError(t, db.Create(&program).Error)
	enrollment := lms.Enrollment{UserID: student.ID, ProgramID: program.ID, Status: lms.EnrollmentActive, EnrolledAt: time.Now()}
	require.NoError(t, db.Create(&enrollment).Error)
	require.NoError(t, db.Create(&lms.ActivityProgress{
		EnrollmentID: enrollment.ID,
		ActivityID:   1,
		UserID:       student.ID,
		Status:       lms.ProgressCompleted,
	}).Error)

	var internshipProgress models.ActivityProgress
	require.NoError(t, db.Where("application_id = ?", application.ID).First(&internshipProgress).Error)
	assert.True(t, internshipProgress.IsEligibleForCertificate)

	var courseProgress lms.ActivityProgress
	require.NoError(t, db.Where("enrollment_id = ?", enrollment.ID).First(&courseProgress).Error)
	assert.Equal(t, lms.ProgressCompleted, courseProgress.Status)
}
