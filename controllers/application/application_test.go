package applicationController_test

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
	"internhub/routers/applicationRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupApplicationTest(t *testing.T, name string) (*fiber.App, *gorm.DB) {
	t.Helper()

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "file:"+name+"?mode=memory&cache=shared")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("GATEWAY_KEY_SECRET", "test-gateway-secret")

	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()
	applicationRoutes.SetupApplicationRoutes(app)
	return app, database.Database.Db
}

func newUser(t *testing.T, db *gorm.DB, role string) (models.User, string) {
	t.Helper()

	user := models.User{
		Name:     "User",
		Email:    fmt.Sprintf("app%d@test.in", time.Now().UnixNano()),
		Role:     role,
		Password: "x",
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return user, token
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
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

func validForm(domain string, duration int) fiber.Map {
	return fiber.Map{
		"name":            "Asha Verma",
		"email":           "asha@test.in",
		"phone":           "9876543210",
		"college":         "NIT Trichy",
		"preferredDomain": domain,
		"duration":        duration,
	}
}

func TestSubmitApplication(t *testing.T) {
	app, db := setupApplicationTest(t, "app_submit")
	_, token := newUser(t, db, models.RoleUser)

	t.Run("DefaultsAmountFromDuration", func(t *testing.T) {
		code, body := call(t, app, "POST", "/applications/", token, validForm("Web Development", 3))
		require.Equal(t, fiber.StatusCreated, code)

		data := body["data"].(map[string]interface{})
		assert.EqualValues(t, 599, data["amount"])
		assert.Equal(t, models.StatusNew, data["status"])
		assert.Equal(t, models.PaymentPending, data["paymentStatus"])
	})

	t.Run("DuplicateActiveConflicts", func(t *testing.T) {
		code, _ := call(t, app, "POST", "/applications/", token, validForm("Web Development", 3))
		assert.Equal(t, fiber.StatusConflict, code)
	})

	t.Run("DifferentDomainAllowed", func(t *testing.T) {
		code, body := call(t, app, "POST", "/applications/", token, validForm("App Development", 1))
		require.Equal(t, fiber.StatusCreated, code)
		assert.EqualValues(t, 399, body["data"].(map[string]interface{})["amount"])
	})

	t.Run("RejectedApplicationDoesNotBlock", func(t *testing.T) {
		require.NoError(t, db.Model(&models.Application{}).
			Where("preferred_domain = ?", "App Development").
			Update("status", models.StatusRejected).Error)

		code, _ := call(t, app, "POST", "/applications/", token, validForm("App Development", 1))
		assert.Equal(t, fiber.StatusCreated, code)
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		form := validForm("Web Development", 3)
		form["phone"] = "123"
		form["duration"] = 2

		code, _ := call(t, app, "POST", "/applications/", token, form)
		assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	})

	// Last: breaks the table, so nothing else can run after it.
	t.Run("DatabaseErrorIsNotTreatedAsNoDuplicate", func(t *testing.T) {
		require.NoError(t, db.Migrator().DropTable(&models.Application{}))

		code, _ := call(t, app, "POST", "/applications/", token, validForm("Cyber Security", 3))
		assert.Equal(t, fiber.StatusInternalServerError, code)
	})
}

func TestUpdateApplicationStatus(t *testing.T) {
	app, db := setupApplicationTest(t, "app_status")

	_, adminToken := newUser(t, db, models.RoleAdmin)
	student, studentToken := newUser(t, db, models.RoleUser)

	// Published program so Selected can auto-enroll
	program := lms.Program{Title: "Web", InternshipDomain: "Web Development", IsPublished: true}
	require.NoError(t, db.Create(&program).Error)

	code, body := call(t, app, "POST", "/applications/", studentToken, validForm("Web Development", 3))
	require.Equal(t, fiber.StatusCreated, code)
	applicationID := uint(body["data"].(map[string]interface{})["ID"].(float64))

	patch := func(payload fiber.Map) (int, map[string]interface{}) {
		return call(t, app, "PATCH", fmt.Sprintf("/applications/%d/status", applicationID), adminToken, payload)
	}

	t.Run("StudentCannotUpdate", func(t *testing.T) {
		code, _ := call(t, app, "PATCH", fmt.Sprintf("/applications/%d/status", applicationID),
			studentToken, fiber.Map{"status": models.StatusSelected})
		assert.Equal(t, fiber.StatusForbidden, code)
	})

	t.Run("InvalidStatusRejected", func(t *testing.T) {
		code, _ := patch(fiber.Map{"status": "Whatever"})
		assert.Equal(t, fiber.StatusBadRequest, code)
	})

	t.Run("SelectedAutoEnrolls", func(t *testing.T) {
		code, _ := patch(fiber.Map{"status": models.StatusSelected})
		require.Equal(t, fiber.StatusOK, code)

		var count int64
		db.Model(&lms.Enrollment{}).
			Where("user_id = ? AND program_id = ?", student.ID, program.ID).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("RepeatTransitionKeepsSingleEnrollment", func(t *testing.T) {
		code, _ := patch(fiber.Map{"status": models.StatusApproved})
		require.Equal(t, fiber.StatusOK, code)
		code, _ = patch(fiber.Map{"status": models.StatusSelected})
		require.Equal(t, fiber.StatusOK, code)

		var count int64
		db.Model(&lms.Enrollment{}).
			Where("user_id = ? AND program_id = ?", student.ID, program.ID).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("SetsDates", func(t *testing.T) {
		start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		code, _ := patch(fiber.Map{"startDate": start})
		require.Equal(t, fiber.StatusOK, code)

		var reloaded models.Application
		require.NoError(t, db.First(&reloaded, applicationID).Error)
		require.NotNil(t, reloaded.StartDate)
		assert.Equal(t, start.Unix(), reloaded.StartDate.Unix())
	})

	t.Run("AuditLogged", func(t *testing.T) {
		var count int64
		db.Model(&models.AuditLog{}).
			Where("action_type = ? AND target_id = ?", "UPDATE_STATUS", applicationID).Count(&count)
		assert.Greater(t, count, int64(0))
	})
}
