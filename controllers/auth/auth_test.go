package authController_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"internhub/config"
	"internhub/database"
	"internhub/routers/authRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthTest(t *testing.T, name string) *fiber.App {
	t.Helper()

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "file:"+name+"?mode=memory&cache=shared")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("GATEWAY_KEY_SECRET", "test-gateway-secret")

	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	return app
}

func post(t *testing.T, app *fiber.App, path string, body fiber.Map) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func TestSignupAndLogin(t *testing.T) {
	app := setupAuthTest(t, "auth_flow")

	signup := fiber.Map{
		"name":     "Ravi Kumar",
		"email":    "ravi@test.in",
		"phone":    "9876543210",
		"password": "supersecret1",
	}

	t.Run("SignupCreatesUser", func(t *testing.T) {
		code, body := post(t, app, "/auth/signup", signup)
		require.Equal(t, fiber.StatusCreated, code)

		data := body["data"].(map[string]interface{})
		assert.Equal(t, "ravi@test.in", data["email"])
		// Password never comes back
		_, leaked := data["password"]
		assert.False(t, leaked)
	})

	t.Run("DuplicateEmailConflicts", func(t *testing.T) {
		code, _ := post(t, app, "/auth/signup", signup)
		assert.Equal(t, fiber.StatusConflict, code)
	})

	t.Run("WeakPasswordRejected", func(t *testing.T) {
		code, _ := post(t, app, "/auth/signup", fiber.Map{
			"name":     "Short Pass",
			"email":    "short@test.in",
			"password": "short",
		})
		assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	})

	t.Run("LoginReturnsToken", func(t *testing.T) {
		code, body := post(t, app, "/auth/login", fiber.Map{
			"email":    "ravi@test.in",
			"password": "supersecret1",
		})
		require.Equal(t, fiber.StatusOK, code)

		data := body["data"].(map[string]interface{})
		token := data["token"].(string)
		require.NotEmpty(t, token)

		// Token works against the profile route
		req := httptest.NewRequest("GET", "/auth/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("WrongPasswordUnauthorized", func(t *testing.T) {
		code, _ := post(t, app, "/auth/login", fiber.Map{
			"email":    "ravi@test.in",
			"password": "wrong-password",
		})
		assert.Equal(t, fiber.StatusUnauthorized, code)
	})
}
