package utils

import (
	"testing"

	"internhub/config"
	"internhub/database"

	"gorm.io/gorm"
)

// setupTestDb boots an in-memory sqlite database with the full schema.
func setupTestDb(t *testing.T, name string) *gorm.DB {
	t.Helper()

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", "file:"+name+"?mode=memory&cache=shared")
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("GATEWAY_KEY_SECRET", "test-gateway-secret")

	config.LoadConfig()
	database.ConnectDb()

	return database.Database.Db
}
