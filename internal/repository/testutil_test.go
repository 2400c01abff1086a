package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.Profile{},
		&models.AlumniMeta{},
		&models.GuidanceRequest{},
		&models.Referral{},
		&models.ReferralApplicant{},
		&models.SafetyReport{},
		&models.AuditLog{},
		&models.ActivityLog{},
		&models.Announcement{},
		&models.Post{},
	))
	return db
}

func createAccount(t *testing.T, db *gorm.DB, email, role, status string) models.Account {
	t.Helper()
	account := models.Account{Email: email, Role: role, Status: status, TenantID: "default"}
	require.NoError(t, db.Create(&account).Error)
	return account
}
