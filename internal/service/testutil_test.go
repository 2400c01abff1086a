package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newTestValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
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

func seedAccount(t *testing.T, db *gorm.DB, email, role, status string) models.Account {
	t.Helper()
	account := models.Account{Email: email, Role: role, Status: status, TenantID: "default"}
	require.NoError(t, db.Create(&account).Error)
	return account
}

// recordingLimiter is a RateLimiter double. checkErr is returned from Check
// verbatim; every checked action lands in checked, successful actions in
// recorded.
type recordingLimiter struct {
	checkErr error
	checked  []string
	recorded []string
}

func (l *recordingLimiter) Check(ctx context.Context, accountID uint, action string) error {
	l.checked = append(l.checked, action)
	return l.checkErr
}

func (l *recordingLimiter) Record(ctx context.Context, accountID uint, action string) error {
	l.recorded = append(l.recorded, action)
	return nil
}

// recordingNotifier captures published event subjects.
type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) Notify(ctx context.Context, subject string, accountID uint, payload map[string]interface{}) {
	n.events = append(n.events, subject)
}
