package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/dto"
	"github.com/devcircle/clubconnect-api/internal/models"
	"github.com/devcircle/clubconnect-api/internal/repository"
)

type adminFixture struct {
	db       *gorm.DB
	svc      AdminService
	redis    *miniredis.Miniredis
	notifier *recordingNotifier
	admin    models.Account
}

func newAdminFixture(t *testing.T) adminFixture {
	t.Helper()
	db := setupServiceDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	notifier := &recordingNotifier{}
	svc := NewAdminService(
		repository.NewAdminActionRepository(db),
		repository.NewAccountRepository(db),
		repository.NewSafetyReportRepository(db),
		repository.NewAnnouncementRepository(db),
		repository.NewAuditLogRepository(db),
		client,
		time.Minute,
		notifier,
		newTestValidator(),
		testLogger(),
	)

	admin := seedAccount(t, db, "admin@campus.edu", models.RoleAdmin, models.StatusActive)
	return adminFixture{db: db, svc: svc, redis: mr, notifier: notifier, admin: admin}
}

func TestAdminApproveAlumni(t *testing.T) {
	f := newAdminFixture(t)
	pending := seedAccount(t, f.db, "pending@campus.edu", models.RoleAlumni, models.StatusPending)

	result, err := f.svc.ApproveAlumni(context.Background(), actorFor(f.admin), dto.AdminTargetRequest{UID: pending.ID})
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, result.Status)

	var audit models.AuditLog
	require.NoError(t, f.db.First(&audit).Error)
	require.Equal(t, models.AuditApproveAlumni, audit.Action)
	require.Equal(t, pending.ID, audit.TargetID)
	require.Contains(t, f.notifier.events, EventAccountModerated)
}

func TestAdminApproveActiveAlumnusInvalidState(t *testing.T) {
	f := newAdminFixture(t)
	active := seedAccount(t, f.db, "active@campus.edu", models.RoleAlumni, models.StatusActive)

	_, err := f.svc.ApproveAlumni(context.Background(), actorFor(f.admin), dto.AdminTargetRequest{UID: active.ID})
	require.ErrorIs(t, err, ErrInvalidState)

	var count int64
	require.NoError(t, f.db.Model(&models.AuditLog{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAdminApproveRecoversRejectedAlumnus(t *testing.T) {
	f := newAdminFixture(t)
	applicant := seedAccount(t, f.db, "applicant@campus.edu", models.RoleAlumni, models.StatusPending)

	_, err := f.svc.RejectAlumni(context.Background(), actorFor(f.admin), dto.AdminReasonedRequest{
		UID:    applicant.ID,
		Reason: "Could not verify the employment history.",
	})
	require.NoError(t, err)

	result, err := f.svc.ApproveAlumni(context.Background(), actorFor(f.admin), dto.AdminTargetRequest{UID: applicant.ID})
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, result.Status)

	var stored models.Account
	require.NoError(t, f.db.First(&stored, applicant.ID).Error)
	require.Equal(t, models.StatusActive, stored.Status)
	require.Empty(t, stored.StatusReason)
}

func TestAdminApproveLiftsSuspendedAlumnus(t *testing.T) {
	f := newAdminFixture(t)
	alumnus := seedAccount(t, f.db, "alumnus@campus.edu", models.RoleAlumni, models.StatusActive)

	_, err := f.svc.SuspendUser(context.Background(), actorFor(f.admin), dto.AdminReasonedRequest{
		UID:    alumnus.ID,
		Reason: "Posting off-platform recruiting spam.",
	})
	require.NoError(t, err)

	result, err := f.svc.ApproveAlumni(context.Background(), actorFor(f.admin), dto.AdminTargetRequest{UID: alumnus.ID})
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, result.Status)
	require.Nil(t, result.SuspensionEnd)

	var stored models.Account
	require.NoError(t, f.db.First(&stored, alumnus.ID).Error)
	require.Nil(t, stored.SuspensionEnd)
}

func TestAdminRejectActiveAlumnusRevokesAccess(t *testing.T) {
	f := newAdminFixture(t)
	alumnus := seedAccount(t, f.db, "alumnus@campus.edu", models.RoleAlumni, models.StatusActive)

	result, err := f.svc.RejectAlumni(context.Background(), actorFor(f.admin), dto.AdminReasonedRequest{
		UID:    alumnus.ID,
		Reason: "Credentials turned out to be fabricated.",
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusRejected, result.Status)

	_, err = f.svc.RejectAlumni(context.Background(), actorFor(f.admin), dto.AdminReasonedRequest{
		UID:    alumnus.ID,
		Reason: "Second rejection attempt.",
	})
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestAdminActionsRequireAdminActor(t *testing.T) {
	f := newAdminFixture(t)
	student := seedAccount(t, f.db, "student@campus.edu", models.RoleStudent, models.StatusActive)

	_, err := f.svc.ApproveAlumni(context.Background(), actorFor(student), dto.AdminTargetRequest{UID: 1})
	require.ErrorIs(t, err, ErrForbidden)

	suspendedAdmin := Actor{ID: f.admin.ID, Role: models.RoleAdmin, Status: models.StatusSuspended}
	_, err = f.svc.DashboardStats(context.Background(), suspendedAdmin)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestAdminSuspendSelfForbidden(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.SuspendUser(context.Background(), actorFor(f.admin), dto.AdminReasonedRequest{
		UID:    f.admin.ID,
		Reason: "Testing self moderation.",
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestAdminSuspendSetsThirtyDayWindow(t *testing.T) {
	f := newAdminFixture(t)
	student := seedAccount(t, f.db, "student@campus.edu", models.RoleStudent, models.StatusActive)

	result, err := f.svc.SuspendUser(context.Background(), actorFor(f.admin), dto.AdminReasonedRequest{
		UID:    student.ID,
		Reason: "Spamming referral applications.",
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusSuspended, result.Status)
	require.NotNil(t, result.SuspensionEnd)
	require.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), *result.SuspensionEnd, time.Minute)

	_, err = f.svc.SuspendUser(context.Background(), actorFor(f.admin), dto.AdminReasonedRequest{
		UID:    student.ID,
		Reason: "Second suspension attempt.",
	})
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestAdminCannotSuspendAdmin(t *testing.T) {
	f := newAdminFixture(t)
	peer := seedAccount(t, f.db, "peer@campus.edu", models.RoleAdmin, models.StatusActive)

	_, err := f.svc.SuspendUser(context.Background(), actorFor(f.admin), dto.AdminReasonedRequest{
		UID:    peer.ID,
		Reason: "Admins are off limits.",
	})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestAdminBlockClearsSuspensionEnd(t *testing.T) {
	f := newAdminFixture(t)
	student := seedAccount(t, f.db, "student@campus.edu", models.RoleStudent, models.StatusActive)

	_, err := f.svc.SuspendUser(context.Background(), actorFor(f.admin), dto.AdminReasonedRequest{
		UID:    student.ID,
		Reason: "First offense, temporary suspension.",
	})
	require.NoError(t, err)

	result, err := f.svc.BlockUser(context.Background(), actorFor(f.admin), dto.AdminReasonedRequest{
		UID:    student.ID,
		Reason: "Repeat offense, permanent block.",
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusBlocked, result.Status)
	require.Nil(t, result.SuspensionEnd)
}

func TestAdminSearchQueryTooShort(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.SearchUsers(context.Background(), actorFor(f.admin), " a ")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAdminResolveReportWithSuspension(t *testing.T) {
	f := newAdminFixture(t)
	alumni := seedAccount(t, f.db, "alumni@campus.edu", models.RoleAlumni, models.StatusActive)
	student := seedAccount(t, f.db, "student@campus.edu", models.RoleStudent, models.StatusActive)

	report := models.SafetyReport{
		ReporterID:  alumni.ID,
		StudentID:   student.ID,
		Reason:      "Harassing messages after a rejected application.",
		Status:      models.ReportPending,
		AdminAction: models.ReportActionNone,
		TenantID:    "default",
	}
	require.NoError(t, f.db.Create(&report).Error)

	result, err := f.svc.ResolveSafetyReport(context.Background(), actorFor(f.admin), report.ID, dto.ResolveReportRequest{
		Action:     models.ReportActionSuspend,
		Resolution: "Suspended pending review of the conversation.",
	})
	require.NoError(t, err)
	require.Equal(t, models.ReportResolved, result.Status)
	require.Equal(t, models.ReportActionSuspend, result.AdminAction)

	var storedStudent models.Account
	require.NoError(t, f.db.First(&storedStudent, student.ID).Error)
	require.Equal(t, models.StatusSuspended, storedStudent.Status)

	_, err = f.svc.ResolveSafetyReport(context.Background(), actorFor(f.admin), report.ID, dto.ResolveReportRequest{
		Action:     models.ReportActionNone,
		Resolution: "Second resolution should fail.",
	})
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestAdminDashboardStatsCachesInRedis(t *testing.T) {
	f := newAdminFixture(t)
	seedAccount(t, f.db, "s1@campus.edu", models.RoleStudent, models.StatusActive)
	seedAccount(t, f.db, "s2@campus.edu", models.RoleStudent, models.StatusActive)
	seedAccount(t, f.db, "a1@campus.edu", models.RoleAlumni, models.StatusActive)
	seedAccount(t, f.db, "a2@campus.edu", models.RoleAlumni, models.StatusPending)

	first, err := f.svc.DashboardStats(context.Background(), actorFor(f.admin))
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.EqualValues(t, 2, first.TotalStudents)
	require.EqualValues(t, 1, first.TotalActiveAlumni)
	require.EqualValues(t, 1, first.PendingAlumniApproval)

	second, err := f.svc.DashboardStats(context.Background(), actorFor(f.admin))
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.TotalStudents, second.TotalStudents)
}

func TestAdminModerationInvalidatesDashboardCache(t *testing.T) {
	f := newAdminFixture(t)
	pending := seedAccount(t, f.db, "pending@campus.edu", models.RoleAlumni, models.StatusPending)

	_, err := f.svc.DashboardStats(context.Background(), actorFor(f.admin))
	require.NoError(t, err)
	require.True(t, f.redis.Exists("dashboard:stats"))

	_, err = f.svc.ApproveAlumni(context.Background(), actorFor(f.admin), dto.AdminTargetRequest{UID: pending.ID})
	require.NoError(t, err)
	require.False(t, f.redis.Exists("dashboard:stats"))

	stats, err := f.svc.DashboardStats(context.Background(), actorFor(f.admin))
	require.NoError(t, err)
	require.False(t, stats.CacheHit)
	require.EqualValues(t, 1, stats.TotalActiveAlumni)
	require.Zero(t, stats.PendingAlumniApproval)
}

func TestAdminCreateAnnouncementWritesAudit(t *testing.T) {
	f := newAdminFixture(t)

	result, err := f.svc.CreateAnnouncement(context.Background(), actorFor(f.admin), dto.AnnouncementCreateRequest{
		Title:   "Semester kickoff",
		Content: "Welcome back! First meetup is Thursday at 7pm.",
	})
	require.NoError(t, err)
	require.Equal(t, models.AnnouncementInfo, result.Type)
	require.Equal(t, f.admin.ID, result.AuthorID)

	var audit models.AuditLog
	require.NoError(t, f.db.First(&audit).Error)
	require.Equal(t, models.AuditCreateAnnouncement, audit.Action)
	require.Equal(t, result.ID, audit.TargetID)
	require.Contains(t, f.notifier.events, EventAnnouncementSent)
}

func TestAdminListAuditLogsFiltersByAction(t *testing.T) {
	f := newAdminFixture(t)
	pending := seedAccount(t, f.db, "pending@campus.edu", models.RoleAlumni, models.StatusPending)
	student := seedAccount(t, f.db, "student@campus.edu", models.RoleStudent, models.StatusActive)

	_, err := f.svc.ApproveAlumni(context.Background(), actorFor(f.admin), dto.AdminTargetRequest{UID: pending.ID})
	require.NoError(t, err)
	_, err = f.svc.SuspendUser(context.Background(), actorFor(f.admin), dto.AdminReasonedRequest{
		UID:    student.ID,
		Reason: "Cooldown evasion with throwaway accounts.",
	})
	require.NoError(t, err)

	all, err := f.svc.ListAuditLogs(context.Background(), actorFor(f.admin), repository.AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, all.Items, 2)

	filtered, err := f.svc.ListAuditLogs(context.Background(), actorFor(f.admin), repository.AuditLogFilter{Action: models.AuditSuspendUser})
	require.NoError(t, err)
	require.Len(t, filtered.Items, 1)
	require.Equal(t, models.AuditSuspendUser, filtered.Items[0].Action)
}
