package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/dto"
	"github.com/devcircle/clubconnect-api/internal/models"
	"github.com/devcircle/clubconnect-api/internal/repository"
)

const (
	suspensionDuration = 30 * 24 * time.Hour
	searchResultLimit  = 20
	minSearchQueryLen  = 2

	dashboardCacheKey = "dashboard:stats"
)

// AdminService executes privileged moderation and platform management. Every
// mutation writes its audit row in the same transaction, so the trail can
// never miss an action that committed.
type AdminService interface {
	ApproveAlumni(ctx context.Context, actor Actor, req dto.AdminTargetRequest) (dto.AccountResponse, error)
	RejectAlumni(ctx context.Context, actor Actor, req dto.AdminReasonedRequest) (dto.AccountResponse, error)
	SuspendUser(ctx context.Context, actor Actor, req dto.AdminReasonedRequest) (dto.AccountResponse, error)
	BlockUser(ctx context.Context, actor Actor, req dto.AdminReasonedRequest) (dto.AccountResponse, error)
	PromoteToAdmin(ctx context.Context, actor Actor, req dto.AdminTargetRequest) (dto.AccountResponse, error)
	ResolveSafetyReport(ctx context.Context, actor Actor, reportID uint, req dto.ResolveReportRequest) (dto.SafetyReportResponse, error)
	SearchUsers(ctx context.Context, actor Actor, query string) (dto.SearchUsersResponse, error)
	ListPendingAlumni(ctx context.Context, actor Actor) ([]dto.AccountResponse, error)
	DashboardStats(ctx context.Context, actor Actor) (dto.DashboardStatsResponse, error)
	CreateAnnouncement(ctx context.Context, actor Actor, req dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error)
	ListAnnouncements(ctx context.Context, page, pageSize int) (dto.AnnouncementListResponse, error)
	ListAuditLogs(ctx context.Context, actor Actor, filter repository.AuditLogFilter) (dto.AuditLogListResponse, error)
}

type adminService struct {
	actions       repository.AdminActionRepository
	accounts      repository.AccountRepository
	reports       repository.SafetyReportRepository
	announcements repository.AnnouncementRepository
	auditLogs     repository.AuditLogRepository
	redis         *redis.Client
	cacheTTL      time.Duration
	notifier      Notifier
	validator     *validator.Validate
	sanitizer     *bluemonday.Policy
	logger        zerolog.Logger
}

// NewAdminService constructs the admin service. cacheTTL bounds how stale the
// dashboard counters may get; zero disables caching.
func NewAdminService(actions repository.AdminActionRepository, accounts repository.AccountRepository, reports repository.SafetyReportRepository, announcements repository.AnnouncementRepository, auditLogs repository.AuditLogRepository, redisClient *redis.Client, cacheTTL time.Duration, notifier Notifier, validate *validator.Validate, logger zerolog.Logger) AdminService {
	return &adminService{
		actions:       actions,
		accounts:      accounts,
		reports:       reports,
		announcements: announcements,
		auditLogs:     auditLogs,
		redis:         redisClient,
		cacheTTL:      cacheTTL,
		notifier:      notifier,
		validator:     validate,
		sanitizer:     bluemonday.StrictPolicy(),
		logger:        logger.With().Str("component", "admin_service").Logger(),
	}
}

// ApproveAlumni activates an alumni account. Any non-active alumnus is
// eligible, so a rejected or suspended application can be approved later.
func (s *adminService) ApproveAlumni(ctx context.Context, actor Actor, req dto.AdminTargetRequest) (dto.AccountResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return dto.AccountResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.AccountResponse{}, err
	}

	guard := func(account models.Account) error {
		if account.Role != models.RoleAlumni {
			return ErrInvalidState
		}
		if account.Status == models.StatusActive {
			return ErrInvalidState
		}
		return nil
	}

	now := time.Now().UTC()
	account, err := s.actions.UpdateAccount(ctx, req.UID, guard, map[string]interface{}{
		"status":            models.StatusActive,
		"status_reason":     "",
		"status_changed_by": actor.ID,
		"status_changed_at": now,
		"suspension_end":    nil,
	}, models.AuditLog{
		ActorID:  actor.ID,
		Action:   models.AuditApproveAlumni,
		TargetID: req.UID,
	}, []models.ActivityLog{{
		AccountID: req.UID,
		Type:      models.ActivityAlumniApproved,
		Details:   datatypes.JSONMap{"approved_by": actor.ID},
	}})
	if err != nil {
		return dto.AccountResponse{}, s.mapAdminErr(err)
	}

	account.Status = models.StatusActive
	account.SuspensionEnd = nil
	s.invalidateDashboard(ctx)
	s.notifier.Notify(ctx, EventAccountModerated, req.UID, map[string]interface{}{"action": models.AuditApproveAlumni})
	return dto.NewAccountResponse(account), nil
}

// RejectAlumni declines an alumni application. Rejecting an already rejected
// account is an invalid transition; any other alumni status may be rejected.
func (s *adminService) RejectAlumni(ctx context.Context, actor Actor, req dto.AdminReasonedRequest) (dto.AccountResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return dto.AccountResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.AccountResponse{}, err
	}

	guard := func(account models.Account) error {
		if account.Role != models.RoleAlumni || account.Status == models.StatusRejected {
			return ErrInvalidState
		}
		return nil
	}

	reason := strings.TrimSpace(s.sanitizer.Sanitize(req.Reason))
	now := time.Now().UTC()
	account, err := s.actions.UpdateAccount(ctx, req.UID, guard, map[string]interface{}{
		"status":            models.StatusRejected,
		"status_reason":     reason,
		"status_changed_by": actor.ID,
		"status_changed_at": now,
	}, models.AuditLog{
		ActorID:  actor.ID,
		Action:   models.AuditRejectAlumni,
		TargetID: req.UID,
		Metadata: datatypes.JSONMap{"reason": reason},
	}, []models.ActivityLog{{
		AccountID: req.UID,
		Type:      models.ActivityAlumniRejected,
		Details:   datatypes.JSONMap{"reason": reason},
	}})
	if err != nil {
		return dto.AccountResponse{}, s.mapAdminErr(err)
	}

	account.Status = models.StatusRejected
	s.invalidateDashboard(ctx)
	s.notifier.Notify(ctx, EventAccountModerated, req.UID, map[string]interface{}{"action": models.AuditRejectAlumni})
	return dto.NewAccountResponse(account), nil
}

// SuspendUser places a thirty-day suspension. Admins cannot suspend themselves
// or each other.
func (s *adminService) SuspendUser(ctx context.Context, actor Actor, req dto.AdminReasonedRequest) (dto.AccountResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return dto.AccountResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.AccountResponse{}, err
	}
	if req.UID == actor.ID {
		return dto.AccountResponse{}, ErrForbidden
	}

	guard := func(account models.Account) error {
		if account.Role == models.RoleAdmin {
			return ErrForbidden
		}
		if account.Status == models.StatusSuspended || account.Status == models.StatusBlocked {
			return ErrInvalidState
		}
		return nil
	}

	reason := strings.TrimSpace(s.sanitizer.Sanitize(req.Reason))
	now := time.Now().UTC()
	until := now.Add(suspensionDuration)
	account, err := s.actions.UpdateAccount(ctx, req.UID, guard, map[string]interface{}{
		"status":            models.StatusSuspended,
		"status_reason":     reason,
		"status_changed_by": actor.ID,
		"status_changed_at": now,
		"suspension_end":    until,
	}, models.AuditLog{
		ActorID:  actor.ID,
		Action:   models.AuditSuspendUser,
		TargetID: req.UID,
		Metadata: datatypes.JSONMap{"reason": reason, "suspension_end": until.Format(time.RFC3339)},
	}, []models.ActivityLog{{
		AccountID: req.UID,
		Type:      models.ActivityAccountSuspended,
		Details:   datatypes.JSONMap{"reason": reason},
	}})
	if err != nil {
		return dto.AccountResponse{}, s.mapAdminErr(err)
	}

	account.Status = models.StatusSuspended
	account.SuspensionEnd = &until
	s.invalidateDashboard(ctx)
	s.notifier.Notify(ctx, EventAccountModerated, req.UID, map[string]interface{}{
		"action": models.AuditSuspendUser,
		"until":  until.Format(time.RFC3339),
	})
	return dto.NewAccountResponse(account), nil
}

// BlockUser permanently blocks an account.
func (s *adminService) BlockUser(ctx context.Context, actor Actor, req dto.AdminReasonedRequest) (dto.AccountResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return dto.AccountResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.AccountResponse{}, err
	}
	if req.UID == actor.ID {
		return dto.AccountResponse{}, ErrForbidden
	}

	guard := func(account models.Account) error {
		if account.Role == models.RoleAdmin {
			return ErrForbidden
		}
		if account.Status == models.StatusBlocked {
			return ErrInvalidState
		}
		return nil
	}

	reason := strings.TrimSpace(s.sanitizer.Sanitize(req.Reason))
	now := time.Now().UTC()
	account, err := s.actions.UpdateAccount(ctx, req.UID, guard, map[string]interface{}{
		"status":            models.StatusBlocked,
		"status_reason":     reason,
		"status_changed_by": actor.ID,
		"status_changed_at": now,
		"suspension_end":    nil,
	}, models.AuditLog{
		ActorID:  actor.ID,
		Action:   models.AuditBlockUser,
		TargetID: req.UID,
		Metadata: datatypes.JSONMap{"reason": reason},
	}, []models.ActivityLog{{
		AccountID: req.UID,
		Type:      models.ActivityAccountBlocked,
		Details:   datatypes.JSONMap{"reason": reason},
	}})
	if err != nil {
		return dto.AccountResponse{}, s.mapAdminErr(err)
	}

	account.Status = models.StatusBlocked
	account.SuspensionEnd = nil
	s.invalidateDashboard(ctx)
	s.notifier.Notify(ctx, EventAccountModerated, req.UID, map[string]interface{}{"action": models.AuditBlockUser})
	return dto.NewAccountResponse(account), nil
}

// PromoteToAdmin elevates an active account to the admin role.
func (s *adminService) PromoteToAdmin(ctx context.Context, actor Actor, req dto.AdminTargetRequest) (dto.AccountResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return dto.AccountResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.AccountResponse{}, err
	}

	guard := func(account models.Account) error {
		if account.Role == models.RoleAdmin {
			return ErrInvalidState
		}
		if account.Status != models.StatusActive {
			return ErrInvalidState
		}
		return nil
	}

	now := time.Now().UTC()
	account, err := s.actions.UpdateAccount(ctx, req.UID, guard, map[string]interface{}{
		"role":              models.RoleAdmin,
		"status_changed_by": actor.ID,
		"status_changed_at": now,
	}, models.AuditLog{
		ActorID:  actor.ID,
		Action:   models.AuditPromoteToAdmin,
		TargetID: req.UID,
	}, nil)
	if err != nil {
		return dto.AccountResponse{}, s.mapAdminErr(err)
	}

	account.Role = models.RoleAdmin
	s.invalidateDashboard(ctx)
	return dto.NewAccountResponse(account), nil
}

// ResolveSafetyReport closes a pending report. A suspend action cascades into
// the reported student's account in the same transaction.
func (s *adminService) ResolveSafetyReport(ctx context.Context, actor Actor, reportID uint, req dto.ResolveReportRequest) (dto.SafetyReportResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return dto.SafetyReportResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.SafetyReportResponse{}, err
	}

	action := req.Action
	if action == "" {
		action = models.ReportActionNone
	}
	resolution := strings.TrimSpace(s.sanitizer.Sanitize(req.Resolution))
	now := time.Now().UTC()

	guard := func(report models.SafetyReport) error {
		if report.Status != models.ReportPending {
			return ErrInvalidState
		}
		return nil
	}

	reportUpdates := map[string]interface{}{
		"status":       models.ReportResolved,
		"resolution":   resolution,
		"admin_action": action,
		"resolved_by":  actor.ID,
		"resolved_at":  now,
	}

	var accountUpdates map[string]interface{}
	var until time.Time
	if action == models.ReportActionSuspend {
		until = now.Add(suspensionDuration)
		accountUpdates = map[string]interface{}{
			"status":            models.StatusSuspended,
			"status_reason":     resolution,
			"status_changed_by": actor.ID,
			"status_changed_at": now,
			"suspension_end":    until,
		}
	}

	audit := func(report models.SafetyReport) models.AuditLog {
		return models.AuditLog{
			ActorID:  actor.ID,
			Action:   models.AuditResolveSafetyReport,
			TargetID: report.ID,
			Metadata: datatypes.JSONMap{
				"student_id":   report.StudentID,
				"admin_action": action,
			},
		}
	}

	activity := func(report models.SafetyReport) []models.ActivityLog {
		if action != models.ReportActionSuspend {
			return nil
		}
		return []models.ActivityLog{{
			AccountID: report.StudentID,
			Type:      models.ActivityAccountSuspended,
			Details:   datatypes.JSONMap{"report_id": report.ID, "reason": resolution},
		}}
	}

	report, err := s.actions.ResolveReport(ctx, reportID, guard, reportUpdates, accountUpdates, audit, activity)
	if err != nil {
		return dto.SafetyReportResponse{}, s.mapAdminErr(err)
	}

	report.Status = models.ReportResolved
	report.Resolution = resolution
	report.AdminAction = action
	report.ResolvedBy = &actor.ID
	report.ResolvedAt = &now

	s.invalidateDashboard(ctx)
	if action == models.ReportActionSuspend {
		s.notifier.Notify(ctx, EventAccountModerated, report.StudentID, map[string]interface{}{
			"action": models.AuditSuspendUser,
			"until":  until.Format(time.RFC3339),
		})
	}
	return dto.NewSafetyReportResponse(report), nil
}

// SearchUsers finds accounts by email or display name fragment.
func (s *adminService) SearchUsers(ctx context.Context, actor Actor, query string) (dto.SearchUsersResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return dto.SearchUsersResponse{}, err
	}
	if len(strings.TrimSpace(query)) < minSearchQueryLen {
		return dto.SearchUsersResponse{}, ErrInvalidArgument
	}

	accounts, profiles, err := s.accounts.Search(ctx, query, searchResultLimit)
	if err != nil {
		return dto.SearchUsersResponse{}, err
	}

	users := make([]dto.UserSummary, 0, len(accounts))
	for _, account := range accounts {
		users = append(users, dto.UserSummary{
			UID:         account.ID,
			Email:       account.Email,
			DisplayName: profiles[account.ID].DisplayName,
			Role:        account.Role,
			Status:      account.Status,
		})
	}
	return dto.SearchUsersResponse{Users: users}, nil
}

func (s *adminService) ListPendingAlumni(ctx context.Context, actor Actor) ([]dto.AccountResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	accounts, err := s.accounts.ListPendingAlumni(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, dto.NewAccountResponse(account))
	}
	return responses, nil
}

// DashboardStats aggregates platform counters, cached in Redis for the
// configured TTL. Any moderation action invalidates the cache.
func (s *adminService) DashboardStats(ctx context.Context, actor Actor) (dto.DashboardStatsResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return dto.DashboardStatsResponse{}, err
	}

	if s.redis != nil && s.cacheTTL > 0 {
		cached, err := s.redis.Get(ctx, dashboardCacheKey).Bytes()
		if err == nil {
			var stats dto.DashboardStatsResponse
			if err := json.Unmarshal(cached, &stats); err == nil {
				stats.CacheHit = true
				return stats, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("dashboard cache read failed")
		}
	}

	counts, err := s.accounts.CountByRoleStatus(ctx)
	if err != nil {
		return dto.DashboardStatsResponse{}, err
	}
	pendingReports, err := s.reports.CountPending(ctx)
	if err != nil {
		return dto.DashboardStatsResponse{}, err
	}

	stats := dto.DashboardStatsResponse{
		PendingSafetyReports: pendingReports,
		GeneratedAt:          time.Now().UTC(),
	}
	for _, c := range counts {
		switch {
		case c.Role == models.RoleStudent:
			stats.TotalStudents += c.Count
		case c.Role == models.RoleAlumni && c.Status == models.StatusActive:
			stats.TotalActiveAlumni += c.Count
		}
		switch c.Status {
		case models.StatusPending:
			if c.Role == models.RoleAlumni {
				stats.PendingAlumniApproval += c.Count
			}
		case models.StatusSuspended:
			stats.SuspendedUsers += c.Count
		case models.StatusBlocked:
			stats.BlockedUsers += c.Count
		}
	}

	if s.redis != nil && s.cacheTTL > 0 {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("dashboard cache write failed")
			}
		}
	}
	return stats, nil
}

// CreateAnnouncement publishes a platform-wide broadcast.
func (s *adminService) CreateAnnouncement(ctx context.Context, actor Actor, req dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return dto.AnnouncementResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	announcementType := req.Type
	if announcementType == "" {
		announcementType = models.AnnouncementInfo
	}

	announcement := models.Announcement{
		Title:    strings.TrimSpace(s.sanitizer.Sanitize(req.Title)),
		Content:  strings.TrimSpace(s.sanitizer.Sanitize(req.Content)),
		Type:     announcementType,
		AuthorID: actor.ID,
		TenantID: tenantOrDefault(req.TenantID),
	}

	audit := models.AuditLog{
		ActorID:  actor.ID,
		Action:   models.AuditCreateAnnouncement,
		Metadata: datatypes.JSONMap{"title": announcement.Title, "type": announcement.Type},
	}

	if err := s.actions.CreateAnnouncement(ctx, &announcement, audit); err != nil {
		s.logger.Error().Err(err).Msg("failed to create announcement")
		return dto.AnnouncementResponse{}, err
	}

	s.notifier.Notify(ctx, EventAnnouncementSent, 0, map[string]interface{}{
		"announcement_id": announcement.ID,
		"title":           announcement.Title,
		"type":            announcement.Type,
	})
	return dto.NewAnnouncementResponse(announcement), nil
}

func (s *adminService) ListAnnouncements(ctx context.Context, page, pageSize int) (dto.AnnouncementListResponse, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	announcements, total, err := s.announcements.List(ctx, page, pageSize)
	if err != nil {
		return dto.AnnouncementListResponse{}, err
	}
	items := make([]dto.AnnouncementResponse, 0, len(announcements))
	for _, announcement := range announcements {
		items = append(items, dto.NewAnnouncementResponse(announcement))
	}
	return dto.AnnouncementListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

func (s *adminService) ListAuditLogs(ctx context.Context, actor Actor, filter repository.AuditLogFilter) (dto.AuditLogListResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return dto.AuditLogListResponse{}, err
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	entries, total, err := s.auditLogs.List(ctx, filter)
	if err != nil {
		return dto.AuditLogListResponse{}, err
	}
	items := make([]dto.AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewAuditLogResponse(entry))
	}
	return dto.AuditLogListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *adminService) requireAdmin(actor Actor) error {
	if actor.Role != models.RoleAdmin {
		return ErrForbidden
	}
	if actor.Status != models.StatusActive {
		return ErrForbidden
	}
	return nil
}

func (s *adminService) mapAdminErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *adminService) invalidateDashboard(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, dashboardCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("dashboard cache invalidation failed")
	}
}
