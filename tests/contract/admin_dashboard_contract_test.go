package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/devcircle/clubconnect-api/internal/dto"
	"github.com/devcircle/clubconnect-api/internal/handler"
	"github.com/devcircle/clubconnect-api/internal/models"
	"github.com/devcircle/clubconnect-api/internal/repository"
	"github.com/devcircle/clubconnect-api/internal/service"
)

type stubAdminService struct {
	stats dto.DashboardStatsResponse
}

func (s stubAdminService) ApproveAlumni(context.Context, service.Actor, dto.AdminTargetRequest) (dto.AccountResponse, error) {
	return dto.AccountResponse{}, nil
}

func (s stubAdminService) RejectAlumni(context.Context, service.Actor, dto.AdminReasonedRequest) (dto.AccountResponse, error) {
	return dto.AccountResponse{}, nil
}

func (s stubAdminService) SuspendUser(context.Context, service.Actor, dto.AdminReasonedRequest) (dto.AccountResponse, error) {
	return dto.AccountResponse{}, nil
}

func (s stubAdminService) BlockUser(context.Context, service.Actor, dto.AdminReasonedRequest) (dto.AccountResponse, error) {
	return dto.AccountResponse{}, nil
}

func (s stubAdminService) PromoteToAdmin(context.Context, service.Actor, dto.AdminTargetRequest) (dto.AccountResponse, error) {
	return dto.AccountResponse{}, nil
}

func (s stubAdminService) ResolveSafetyReport(context.Context, service.Actor, uint, dto.ResolveReportRequest) (dto.SafetyReportResponse, error) {
	return dto.SafetyReportResponse{}, nil
}

func (s stubAdminService) SearchUsers(context.Context, service.Actor, string) (dto.SearchUsersResponse, error) {
	return dto.SearchUsersResponse{}, nil
}

func (s stubAdminService) ListPendingAlumni(context.Context, service.Actor) ([]dto.AccountResponse, error) {
	return nil, nil
}

func (s stubAdminService) DashboardStats(context.Context, service.Actor) (dto.DashboardStatsResponse, error) {
	return s.stats, nil
}

func (s stubAdminService) CreateAnnouncement(context.Context, service.Actor, dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	return dto.AnnouncementResponse{}, nil
}

func (s stubAdminService) ListAnnouncements(context.Context, int, int) (dto.AnnouncementListResponse, error) {
	return dto.AnnouncementListResponse{}, nil
}

func (s stubAdminService) ListAuditLogs(context.Context, service.Actor, repository.AuditLogFilter) (dto.AuditLogListResponse, error) {
	return dto.AuditLogListResponse{}, nil
}

type stubSafetyService struct{}

func (stubSafetyService) Report(context.Context, service.Actor, dto.SafetyReportCreateRequest) (dto.SafetyReportResponse, error) {
	return dto.SafetyReportResponse{}, nil
}

func (stubSafetyService) ListPending(context.Context, service.Actor) ([]dto.SafetyReportResponse, error) {
	return nil, nil
}

func TestAdminDashboardContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "admin_dashboard.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	svc := stubAdminService{stats: dto.DashboardStatsResponse{
		TotalStudents:         120,
		TotalActiveAlumni:     34,
		PendingAlumniApproval: 3,
		SuspendedUsers:        2,
		BlockedUsers:          1,
		PendingSafetyReports:  4,
		GeneratedAt:           time.Now().UTC(),
		CacheHit:              true,
	}}
	adminHandler := handler.NewAdminHandler(svc, stubSafetyService{}, zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/v1/admin", func(c *fiber.Ctx) error {
		c.Locals("actor", service.Actor{ID: 1, Role: models.RoleAdmin, Status: models.StatusActive})
		return c.Next()
	})
	adminHandler.Register(group)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "true", resp.Header.Get("X-Cache-Hit"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
