package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devcircle/clubconnect-api/internal/dto"
	"github.com/devcircle/clubconnect-api/internal/repository"
	"github.com/devcircle/clubconnect-api/internal/service"
	"github.com/devcircle/clubconnect-api/internal/utils"
)

// AdminHandler serves the moderation and platform management console.
type AdminHandler struct {
	admin  service.AdminService
	safety service.SafetyService
	logger zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(admin service.AdminService, safety service.SafetyService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		safety: safety,
		logger: logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register wires the admin routes. The router group must already enforce the
// admin role.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Post("/alumni/approve", h.approveAlumni)
	router.Post("/alumni/reject", h.rejectAlumni)
	router.Get("/alumni/pending", h.listPendingAlumni)
	router.Post("/users/suspend", h.suspendUser)
	router.Post("/users/block", h.blockUser)
	router.Post("/users/promote", h.promoteToAdmin)
	router.Get("/users/search", h.searchUsers)
	router.Get("/reports/pending", h.listPendingReports)
	router.Post("/reports/:id/resolve", h.resolveReport)
	router.Get("/dashboard", h.dashboard)
	router.Post("/announcements", h.createAnnouncement)
	router.Get("/audit-logs", h.listAuditLogs)
}

func (h *AdminHandler) approveAlumni(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.AdminTargetRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	account, err := h.admin.ApproveAlumni(c.Context(), actor, payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to approve alumni")
	}
	return utils.SendSuccess(c, "alumni approved", account)
}

func (h *AdminHandler) rejectAlumni(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.AdminReasonedRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	account, err := h.admin.RejectAlumni(c.Context(), actor, payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to reject alumni")
	}
	return utils.SendSuccess(c, "alumni application rejected", account)
}

func (h *AdminHandler) listPendingAlumni(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	accounts, err := h.admin.ListPendingAlumni(c.Context(), actor)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list pending alumni")
	}
	return utils.SendSuccess(c, "pending alumni retrieved", accounts)
}

func (h *AdminHandler) suspendUser(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.AdminReasonedRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	account, err := h.admin.SuspendUser(c.Context(), actor, payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to suspend user")
	}
	return utils.SendSuccess(c, "user suspended", account)
}

func (h *AdminHandler) blockUser(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.AdminReasonedRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	account, err := h.admin.BlockUser(c.Context(), actor, payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to block user")
	}
	return utils.SendSuccess(c, "user blocked", account)
}

func (h *AdminHandler) promoteToAdmin(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.AdminTargetRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	account, err := h.admin.PromoteToAdmin(c.Context(), actor, payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to promote user")
	}
	return utils.SendSuccess(c, "user promoted", account)
}

func (h *AdminHandler) searchUsers(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	result, err := h.admin.SearchUsers(c.Context(), actor, c.Query("q"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to search users")
	}
	return utils.SendSuccess(c, "users retrieved", result)
}

func (h *AdminHandler) listPendingReports(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	reports, err := h.safety.ListPending(c.Context(), actor)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list pending reports")
	}
	return utils.SendSuccess(c, "pending reports retrieved", reports)
}

func (h *AdminHandler) resolveReport(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	reportID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid report id")
	}

	var payload dto.ResolveReportRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	report, err := h.admin.ResolveSafetyReport(c.Context(), actor, reportID, payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to resolve report")
	}
	return utils.SendSuccess(c, "report resolved", report)
}

func (h *AdminHandler) dashboard(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	stats, err := h.admin.DashboardStats(c.Context(), actor)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to load dashboard")
	}

	if stats.CacheHit {
		c.Set("X-Cache-Hit", "true")
	} else {
		c.Set("X-Cache-Hit", "false")
	}
	return utils.SendSuccess(c, "dashboard retrieved", stats)
}

func (h *AdminHandler) createAnnouncement(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.AnnouncementCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	announcement, err := h.admin.CreateAnnouncement(c.Context(), actor, payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to create announcement")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "announcement published", announcement)
}

func (h *AdminHandler) listAuditLogs(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	filter := repository.AuditLogFilter{
		Page:     page,
		PageSize: pageSize,
		Action:   strings.TrimSpace(c.Query("action")),
	}
	if actorID, err := parseQueryInt(c, "actorId"); err == nil && actorID > 0 {
		id := uint(actorID)
		filter.ActorID = &id
	}

	logs, err := h.admin.ListAuditLogs(c.Context(), actor, filter)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list audit logs")
	}
	return utils.SendSuccess(c, "audit logs retrieved", logs)
}
