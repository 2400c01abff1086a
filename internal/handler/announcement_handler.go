package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devcircle/clubconnect-api/internal/service"
	"github.com/devcircle/clubconnect-api/internal/utils"
)

// AnnouncementHandler serves the read side of admin broadcasts.
type AnnouncementHandler struct {
	admin  service.AdminService
	logger zerolog.Logger
}

// NewAnnouncementHandler constructs the handler.
func NewAnnouncementHandler(admin service.AdminService, logger zerolog.Logger) *AnnouncementHandler {
	return &AnnouncementHandler{
		admin:  admin,
		logger: logger.With().Str("component", "announcement_handler").Logger(),
	}
}

// Register wires the announcement routes.
func (h *AnnouncementHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *AnnouncementHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	if page <= 0 {
		page = 1
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	result, err := h.admin.ListAnnouncements(c.Context(), page, pageSize)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list announcements")
	}
	return utils.SendSuccess(c, "announcements retrieved", result)
}
