package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devcircle/clubconnect-api/internal/dto"
	"github.com/devcircle/clubconnect-api/internal/service"
	"github.com/devcircle/clubconnect-api/internal/utils"
)

// AccountHandler serves registration, the caller's own account view, alumni
// settings and the per-account activity history.
type AccountHandler struct {
	identity service.IdentityService
	activity service.ActivityService
	logger   zerolog.Logger
}

// NewAccountHandler constructs the handler.
func NewAccountHandler(identity service.IdentityService, activity service.ActivityService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		identity: identity,
		activity: activity,
		logger:   logger.With().Str("component", "account_handler").Logger(),
	}
}

// RegisterPublic wires the unauthenticated registration routes.
func (h *AccountHandler) RegisterPublic(router fiber.Router) {
	router.Post("/register/student", h.registerStudent)
	router.Post("/register/alumni", h.registerAlumni)
}

// Register wires the authenticated account routes.
func (h *AccountHandler) Register(router fiber.Router) {
	router.Get("/me", h.me)
	router.Patch("/alumni/settings", h.updateAlumniSettings)
	router.Get("/accounts/:id/activity", h.listActivity)
}

func (h *AccountHandler) registerStudent(c *fiber.Ctx) error {
	var payload dto.RegisterStudentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	account, err := h.identity.RegisterStudent(c.Context(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to register student")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student registered", account)
}

func (h *AccountHandler) registerAlumni(c *fiber.Ctx) error {
	var payload dto.RegisterAlumniRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	account, err := h.identity.RegisterAlumni(c.Context(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to register alumni")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "alumni application submitted", account)
}

func (h *AccountHandler) me(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	account, err := h.identity.GetAccount(c.Context(), actor.ID)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to load account")
	}
	return utils.SendSuccess(c, "account retrieved", account)
}

func (h *AccountHandler) updateAlumniSettings(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.AlumniSettingsUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	settings, err := h.identity.UpdateAlumniSettings(c.Context(), actor, payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update settings")
	}
	return utils.SendSuccess(c, "settings updated", settings)
}

func (h *AccountHandler) listActivity(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	accountID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid account id")
	}
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	history, err := h.activity.ListForAccount(c.Context(), actor, accountID, page, pageSize)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list activity")
	}
	return utils.SendSuccess(c, "activity retrieved", history)
}
