package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devcircle/clubconnect-api/internal/dto"
	"github.com/devcircle/clubconnect-api/internal/service"
	"github.com/devcircle/clubconnect-api/internal/utils"
)

// SafetyHandler takes in concern reports about students.
type SafetyHandler struct {
	service service.SafetyService
	logger  zerolog.Logger
}

// NewSafetyHandler constructs the handler.
func NewSafetyHandler(service service.SafetyService, logger zerolog.Logger) *SafetyHandler {
	return &SafetyHandler{
		service: service,
		logger:  logger.With().Str("component", "safety_handler").Logger(),
	}
}

// Register wires the safety report routes.
func (h *SafetyHandler) Register(router fiber.Router) {
	router.Post("/reports", h.report)
}

func (h *SafetyHandler) report(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.SafetyReportCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	report, err := h.service.Report(c.Context(), actor, payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to file safety report")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "safety report filed", report)
}
