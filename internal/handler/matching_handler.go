package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devcircle/clubconnect-api/internal/service"
	"github.com/devcircle/clubconnect-api/internal/utils"
)

// MatchingHandler serves mentor discovery.
type MatchingHandler struct {
	service service.MatchingService
	logger  zerolog.Logger
}

// NewMatchingHandler constructs the handler.
func NewMatchingHandler(service service.MatchingService, logger zerolog.Logger) *MatchingHandler {
	return &MatchingHandler{
		service: service,
		logger:  logger.With().Str("component", "matching_handler").Logger(),
	}
}

// Register wires the mentor discovery routes.
func (h *MatchingHandler) Register(router fiber.Router) {
	router.Get("/recommendations", h.recommendations)
	router.Get("/available", h.available)
}

func (h *MatchingHandler) recommendations(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	result, err := h.service.RecommendMentors(c.Context(), actor)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to compute recommendations")
	}
	return utils.SendSuccess(c, "recommendations retrieved", result)
}

func (h *MatchingHandler) available(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	result, err := h.service.AvailableMentors(c.Context(), actor)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list available mentors")
	}
	return utils.SendSuccess(c, "available mentors retrieved", result)
}
