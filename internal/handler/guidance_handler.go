package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devcircle/clubconnect-api/internal/dto"
	"github.com/devcircle/clubconnect-api/internal/service"
	"github.com/devcircle/clubconnect-api/internal/utils"
)

// GuidanceHandler serves the mentorship request workflow.
type GuidanceHandler struct {
	service service.GuidanceService
	logger  zerolog.Logger
}

// NewGuidanceHandler constructs the handler.
func NewGuidanceHandler(service service.GuidanceService, logger zerolog.Logger) *GuidanceHandler {
	return &GuidanceHandler{
		service: service,
		logger:  logger.With().Str("component", "guidance_handler").Logger(),
	}
}

// Register wires the guidance routes.
func (h *GuidanceHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("/mine", h.listMine)
	router.Get("/inbox", h.inbox)
	router.Post("/:id/accept", h.accept)
	router.Post("/:id/reply", h.reply)
}

func (h *GuidanceHandler) create(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.GuidanceCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	request, err := h.service.Request(c.Context(), actor, payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to create guidance request")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "guidance request created", request)
}

func (h *GuidanceHandler) listMine(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	requests, err := h.service.ListMine(c.Context(), actor)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list guidance requests")
	}
	return utils.SendSuccess(c, "guidance requests retrieved", requests)
}

func (h *GuidanceHandler) inbox(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	requests, err := h.service.FilteredRequests(c.Context(), actor)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list guidance inbox")
	}
	return utils.SendSuccess(c, "guidance inbox retrieved", requests)
}

func (h *GuidanceHandler) accept(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	requestID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	request, err := h.service.Accept(c.Context(), actor, requestID)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to accept guidance request")
	}
	return utils.SendSuccess(c, "guidance request accepted", request)
}

func (h *GuidanceHandler) reply(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	requestID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request id")
	}

	var payload dto.GuidanceReplyRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	request, err := h.service.Reply(c.Context(), actor, requestID, payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to reply to guidance request")
	}
	return utils.SendSuccess(c, "guidance reply recorded", request)
}
