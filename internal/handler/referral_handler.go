package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/devcircle/clubconnect-api/internal/dto"
	"github.com/devcircle/clubconnect-api/internal/service"
	"github.com/devcircle/clubconnect-api/internal/utils"
)

// ReferralHandler serves the job referral workflow.
type ReferralHandler struct {
	service service.ReferralService
	logger  zerolog.Logger
}

// NewReferralHandler constructs the handler.
func NewReferralHandler(service service.ReferralService, logger zerolog.Logger) *ReferralHandler {
	return &ReferralHandler{
		service: service,
		logger:  logger.With().Str("component", "referral_handler").Logger(),
	}
}

// Register wires the referral routes.
func (h *ReferralHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.listOpen)
	router.Get("/mine", h.listCreated)
	router.Get("/applied", h.listApplied)
	router.Get("/:id", h.get)
	router.Post("/:id/apply", h.apply)
	router.Patch("/:id/applicants/:studentID", h.updateApplicant)
	router.Post("/:id/close", h.close)
}

func (h *ReferralHandler) create(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.ReferralCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	referral, err := h.service.Create(c.Context(), actor, payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to create referral")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "referral posted", referral)
}

func (h *ReferralHandler) listOpen(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	referrals, err := h.service.ListOpen(c.Context(), actor)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list referrals")
	}
	return utils.SendSuccess(c, "referrals retrieved", referrals)
}

func (h *ReferralHandler) listCreated(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	referrals, err := h.service.ListCreated(c.Context(), actor)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list posted referrals")
	}
	return utils.SendSuccess(c, "posted referrals retrieved", referrals)
}

func (h *ReferralHandler) listApplied(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	referrals, err := h.service.ListApplied(c.Context(), actor)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to list applications")
	}
	return utils.SendSuccess(c, "applications retrieved", referrals)
}

func (h *ReferralHandler) get(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	referralID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid referral id")
	}

	referral, err := h.service.Get(c.Context(), actor, referralID)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to load referral")
	}
	return utils.SendSuccess(c, "referral retrieved", referral)
}

func (h *ReferralHandler) apply(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	referralID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid referral id")
	}

	referral, err := h.service.Apply(c.Context(), actor, referralID)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to apply to referral")
	}
	return utils.SendSuccess(c, "application submitted", referral)
}

func (h *ReferralHandler) updateApplicant(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	referralID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid referral id")
	}
	studentID, err := parseUintParam(c, "studentID")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	var payload dto.ApplicantStatusUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	referral, err := h.service.UpdateApplicant(c.Context(), actor, referralID, studentID, payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to update applicant")
	}
	return utils.SendSuccess(c, "applicant updated", referral)
}

func (h *ReferralHandler) close(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	referralID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid referral id")
	}

	referral, err := h.service.Close(c.Context(), actor, referralID)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "failed to close referral")
	}
	return utils.SendSuccess(c, "referral closed", referral)
}
