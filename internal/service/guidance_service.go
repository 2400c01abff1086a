package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/dto"
	"github.com/devcircle/clubconnect-api/internal/models"
	"github.com/devcircle/clubconnect-api/internal/observability"
	"github.com/devcircle/clubconnect-api/internal/repository"
)

const openPoolLimit = 50

// GuidanceService runs the mentorship request workflow: students raise
// requests, alumni claim and answer them. All transitions are decided inside
// repository transactions; the service layer owns authorization, sanitization
// and the cooldown.
type GuidanceService interface {
	Request(ctx context.Context, actor Actor, req dto.GuidanceCreateRequest) (dto.GuidanceResponse, error)
	Accept(ctx context.Context, actor Actor, requestID uint) (dto.GuidanceResponse, error)
	Reply(ctx context.Context, actor Actor, requestID uint, req dto.GuidanceReplyRequest) (dto.GuidanceResponse, error)
	ListMine(ctx context.Context, actor Actor) ([]dto.GuidanceResponse, error)
	FilteredRequests(ctx context.Context, actor Actor) ([]dto.FilteredGuidanceResponse, error)
}

type guidanceService struct {
	guidance   repository.GuidanceRepository
	accounts   repository.AccountRepository
	alumniMeta repository.AlumniMetaRepository
	limiter    RateLimiter
	notifier   Notifier
	validator  *validator.Validate
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
}

// NewGuidanceService constructs the guidance workflow service.
func NewGuidanceService(guidance repository.GuidanceRepository, accounts repository.AccountRepository, alumniMeta repository.AlumniMetaRepository, limiter RateLimiter, notifier Notifier, validate *validator.Validate, logger zerolog.Logger) GuidanceService {
	return &guidanceService{
		guidance:   guidance,
		accounts:   accounts,
		alumniMeta: alumniMeta,
		limiter:    limiter,
		notifier:   notifier,
		validator:  validate,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "guidance_service").Logger(),
	}
}

// Request creates a guidance request for the calling student. The cooldown is
// checked up front but only recorded after the insert commits, so validation
// failures never burn the caller's window.
func (s *guidanceService) Request(ctx context.Context, actor Actor, req dto.GuidanceCreateRequest) (dto.GuidanceResponse, error) {
	if actor.Role != models.RoleStudent {
		return dto.GuidanceResponse{}, ErrForbidden
	}
	if actor.Status != models.StatusActive {
		return dto.GuidanceResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.GuidanceResponse{}, err
	}

	requestType := req.Type
	if requestType == "" {
		requestType = models.GuidanceTypeMentorship
	}

	// Referral-type asks run on the long referral window, not the short
	// mentorship one.
	cooldownAction := ActionGuidanceRequest
	if requestType == models.GuidanceTypeReferral {
		cooldownAction = ActionReferralRequest
	}
	if err := s.limiter.Check(ctx, actor.ID, cooldownAction); err != nil {
		return dto.GuidanceResponse{}, err
	}

	if req.MentorID != nil {
		if err := s.verifyMentorEligible(ctx, *req.MentorID); err != nil {
			return dto.GuidanceResponse{}, err
		}
	}

	request := models.GuidanceRequest{
		StudentID: actor.ID,
		MentorID:  req.MentorID,
		Topic:     strings.TrimSpace(s.sanitizer.Sanitize(req.Topic)),
		Message:   strings.TrimSpace(s.sanitizer.Sanitize(req.Message)),
		Type:      requestType,
		Status:    models.GuidancePending,
		TenantID:  tenantOrDefault(req.TenantID),
	}

	activity := []models.ActivityLog{{
		AccountID: actor.ID,
		Type:      models.ActivityGuidanceRequested,
		Details:   datatypes.JSONMap{"topic": request.Topic, "type": request.Type},
	}}

	if err := s.guidance.Create(ctx, &request, activity); err != nil {
		s.logger.Error().Err(err).Uint("student_id", actor.ID).Msg("failed to create guidance request")
		return dto.GuidanceResponse{}, err
	}

	if err := s.limiter.Record(ctx, actor.ID, cooldownAction); err != nil {
		s.logger.Warn().Err(err).Uint("student_id", actor.ID).Msg("guidance cooldown not recorded")
	}
	s.notifier.Notify(ctx, EventGuidanceRequested, actor.ID, map[string]interface{}{
		"request_id": request.ID,
		"topic":      request.Topic,
	})
	observability.WorkflowTransitions().WithLabelValues("guidance", models.GuidancePending).Inc()

	return dto.NewGuidanceResponse(request), nil
}

// Accept claims a pending request for the calling mentor. Losing a concurrent
// claim surfaces as ErrInvalidState, same as accepting from any other
// non-pending state.
func (s *guidanceService) Accept(ctx context.Context, actor Actor, requestID uint) (dto.GuidanceResponse, error) {
	if actor.Role != models.RoleAlumni {
		return dto.GuidanceResponse{}, ErrForbidden
	}
	if actor.Status != models.StatusActive {
		return dto.GuidanceResponse{}, ErrForbidden
	}

	logs := func(request models.GuidanceRequest) []models.ActivityLog {
		return []models.ActivityLog{
			{
				AccountID: request.StudentID,
				Type:      models.ActivityGuidanceAccepted,
				Details:   datatypes.JSONMap{"request_id": request.ID, "mentor_id": actor.ID},
			},
			{
				AccountID: actor.ID,
				Type:      models.ActivityGuidanceAccepted,
				Details:   datatypes.JSONMap{"request_id": request.ID, "role": "mentor"},
			},
		}
	}

	request, err := s.guidance.Accept(ctx, requestID, actor.ID, logs)
	if err != nil {
		switch {
		case repository.IsNotFound(err):
			return dto.GuidanceResponse{}, ErrNotFound
		case errors.Is(err, repository.ErrStateConflict):
			return dto.GuidanceResponse{}, ErrInvalidState
		default:
			return dto.GuidanceResponse{}, err
		}
	}

	s.notifier.Notify(ctx, EventGuidanceAccepted, request.StudentID, map[string]interface{}{
		"request_id": request.ID,
		"mentor_id":  actor.ID,
	})
	observability.WorkflowTransitions().WithLabelValues("guidance", models.GuidanceAccepted).Inc()

	return dto.NewGuidanceResponse(request), nil
}

// Reply answers an accepted request. Only the assigned mentor or an admin may
// respond; completed requests stay closed.
func (s *guidanceService) Reply(ctx context.Context, actor Actor, requestID uint, req dto.GuidanceReplyRequest) (dto.GuidanceResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.GuidanceResponse{}, err
	}

	current, err := s.guidance.GetByID(ctx, requestID)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.GuidanceResponse{}, ErrNotFound
		}
		return dto.GuidanceResponse{}, err
	}

	if actor.Role != models.RoleAdmin {
		if current.MentorID == nil || *current.MentorID != actor.ID {
			return dto.GuidanceResponse{}, ErrForbidden
		}
		if actor.Status != models.StatusActive {
			return dto.GuidanceResponse{}, ErrForbidden
		}
	}

	status := req.Status
	if status == "" {
		status = models.GuidanceCompleted
	}

	logs := func(request models.GuidanceRequest) []models.ActivityLog {
		return []models.ActivityLog{
			{
				AccountID: request.StudentID,
				Type:      models.ActivityGuidanceReplied,
				Details:   datatypes.JSONMap{"request_id": request.ID, "status": request.Status},
			},
			{
				AccountID: actor.ID,
				Type:      models.ActivityGuidanceReplied,
				Details:   datatypes.JSONMap{"request_id": request.ID, "role": "responder"},
			},
		}
	}

	response := strings.TrimSpace(s.sanitizer.Sanitize(req.Response))
	request, err := s.guidance.Reply(ctx, requestID, actor.ID, response, status, logs)
	if err != nil {
		switch {
		case repository.IsNotFound(err):
			return dto.GuidanceResponse{}, ErrNotFound
		case errors.Is(err, repository.ErrStateConflict):
			return dto.GuidanceResponse{}, ErrInvalidState
		default:
			return dto.GuidanceResponse{}, err
		}
	}

	s.notifier.Notify(ctx, EventGuidanceReplied, request.StudentID, map[string]interface{}{
		"request_id": request.ID,
		"status":     request.Status,
	})
	observability.WorkflowTransitions().WithLabelValues("guidance", request.Status).Inc()

	return dto.NewGuidanceResponse(request), nil
}

func (s *guidanceService) ListMine(ctx context.Context, actor Actor) ([]dto.GuidanceResponse, error) {
	if actor.Role != models.RoleStudent {
		return nil, ErrForbidden
	}
	requests, err := s.guidance.ListForStudent(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.GuidanceResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, dto.NewGuidanceResponse(request))
	}
	return responses, nil
}

// FilteredRequests builds the alumni inbox: requests already assigned to the
// caller plus the open pool, each open entry annotated with whether its text
// mentions one of the caller's expertise areas. Requests claimed by other
// mentors never appear.
func (s *guidanceService) FilteredRequests(ctx context.Context, actor Actor) ([]dto.FilteredGuidanceResponse, error) {
	if actor.Role != models.RoleAlumni {
		return nil, ErrForbidden
	}
	if actor.Status != models.StatusActive {
		return nil, ErrForbidden
	}

	var expertise []string
	meta, err := s.alumniMeta.GetByAccount(ctx, actor.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	expertise = normalizeList(meta.Expertise)

	assigned, err := s.guidance.ListAssigned(ctx, actor.ID, nil)
	if err != nil {
		return nil, err
	}
	open, err := s.guidance.ListOpenPending(ctx, openPoolLimit)
	if err != nil {
		return nil, err
	}

	results := make([]dto.FilteredGuidanceResponse, 0, len(assigned)+len(open))
	for _, request := range assigned {
		results = append(results, dto.FilteredGuidanceResponse{
			GuidanceResponse: dto.NewGuidanceResponse(request),
			Source:           dto.GuidanceSourceAssigned,
			ExpertiseMatch:   matchesExpertise(request, expertise),
		})
	}
	for _, request := range open {
		results = append(results, dto.FilteredGuidanceResponse{
			GuidanceResponse: dto.NewGuidanceResponse(request),
			Source:           dto.GuidanceSourceOpen,
			ExpertiseMatch:   matchesExpertise(request, expertise),
		})
	}
	return results, nil
}

func (s *guidanceService) verifyMentorEligible(ctx context.Context, mentorID uint) error {
	account, err := s.accounts.GetByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if account.Role != models.RoleAlumni || account.Status != models.StatusActive {
		return ErrInvalidState
	}

	meta, err := s.alumniMeta.GetByAccount(ctx, mentorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidState
		}
		return err
	}
	if !meta.MentorOptIn {
		return ErrInvalidState
	}
	return nil
}

func matchesExpertise(request models.GuidanceRequest, expertise []string) bool {
	if len(expertise) == 0 {
		return false
	}
	text := strings.ToLower(request.Topic + " " + request.Message)
	for _, area := range expertise {
		if area == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(area)) {
			return true
		}
	}
	return false
}
