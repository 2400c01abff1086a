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

const openReferralLimit = 50

// ReferralService runs the job referral workflow: opted-in alumni post leads,
// students apply once per lead, the creator decides applicants and closes the
// posting.
type ReferralService interface {
	Create(ctx context.Context, actor Actor, req dto.ReferralCreateRequest) (dto.ReferralResponse, error)
	Apply(ctx context.Context, actor Actor, referralID uint) (dto.ReferralResponse, error)
	UpdateApplicant(ctx context.Context, actor Actor, referralID, studentID uint, req dto.ApplicantStatusUpdateRequest) (dto.ReferralResponse, error)
	Close(ctx context.Context, actor Actor, referralID uint) (dto.ReferralResponse, error)
	Get(ctx context.Context, actor Actor, referralID uint) (dto.ReferralResponse, error)
	ListOpen(ctx context.Context, actor Actor) ([]dto.ReferralResponse, error)
	ListCreated(ctx context.Context, actor Actor) ([]dto.ReferralResponse, error)
	ListApplied(ctx context.Context, actor Actor) ([]dto.ReferralResponse, error)
}

type referralService struct {
	referrals  repository.ReferralRepository
	alumniMeta repository.AlumniMetaRepository
	limiter    RateLimiter
	notifier   Notifier
	validator  *validator.Validate
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
}

// NewReferralService constructs the referral workflow service.
func NewReferralService(referrals repository.ReferralRepository, alumniMeta repository.AlumniMetaRepository, limiter RateLimiter, notifier Notifier, validate *validator.Validate, logger zerolog.Logger) ReferralService {
	return &referralService{
		referrals:  referrals,
		alumniMeta: alumniMeta,
		limiter:    limiter,
		notifier:   notifier,
		validator:  validate,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "referral_service").Logger(),
	}
}

// Create posts a referral. Only active alumni who opted into referrals may
// post, and at most once per cooldown window.
func (s *referralService) Create(ctx context.Context, actor Actor, req dto.ReferralCreateRequest) (dto.ReferralResponse, error) {
	if actor.Role != models.RoleAlumni {
		return dto.ReferralResponse{}, ErrForbidden
	}
	if actor.Status != models.StatusActive {
		return dto.ReferralResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.ReferralResponse{}, err
	}

	meta, err := s.alumniMeta.GetByAccount(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReferralResponse{}, ErrForbidden
		}
		return dto.ReferralResponse{}, err
	}
	if !meta.ReferralOptIn {
		return dto.ReferralResponse{}, ErrForbidden
	}

	if err := s.limiter.Check(ctx, actor.ID, ActionReferralRequest); err != nil {
		return dto.ReferralResponse{}, err
	}

	referral := models.Referral{
		CreatedBy:   actor.ID,
		Company:     strings.TrimSpace(s.sanitizer.Sanitize(req.Company)),
		Role:        strings.TrimSpace(s.sanitizer.Sanitize(req.Role)),
		Description: strings.TrimSpace(s.sanitizer.Sanitize(req.Description)),
		Status:      models.ReferralOpen,
	}

	activity := []models.ActivityLog{{
		AccountID: actor.ID,
		Type:      models.ActivityReferralCreated,
		Details:   datatypes.JSONMap{"company": referral.Company, "role": referral.Role},
	}}

	if err := s.referrals.Create(ctx, &referral, activity); err != nil {
		s.logger.Error().Err(err).Uint("alumni_id", actor.ID).Msg("failed to create referral")
		return dto.ReferralResponse{}, err
	}

	if err := s.limiter.Record(ctx, actor.ID, ActionReferralRequest); err != nil {
		s.logger.Warn().Err(err).Uint("alumni_id", actor.ID).Msg("referral cooldown not recorded")
	}
	s.notifier.Notify(ctx, EventReferralPosted, actor.ID, map[string]interface{}{
		"referral_id": referral.ID,
		"company":     referral.Company,
	})
	observability.WorkflowTransitions().WithLabelValues("referral", models.ReferralOpen).Inc()

	return dto.NewReferralResponse(referral), nil
}

// Apply records the calling student's application. Duplicate applications and
// applications against a closed referral fail without consuming the cooldown.
func (s *referralService) Apply(ctx context.Context, actor Actor, referralID uint) (dto.ReferralResponse, error) {
	if actor.Role != models.RoleStudent {
		return dto.ReferralResponse{}, ErrForbidden
	}
	if actor.Status != models.StatusActive {
		return dto.ReferralResponse{}, ErrForbidden
	}
	if err := s.limiter.Check(ctx, actor.ID, ActionReferralApply); err != nil {
		return dto.ReferralResponse{}, err
	}

	logs := func(referral models.Referral, applicant models.ReferralApplicant) []models.ActivityLog {
		return []models.ActivityLog{
			{
				AccountID: actor.ID,
				Type:      models.ActivityReferralApplied,
				Details:   datatypes.JSONMap{"referral_id": referral.ID, "company": referral.Company},
			},
			{
				AccountID: referral.CreatedBy,
				Type:      models.ActivityReferralApplication,
				Details:   datatypes.JSONMap{"referral_id": referral.ID, "student_id": actor.ID},
			},
		}
	}

	if _, err := s.referrals.Apply(ctx, referralID, actor.ID, logs); err != nil {
		switch {
		case repository.IsNotFound(err):
			return dto.ReferralResponse{}, ErrNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return dto.ReferralResponse{}, ErrConflict
		case errors.Is(err, repository.ErrStateConflict):
			return dto.ReferralResponse{}, ErrInvalidState
		default:
			return dto.ReferralResponse{}, err
		}
	}

	if err := s.limiter.Record(ctx, actor.ID, ActionReferralApply); err != nil {
		s.logger.Warn().Err(err).Uint("student_id", actor.ID).Msg("apply cooldown not recorded")
	}

	referral, err := s.referrals.GetByID(ctx, referralID)
	if err != nil {
		return dto.ReferralResponse{}, err
	}

	s.notifier.Notify(ctx, EventReferralApplied, referral.CreatedBy, map[string]interface{}{
		"referral_id": referral.ID,
		"student_id":  actor.ID,
	})
	observability.WorkflowTransitions().WithLabelValues("referral", "applied").Inc()

	return s.redact(referral, actor), nil
}

// UpdateApplicant moves one applicant's status. Only the referral creator may
// decide; accepting one applicant leaves the others pending.
func (s *referralService) UpdateApplicant(ctx context.Context, actor Actor, referralID, studentID uint, req dto.ApplicantStatusUpdateRequest) (dto.ReferralResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ReferralResponse{}, err
	}

	referral, err := s.referrals.GetByID(ctx, referralID)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.ReferralResponse{}, ErrNotFound
		}
		return dto.ReferralResponse{}, err
	}
	if referral.CreatedBy != actor.ID {
		return dto.ReferralResponse{}, ErrForbidden
	}

	logs := func(referral models.Referral) []models.ActivityLog {
		return []models.ActivityLog{{
			AccountID: studentID,
			Type:      models.ActivityReferralStatusUpdated,
			Details:   datatypes.JSONMap{"referral_id": referral.ID, "status": req.Status},
		}}
	}

	if err := s.referrals.UpdateApplicant(ctx, referralID, studentID, req.Status, logs); err != nil {
		if repository.IsNotFound(err) {
			return dto.ReferralResponse{}, ErrNotFound
		}
		return dto.ReferralResponse{}, err
	}

	s.notifier.Notify(ctx, EventReferralDecision, studentID, map[string]interface{}{
		"referral_id": referralID,
		"status":      req.Status,
	})

	updated, err := s.referrals.GetByID(ctx, referralID)
	if err != nil {
		return dto.ReferralResponse{}, err
	}
	return dto.NewReferralResponse(updated), nil
}

// Close ends the referral. Closing twice is an invalid transition, not an
// idempotent no-op, so callers learn they lost a race.
func (s *referralService) Close(ctx context.Context, actor Actor, referralID uint) (dto.ReferralResponse, error) {
	current, err := s.referrals.GetByID(ctx, referralID)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.ReferralResponse{}, ErrNotFound
		}
		return dto.ReferralResponse{}, err
	}
	if current.CreatedBy != actor.ID {
		return dto.ReferralResponse{}, ErrForbidden
	}

	logs := func(referral models.Referral) []models.ActivityLog {
		return []models.ActivityLog{{
			AccountID: referral.CreatedBy,
			Type:      models.ActivityReferralClosed,
			Details:   datatypes.JSONMap{"referral_id": referral.ID},
		}}
	}

	referral, err := s.referrals.Close(ctx, referralID, logs)
	if err != nil {
		switch {
		case repository.IsNotFound(err):
			return dto.ReferralResponse{}, ErrNotFound
		case errors.Is(err, repository.ErrStateConflict):
			return dto.ReferralResponse{}, ErrInvalidState
		default:
			return dto.ReferralResponse{}, err
		}
	}

	observability.WorkflowTransitions().WithLabelValues("referral", models.ReferralClosed).Inc()
	return dto.NewReferralResponse(referral), nil
}

func (s *referralService) Get(ctx context.Context, actor Actor, referralID uint) (dto.ReferralResponse, error) {
	referral, err := s.referrals.GetByID(ctx, referralID)
	if err != nil {
		if repository.IsNotFound(err) {
			return dto.ReferralResponse{}, ErrNotFound
		}
		return dto.ReferralResponse{}, err
	}
	return s.redact(referral, actor), nil
}

func (s *referralService) ListOpen(ctx context.Context, actor Actor) ([]dto.ReferralResponse, error) {
	referrals, err := s.referrals.ListOpen(ctx, openReferralLimit)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.ReferralResponse, 0, len(referrals))
	for _, referral := range referrals {
		responses = append(responses, s.redact(referral, actor))
	}
	return responses, nil
}

func (s *referralService) ListCreated(ctx context.Context, actor Actor) ([]dto.ReferralResponse, error) {
	if actor.Role != models.RoleAlumni && actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	referrals, err := s.referrals.ListCreatedBy(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.ReferralResponse, 0, len(referrals))
	for _, referral := range referrals {
		responses = append(responses, dto.NewReferralResponse(referral))
	}
	return responses, nil
}

// ListApplied returns the referrals the student has applied to, each annotated
// with the caller's own application status.
func (s *referralService) ListApplied(ctx context.Context, actor Actor) ([]dto.ReferralResponse, error) {
	if actor.Role != models.RoleStudent {
		return nil, ErrForbidden
	}
	referrals, err := s.referrals.ListAppliedBy(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.ReferralResponse, 0, len(referrals))
	for _, referral := range referrals {
		response := dto.NewReferralResponse(referral)
		for _, applicant := range referral.Applicants {
			if applicant.StudentID == actor.ID {
				response.MyApplicationStatus = applicant.Status
			}
		}
		response.Applicants = nil
		responses = append(responses, response)
	}
	return responses, nil
}

// redact hides the full applicant list from everyone except the creator and
// admins. Students still see their own application status.
func (s *referralService) redact(referral models.Referral, actor Actor) dto.ReferralResponse {
	response := dto.NewReferralResponse(referral)
	if referral.CreatedBy == actor.ID || actor.Role == models.RoleAdmin {
		return response
	}
	for _, applicant := range referral.Applicants {
		if applicant.StudentID == actor.ID {
			response.MyApplicationStatus = applicant.Status
		}
	}
	response.Applicants = nil
	return response
}
