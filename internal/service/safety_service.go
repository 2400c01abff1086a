package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/dto"
	"github.com/devcircle/clubconnect-api/internal/models"
	"github.com/devcircle/clubconnect-api/internal/repository"
)

const pendingReportLimit = 50

// SafetyService takes in concern reports about students. Resolution lives on
// the admin service so the cascade stays transactional.
type SafetyService interface {
	Report(ctx context.Context, actor Actor, req dto.SafetyReportCreateRequest) (dto.SafetyReportResponse, error)
	ListPending(ctx context.Context, actor Actor) ([]dto.SafetyReportResponse, error)
}

type safetyService struct {
	reports   repository.SafetyReportRepository
	accounts  repository.AccountRepository
	guidance  repository.GuidanceRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewSafetyService constructs the safety reporting service.
func NewSafetyService(reports repository.SafetyReportRepository, accounts repository.AccountRepository, guidance repository.GuidanceRepository, validate *validator.Validate, logger zerolog.Logger) SafetyService {
	return &safetyService{
		reports:   reports,
		accounts:  accounts,
		guidance:  guidance,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "safety_service").Logger(),
	}
}

// Report files a concern about a student. Only active alumni and admins may
// report; the referenced student and guidance request must exist.
func (s *safetyService) Report(ctx context.Context, actor Actor, req dto.SafetyReportCreateRequest) (dto.SafetyReportResponse, error) {
	if actor.Role != models.RoleAlumni && actor.Role != models.RoleAdmin {
		return dto.SafetyReportResponse{}, ErrForbidden
	}
	if actor.Status != models.StatusActive {
		return dto.SafetyReportResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.SafetyReportResponse{}, err
	}

	student, err := s.accounts.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SafetyReportResponse{}, ErrNotFound
		}
		return dto.SafetyReportResponse{}, err
	}
	if student.Role != models.RoleStudent {
		return dto.SafetyReportResponse{}, ErrInvalidArgument
	}

	if req.GuidanceRequestID != nil {
		if _, err := s.guidance.GetByID(ctx, *req.GuidanceRequestID); err != nil {
			if repository.IsNotFound(err) {
				return dto.SafetyReportResponse{}, ErrNotFound
			}
			return dto.SafetyReportResponse{}, err
		}
	}

	report := models.SafetyReport{
		ReporterID:        actor.ID,
		StudentID:         req.StudentID,
		Reason:            strings.TrimSpace(s.sanitizer.Sanitize(req.Reason)),
		GuidanceRequestID: req.GuidanceRequestID,
		Status:            models.ReportPending,
		AdminAction:       models.ReportActionNone,
		TenantID:          tenantOrDefault(req.TenantID),
	}

	if err := s.reports.Create(ctx, &report); err != nil {
		s.logger.Error().Err(err).Uint("reporter_id", actor.ID).Msg("failed to create safety report")
		return dto.SafetyReportResponse{}, err
	}
	return dto.NewSafetyReportResponse(report), nil
}

func (s *safetyService) ListPending(ctx context.Context, actor Actor) ([]dto.SafetyReportResponse, error) {
	if actor.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	reports, err := s.reports.ListPending(ctx, pendingReportLimit)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.SafetyReportResponse, 0, len(reports))
	for _, report := range reports {
		responses = append(responses, dto.NewSafetyReportResponse(report))
	}
	return responses, nil
}
