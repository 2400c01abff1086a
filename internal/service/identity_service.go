package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/dto"
	"github.com/devcircle/clubconnect-api/internal/models"
	"github.com/devcircle/clubconnect-api/internal/repository"
)

// IdentityService is the single authorization oracle. Every component reads
// role and status through it; nothing infers them from cached or duplicated
// fields.
type IdentityService interface {
	GetAccount(ctx context.Context, id uint) (dto.AccountResponse, error)
	GetActor(ctx context.Context, id uint) (Actor, error)
	IsActive(ctx context.Context, id uint) (bool, error)
	RegisterStudent(ctx context.Context, req dto.RegisterStudentRequest) (dto.AccountResponse, error)
	RegisterAlumni(ctx context.Context, req dto.RegisterAlumniRequest) (dto.AccountResponse, error)
	UpdateAlumniSettings(ctx context.Context, actor Actor, req dto.AlumniSettingsUpdateRequest) (dto.AlumniSettingsResponse, error)
}

type identityService struct {
	accounts    repository.AccountRepository
	alumniMeta  repository.AlumniMetaRepository
	validator   *validator.Validate
	adminEmails map[string]struct{}
	logger      zerolog.Logger
}

// NewIdentityService constructs the identity service. adminEmails is the
// bootstrap list resolved at account creation time only; it never acts as a
// runtime authorization source.
func NewIdentityService(accounts repository.AccountRepository, alumniMeta repository.AlumniMetaRepository, validate *validator.Validate, adminEmails []string, logger zerolog.Logger) IdentityService {
	bootstrap := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		normalized := strings.ToLower(strings.TrimSpace(email))
		if normalized != "" {
			bootstrap[normalized] = struct{}{}
		}
	}

	return &identityService{
		accounts:    accounts,
		alumniMeta:  alumniMeta,
		validator:   validate,
		adminEmails: bootstrap,
		logger:      logger.With().Str("component", "identity_service").Logger(),
	}
}

func (s *identityService) GetAccount(ctx context.Context, id uint) (dto.AccountResponse, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AccountResponse{}, ErrNotFound
		}
		return dto.AccountResponse{}, err
	}
	return dto.NewAccountResponse(account), nil
}

func (s *identityService) GetActor(ctx context.Context, id uint) (Actor, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Actor{}, ErrNotFound
		}
		return Actor{}, err
	}
	return Actor{ID: account.ID, Role: account.Role, Status: account.Status}, nil
}

func (s *identityService) IsActive(ctx context.Context, id uint) (bool, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	return account.IsActive(), nil
}

func (s *identityService) RegisterStudent(ctx context.Context, req dto.RegisterStudentRequest) (dto.AccountResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AccountResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := models.RoleStudent
	if s.isBootstrapAdmin(email) {
		role = models.RoleAdmin
	}

	account := models.Account{
		Email:    email,
		Role:     role,
		Status:   models.StatusActive,
		TenantID: tenantOrDefault(req.TenantID),
	}
	profile := models.Profile{
		DisplayName: strings.TrimSpace(req.DisplayName),
		Bio:         strings.TrimSpace(req.Bio),
		Skills:      datatypes.NewJSONSlice(normalizeList(req.Skills)),
	}

	if err := s.accounts.Register(ctx, &account, &profile, nil); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.AccountResponse{}, ErrConflict
		}
		s.logger.Error().Err(err).Msg("student registration failed")
		return dto.AccountResponse{}, err
	}

	return dto.NewAccountResponse(account), nil
}

func (s *identityService) RegisterAlumni(ctx context.Context, req dto.RegisterAlumniRequest) (dto.AccountResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AccountResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := models.RoleAlumni
	status := models.StatusPending
	if s.isBootstrapAdmin(email) {
		role = models.RoleAdmin
		status = models.StatusActive
	}

	account := models.Account{
		Email:    email,
		Role:     role,
		Status:   status,
		TenantID: tenantOrDefault(req.TenantID),
	}
	profile := models.Profile{
		DisplayName: strings.TrimSpace(req.DisplayName),
		Bio:         strings.TrimSpace(req.Bio),
		Company:     strings.TrimSpace(req.Company),
		Title:       strings.TrimSpace(req.Title),
	}
	meta := models.AlumniMeta{
		MentorOptIn:   req.MentorOptIn,
		ReferralOptIn: req.ReferralOptIn,
		Expertise:     datatypes.NewJSONSlice(normalizeList(req.Expertise)),
		GradYear:      req.GradYear,
	}

	if err := s.accounts.Register(ctx, &account, &profile, &meta); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return dto.AccountResponse{}, ErrConflict
		}
		s.logger.Error().Err(err).Msg("alumni registration failed")
		return dto.AccountResponse{}, err
	}

	return dto.NewAccountResponse(account), nil
}

// UpdateAlumniSettings mutates the opt-in flags on AlumniMeta. The toggles
// are only mutable while the owning account is active.
func (s *identityService) UpdateAlumniSettings(ctx context.Context, actor Actor, req dto.AlumniSettingsUpdateRequest) (dto.AlumniSettingsResponse, error) {
	if actor.Role != models.RoleAlumni {
		return dto.AlumniSettingsResponse{}, ErrForbidden
	}
	if actor.Status != models.StatusActive {
		return dto.AlumniSettingsResponse{}, ErrInvalidState
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.AlumniSettingsResponse{}, err
	}

	updates := make(map[string]interface{})
	changed := make([]string, 0, 3)
	if req.MentorOptIn != nil {
		updates["mentor_opt_in"] = *req.MentorOptIn
		changed = append(changed, "mentor_opt_in")
	}
	if req.ReferralOptIn != nil {
		updates["referral_opt_in"] = *req.ReferralOptIn
		changed = append(changed, "referral_opt_in")
	}
	if req.Expertise != nil {
		updates["expertise"] = datatypes.NewJSONSlice(normalizeList(req.Expertise))
		changed = append(changed, "expertise")
	}

	var activity []models.ActivityLog
	if len(changed) > 0 {
		activity = append(activity, models.ActivityLog{
			AccountID: actor.ID,
			Type:      models.ActivitySettingsChanged,
			Details:   datatypes.JSONMap{"fields": changed},
		})
	}

	meta, err := s.alumniMeta.UpdateSettings(ctx, actor.ID, updates, activity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AlumniSettingsResponse{}, ErrNotFound
		}
		return dto.AlumniSettingsResponse{}, err
	}

	if req.MentorOptIn != nil {
		meta.MentorOptIn = *req.MentorOptIn
	}
	if req.ReferralOptIn != nil {
		meta.ReferralOptIn = *req.ReferralOptIn
	}
	if req.Expertise != nil {
		meta.Expertise = datatypes.NewJSONSlice(normalizeList(req.Expertise))
	}

	return dto.NewAlumniSettingsResponse(meta), nil
}

func (s *identityService) isBootstrapAdmin(email string) bool {
	_, ok := s.adminEmails[email]
	return ok
}

func tenantOrDefault(tenantID string) string {
	tenant := strings.TrimSpace(tenantID)
	if tenant == "" {
		return "default"
	}
	return tenant
}

func normalizeList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
