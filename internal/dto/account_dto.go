package dto

import (
	"time"

	"github.com/devcircle/clubconnect-api/internal/models"
)

// RegisterStudentRequest captures a student self-registration payload.
type RegisterStudentRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	DisplayName string   `json:"display_name" validate:"required,min=2,max=50"`
	Bio         string   `json:"bio" validate:"omitempty,max=500"`
	Skills      []string `json:"skills" validate:"omitempty,max=15,dive,min=1"`
	TenantID    string   `json:"tenant_id" validate:"omitempty,max=64"`
}

// RegisterAlumniRequest captures an alumni application payload. The account
// starts pending until an admin approves it.
type RegisterAlumniRequest struct {
	Email         string   `json:"email" validate:"required,email"`
	DisplayName   string   `json:"display_name" validate:"required,min=2,max=50"`
	Company       string   `json:"company" validate:"required,min=2,max=100"`
	Title         string   `json:"title" validate:"required,min=2,max=100"`
	GradYear      int      `json:"grad_year" validate:"required,min=1980,max=2030"`
	Expertise     []string `json:"expertise" validate:"required,min=1,max=10,dive,min=1"`
	Bio           string   `json:"bio" validate:"omitempty,max=500"`
	MentorOptIn   bool     `json:"mentor_opt_in"`
	ReferralOptIn bool     `json:"referral_opt_in"`
	TenantID      string   `json:"tenant_id" validate:"omitempty,max=64"`
}

// AlumniSettingsUpdateRequest toggles the alumni opt-in flags and expertise.
type AlumniSettingsUpdateRequest struct {
	MentorOptIn   *bool    `json:"mentor_opt_in"`
	ReferralOptIn *bool    `json:"referral_opt_in"`
	Expertise     []string `json:"expertise" validate:"omitempty,max=10,dive,min=1"`
}

// AccountResponse serializes an identity record.
type AccountResponse struct {
	ID            uint       `json:"id"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	TenantID      string     `json:"tenant_id"`
	SuspensionEnd *time.Time `json:"suspension_end,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewAccountResponse converts an account model into a DTO.
func NewAccountResponse(account models.Account) AccountResponse {
	return AccountResponse{
		ID:            account.ID,
		Email:         account.Email,
		Role:          account.Role,
		Status:        account.Status,
		TenantID:      account.TenantID,
		SuspensionEnd: account.SuspensionEnd,
		CreatedAt:     account.CreatedAt,
	}
}

// AlumniSettingsResponse serializes the alumni meta flags.
type AlumniSettingsResponse struct {
	AccountID     uint     `json:"account_id"`
	MentorOptIn   bool     `json:"mentor_opt_in"`
	ReferralOptIn bool     `json:"referral_opt_in"`
	Expertise     []string `json:"expertise"`
	GradYear      int      `json:"grad_year"`
	AverageRating float64  `json:"average_rating"`
}

// NewAlumniSettingsResponse converts an alumni meta model into a DTO.
func NewAlumniSettingsResponse(meta models.AlumniMeta) AlumniSettingsResponse {
	return AlumniSettingsResponse{
		AccountID:     meta.AccountID,
		MentorOptIn:   meta.MentorOptIn,
		ReferralOptIn: meta.ReferralOptIn,
		Expertise:     meta.Expertise,
		GradYear:      meta.GradYear,
		AverageRating: meta.AverageRating,
	}
}

// ActivityEntryResponse serializes one per-account history entry.
type ActivityEntryResponse struct {
	ID        uint                   `json:"id"`
	AccountID uint                   `json:"account_id"`
	Type      string                 `json:"type"`
	Details   map[string]interface{} `json:"details"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewActivityEntryResponse converts an activity log model into a DTO.
func NewActivityEntryResponse(entry models.ActivityLog) ActivityEntryResponse {
	return ActivityEntryResponse{
		ID:        entry.ID,
		AccountID: entry.AccountID,
		Type:      entry.Type,
		Details:   entry.Details,
		CreatedAt: entry.CreatedAt,
	}
}

// ActivityListResponse wraps a paginated activity history.
type ActivityListResponse struct {
	Items      []ActivityEntryResponse `json:"items"`
	Pagination PaginationMeta          `json:"pagination"`
}
