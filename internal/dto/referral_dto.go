package dto

import (
	"time"

	"github.com/devcircle/clubconnect-api/internal/models"
)

// ReferralCreateRequest captures a job lead posted by an alumnus.
type ReferralCreateRequest struct {
	Company     string `json:"company" validate:"required,min=2,max=100"`
	Role        string `json:"role" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"required,min=10,max=2000"`
}

// ApplicantStatusUpdateRequest moves one applicant between pending, accepted
// and rejected.
type ApplicantStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending accepted rejected"`
}

// ApplicantResponse serializes one application on a referral.
type ApplicantResponse struct {
	StudentID uint      `json:"student_id"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"applied_at"`
}

// ReferralResponse serializes a referral. MyApplicationStatus is populated
// only on the "applied" listing for the calling student.
type ReferralResponse struct {
	ID                  uint                `json:"id"`
	CreatedBy           uint                `json:"created_by"`
	Company             string              `json:"company"`
	Role                string              `json:"role"`
	Description         string              `json:"description"`
	Status              string              `json:"status"`
	ApplicantCount      int                 `json:"applicant_count"`
	AcceptedApplicantID *uint               `json:"accepted_applicant_id,omitempty"`
	Applicants          []ApplicantResponse `json:"applicants,omitempty"`
	MyApplicationStatus string              `json:"my_application_status,omitempty"`
	ClosedAt            *time.Time          `json:"closed_at,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
}

// NewReferralResponse converts a referral model into a DTO.
func NewReferralResponse(referral models.Referral) ReferralResponse {
	applicants := make([]ApplicantResponse, 0, len(referral.Applicants))
	for _, a := range referral.Applicants {
		applicants = append(applicants, ApplicantResponse{
			StudentID: a.StudentID,
			Status:    a.Status,
			AppliedAt: a.AppliedAt,
		})
	}

	return ReferralResponse{
		ID:                  referral.ID,
		CreatedBy:           referral.CreatedBy,
		Company:             referral.Company,
		Role:                referral.Role,
		Description:         referral.Description,
		Status:              referral.Status,
		ApplicantCount:      referral.ApplicantCount,
		AcceptedApplicantID: referral.AcceptedApplicantID,
		Applicants:          applicants,
		ClosedAt:            referral.ClosedAt,
		CreatedAt:           referral.CreatedAt,
	}
}
