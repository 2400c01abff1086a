package dto

import (
	"time"

	"github.com/devcircle/clubconnect-api/internal/models"
)

// GuidanceCreateRequest captures a student's mentorship ask. MentorID is
// optional; absent means the request goes to the open pool.
type GuidanceCreateRequest struct {
	Topic    string `json:"topic" validate:"required,min=5,max=100"`
	Message  string `json:"message" validate:"required,min=10,max=1000"`
	Type     string `json:"type" validate:"omitempty,oneof=mentorship referral"`
	MentorID *uint  `json:"mentor_id" validate:"omitempty,gt=0"`
	TenantID string `json:"tenant_id" validate:"omitempty,max=64"`
}

// GuidanceReplyRequest captures the mentor's response. Status defaults to
// completed when omitted.
type GuidanceReplyRequest struct {
	Response string `json:"response" validate:"required,min=10,max=1000"`
	Status   string `json:"status" validate:"omitempty,oneof=replied completed"`
}

// GuidanceResponse serializes a guidance request.
type GuidanceResponse struct {
	ID          uint       `json:"id"`
	StudentID   uint       `json:"student_id"`
	MentorID    *uint      `json:"mentor_id"`
	Topic       string     `json:"topic"`
	Message     string     `json:"message"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Response    string     `json:"response,omitempty"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewGuidanceResponse converts a guidance request model into a DTO.
func NewGuidanceResponse(request models.GuidanceRequest) GuidanceResponse {
	return GuidanceResponse{
		ID:          request.ID,
		StudentID:   request.StudentID,
		MentorID:    request.MentorID,
		Topic:       request.Topic,
		Message:     request.Message,
		Type:        request.Type,
		Status:      request.Status,
		Response:    request.Response,
		AcceptedAt:  request.AcceptedAt,
		RespondedAt: request.RespondedAt,
		CreatedAt:   request.CreatedAt,
	}
}

// Filtered request sources.
const (
	GuidanceSourceAssigned = "assigned"
	GuidanceSourceOpen     = "open"
)

// FilteredGuidanceResponse annotates a guidance request for the alumni inbox
// view: whether it is already assigned to the caller and whether its text
// matches the caller's expertise.
type FilteredGuidanceResponse struct {
	GuidanceResponse
	Source         string `json:"source"`
	ExpertiseMatch bool   `json:"expertise_match"`
}
