package dto

import (
	"time"

	"github.com/devcircle/clubconnect-api/internal/models"
)

// SafetyReportCreateRequest captures a concern about a student.
type SafetyReportCreateRequest struct {
	StudentID         uint   `json:"student_id" validate:"required,gt=0"`
	Reason            string `json:"reason" validate:"required,min=10,max=500"`
	GuidanceRequestID *uint  `json:"guidance_request_id" validate:"omitempty,gt=0"`
	TenantID          string `json:"tenant_id" validate:"omitempty,max=64"`
}

// ResolveReportRequest closes a safety report, optionally cascading into a
// suspension of the reported student.
type ResolveReportRequest struct {
	Resolution string `json:"resolution" validate:"required,min=5,max=500"`
	Action     string `json:"action" validate:"omitempty,oneof=none warning suspend"`
}

// SafetyReportResponse serializes a safety report.
type SafetyReportResponse struct {
	ID                uint       `json:"id"`
	ReporterID        uint       `json:"reporter_id"`
	StudentID         uint       `json:"student_id"`
	Reason            string     `json:"reason"`
	GuidanceRequestID *uint      `json:"guidance_request_id,omitempty"`
	Status            string     `json:"status"`
	Resolution        string     `json:"resolution,omitempty"`
	AdminAction       string     `json:"admin_action"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// NewSafetyReportResponse converts a safety report model into a DTO.
func NewSafetyReportResponse(report models.SafetyReport) SafetyReportResponse {
	return SafetyReportResponse{
		ID:                report.ID,
		ReporterID:        report.ReporterID,
		StudentID:         report.StudentID,
		Reason:            report.Reason,
		GuidanceRequestID: report.GuidanceRequestID,
		Status:            report.Status,
		Resolution:        report.Resolution,
		AdminAction:       report.AdminAction,
		ResolvedAt:        report.ResolvedAt,
		CreatedAt:         report.CreatedAt,
	}
}
