package models

import "time"

// Safety report statuses.
const (
	ReportPending  = "pending"
	ReportResolved = "resolved"
)

// Admin actions attached to a safety report resolution.
const (
	ReportActionNone    = "none"
	ReportActionWarning = "warning"
	ReportActionSuspend = "suspend"
)

// SafetyReport records a concern raised by an alumnus or admin about a
// student, optionally tied to a guidance request. Only admin resolution
// mutates it.
type SafetyReport struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	ReporterID        uint       `gorm:"not null;index" json:"reporter_id"`
	StudentID         uint       `gorm:"not null;index" json:"student_id"`
	Reason            string     `gorm:"size:500;not null" json:"reason"`
	GuidanceRequestID *uint      `json:"guidance_request_id,omitempty"`
	Status            string     `gorm:"size:16;not null;index;default:pending" json:"status"`
	Resolution        string     `gorm:"size:500" json:"resolution,omitempty"`
	AdminAction       string     `gorm:"size:16;not null;default:none" json:"admin_action"`
	ResolvedBy        *uint      `json:"resolved_by,omitempty"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	TenantID          string     `gorm:"size:64;not null;default:default" json:"tenant_id"`
	CreatedAt         time.Time  `json:"created_at"`
}
