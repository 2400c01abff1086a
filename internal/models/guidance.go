package models

import "time"

// Guidance request statuses. Replied and completed are terminal; the only
// forward move from replied is completed, backward transitions never happen.
const (
	GuidancePending   = "pending"
	GuidanceAccepted  = "accepted"
	GuidanceReplied   = "replied"
	GuidanceCompleted = "completed"
)

// Guidance request types.
const (
	GuidanceTypeMentorship = "mentorship"
	GuidanceTypeReferral   = "referral"
)

// GuidanceRequest is a mentorship ask raised by a student, optionally
// pre-targeted to a mentor or left open for any eligible alumnus.
type GuidanceRequest struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	StudentID   uint       `gorm:"not null;index" json:"student_id"`
	MentorID    *uint      `gorm:"index" json:"mentor_id"`
	Topic       string     `gorm:"size:100;not null" json:"topic"`
	Message     string     `gorm:"size:1000;not null" json:"message"`
	Type        string     `gorm:"size:16;not null;default:mentorship" json:"type"`
	Status      string     `gorm:"size:16;not null;index;default:pending" json:"status"`
	Response    string     `gorm:"size:1000" json:"response,omitempty"`
	ResponderID *uint      `json:"responder_id,omitempty"`
	TenantID    string     `gorm:"size:64;not null;default:default" json:"tenant_id"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
