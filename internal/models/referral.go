package models

import "time"

// Referral statuses.
const (
	ReferralOpen   = "open"
	ReferralClosed = "closed"
)

// Referral applicant statuses.
const (
	ApplicantPending  = "pending"
	ApplicantAccepted = "accepted"
	ApplicantRejected = "rejected"
)

// Referral is an alumni-posted job lead that students can apply to.
type Referral struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	CreatedBy           uint       `gorm:"not null;index" json:"created_by"`
	Company             string     `gorm:"size:100;not null" json:"company"`
	Role                string     `gorm:"size:100;not null" json:"role"`
	Description         string     `gorm:"size:2000;not null" json:"description"`
	Status              string     `gorm:"size:16;not null;index;default:open" json:"status"`
	ApplicantCount      int        `gorm:"not null;default:0" json:"applicant_count"`
	AcceptedApplicantID *uint      `json:"accepted_applicant_id,omitempty"`
	ClosedAt            *time.Time `json:"closed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	Applicants []ReferralApplicant `gorm:"foreignKey:ReferralID" json:"applicants,omitempty"`
}

// ReferralApplicant is one student's application to a referral. The composite
// unique index makes a duplicate application a constraint violation rather
// than a read-then-write race.
type ReferralApplicant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReferralID uint      `gorm:"not null;uniqueIndex:idx_referral_student" json:"referral_id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_referral_student" json:"student_id"`
	Status     string    `gorm:"size:16;not null;default:pending" json:"status"`
	AppliedAt  time.Time `gorm:"not null" json:"applied_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
