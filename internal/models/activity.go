package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity types recorded on a per-account history.
const (
	ActivityGuidanceRequested     = "GUIDANCE_REQUESTED"
	ActivityGuidanceAccepted      = "GUIDANCE_ACCEPTED"
	ActivityGuidanceReplied       = "GUIDANCE_REPLIED"
	ActivityReferralCreated       = "REFERRAL_CREATED"
	ActivityReferralApplied       = "REFERRAL_APPLIED"
	ActivityReferralApplication   = "REFERRAL_APPLICATION_RECEIVED"
	ActivityReferralStatusUpdated = "REFERRAL_STATUS_UPDATED"
	ActivityReferralClosed        = "REFERRAL_CLOSED"
	ActivityAlumniApproved        = "ALUMNI_APPROVED"
	ActivityAlumniRejected        = "ALUMNI_REJECTED"
	ActivityAccountSuspended      = "ACCOUNT_SUSPENDED"
	ActivityAccountBlocked        = "ACCOUNT_BLOCKED"
	ActivityPostCreated           = "POST_CREATED"
	ActivitySettingsChanged       = "SETTINGS_CHANGED"
)

// ActivityLog is the append-only per-account history shown on profile and
// admin views.
type ActivityLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	AccountID uint              `gorm:"not null;index" json:"account_id"`
	Type      string            `gorm:"size:64;not null" json:"type"`
	Details   datatypes.JSONMap `gorm:"type:json" json:"details"`
	CreatedAt time.Time         `json:"created_at"`
}
