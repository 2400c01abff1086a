package models

import (
	"time"

	"gorm.io/datatypes"
)

// Profile holds denormalized display data keyed 1:1 to an account. The core
// reads it for matching input and activity display only.
type Profile struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	AccountID   uint                        `gorm:"uniqueIndex;not null" json:"account_id"`
	DisplayName string                      `gorm:"size:100;not null" json:"display_name"`
	Bio         string                      `gorm:"size:500" json:"bio"`
	Skills      datatypes.JSONSlice[string] `gorm:"type:json" json:"skills"`
	Company     string                      `gorm:"size:100" json:"company"`
	Title       string                      `gorm:"size:100" json:"title"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// AlumniMeta is the single source of truth for an alumni account's mentoring
// and referral toggles. Toggles are mutable only while the owning account is
// active.
type AlumniMeta struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	AccountID     uint                        `gorm:"uniqueIndex;not null" json:"account_id"`
	MentorOptIn   bool                        `gorm:"not null;default:false" json:"mentor_opt_in"`
	ReferralOptIn bool                        `gorm:"not null;default:false" json:"referral_opt_in"`
	Expertise     datatypes.JSONSlice[string] `gorm:"type:json" json:"expertise"`
	GradYear      int                         `gorm:"not null" json:"grad_year"`
	AverageRating float64                     `gorm:"not null;default:0" json:"average_rating"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}
