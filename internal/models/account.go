package models

import "time"

// Account roles.
const (
	RoleStudent = "student"
	RoleAlumni  = "alumni"
	RoleAdmin   = "admin"
)

// Account statuses.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusBlocked   = "blocked"
	StatusRejected  = "rejected"
)

// Account is the authoritative identity, role and status record for a platform
// user. Role and status here gate every privileged operation; no other table
// holds a competing copy.
type Account struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Email           string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role            string     `gorm:"size:16;not null;index" json:"role"`
	Status          string     `gorm:"size:16;not null;index" json:"status"`
	TenantID        string     `gorm:"size:64;not null;default:default" json:"tenant_id"`
	StatusReason    string     `gorm:"size:500" json:"status_reason,omitempty"`
	StatusChangedBy *uint      `json:"status_changed_by,omitempty"`
	StatusChangedAt *time.Time `json:"status_changed_at,omitempty"`
	SuspensionEnd   *time.Time `json:"suspension_end,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsActive reports whether the account may perform regular mutations.
func (a Account) IsActive() bool {
	return a.Status == StatusActive
}
