package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions recorded for privileged admin operations.
const (
	AuditApproveAlumni       = "approve_alumni"
	AuditRejectAlumni        = "reject_alumni"
	AuditSuspendUser         = "suspend_user"
	AuditBlockUser           = "block_user"
	AuditPromoteToAdmin      = "promote_to_admin"
	AuditResolveSafetyReport = "resolve_safety_report"
	AuditCreateAnnouncement  = "create_announcement"
)

// AuditLog is the append-only accountability trail for admin actions. Rows
// are written in the same transaction as the mutation they document and are
// never updated or deleted.
type AuditLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ActorID   uint              `gorm:"not null;index" json:"actor_id"`
	Action    string            `gorm:"size:64;not null;index" json:"action"`
	TargetID  uint              `gorm:"not null;index" json:"target_id"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}
