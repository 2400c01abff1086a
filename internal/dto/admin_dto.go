package dto

import (
	"time"

	"github.com/devcircle/clubconnect-api/internal/models"
)

// AdminTargetRequest identifies the account an admin action applies to.
type AdminTargetRequest struct {
	UID uint `json:"uid" validate:"required,gt=0"`
}

// AdminReasonedRequest identifies a target together with a mandatory reason.
type AdminReasonedRequest struct {
	UID    uint   `json:"uid" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required,min=5,max=500"`
}

// AnnouncementCreateRequest captures an admin broadcast payload.
type AnnouncementCreateRequest struct {
	Title    string `json:"title" validate:"required,min=5,max=100"`
	Content  string `json:"content" validate:"required,min=10,max=1000"`
	Type     string `json:"type" validate:"omitempty,oneof=info warning success event"`
	TenantID string `json:"tenant_id" validate:"omitempty,max=64"`
}

// AnnouncementResponse serializes an announcement.
type AnnouncementResponse struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	AuthorID  uint      `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAnnouncementResponse converts an announcement model into a DTO.
func NewAnnouncementResponse(announcement models.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        announcement.ID,
		Title:     announcement.Title,
		Content:   announcement.Content,
		Type:      announcement.Type,
		AuthorID:  announcement.AuthorID,
		CreatedAt: announcement.CreatedAt,
	}
}

// AnnouncementListResponse wraps paginated announcements.
type AnnouncementListResponse struct {
	Items      []AnnouncementResponse `json:"items"`
	Pagination PaginationMeta         `json:"pagination"`
}

// UserSummary is a compact account view for admin search results.
type UserSummary struct {
	UID         uint   `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Status      string `json:"status"`
}

// SearchUsersResponse wraps admin user search results.
type SearchUsersResponse struct {
	Users []UserSummary `json:"users"`
}

// DashboardStatsResponse aggregates platform counts for the admin console.
type DashboardStatsResponse struct {
	TotalStudents         int64     `json:"total_students"`
	TotalActiveAlumni     int64     `json:"total_active_alumni"`
	PendingAlumniApproval int64     `json:"pending_alumni_approvals"`
	SuspendedUsers        int64     `json:"suspended_users"`
	BlockedUsers          int64     `json:"blocked_users"`
	PendingSafetyReports  int64     `json:"pending_safety_reports"`
	GeneratedAt           time.Time `json:"generated_at"`
	CacheHit              bool      `json:"cache_hit"`
}

// AuditLogResponse serializes one audit trail entry.
type AuditLogResponse struct {
	ID        uint                   `json:"id"`
	ActorID   uint                   `json:"actor_id"`
	Action    string                 `json:"action"`
	TargetID  uint                   `json:"target_id"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewAuditLogResponse converts an audit log model into a DTO.
func NewAuditLogResponse(entry models.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:        entry.ID,
		ActorID:   entry.ActorID,
		Action:    entry.Action,
		TargetID:  entry.TargetID,
		Metadata:  entry.Metadata,
		CreatedAt: entry.CreatedAt,
	}
}

// AuditLogListResponse wraps paginated audit entries.
type AuditLogListResponse struct {
	Items      []AuditLogResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}
