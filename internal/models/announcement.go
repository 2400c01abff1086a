package models

import "time"

// Announcement types.
const (
	AnnouncementInfo    = "info"
	AnnouncementWarning = "warning"
	AnnouncementSuccess = "success"
	AnnouncementEvent   = "event"
)

// Announcement is an admin-authored broadcast visible to all accounts.
type Announcement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Content   string    `gorm:"size:1000;not null" json:"content"`
	Type      string    `gorm:"size:16;not null;default:info" json:"type"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	TenantID  string    `gorm:"size:64;not null;default:default" json:"tenant_id"`
	CreatedAt time.Time `json:"created_at"`
}
