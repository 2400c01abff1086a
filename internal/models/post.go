package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post is a community feed entry.
type Post struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	AuthorID  uint                        `gorm:"not null;index" json:"author_id"`
	Title     string                      `gorm:"size:100;not null" json:"title"`
	Content   string                      `gorm:"size:2000;not null" json:"content"`
	Tags      datatypes.JSONSlice[string] `gorm:"type:json" json:"tags"`
	TenantID  string                      `gorm:"size:64;not null;default:default" json:"tenant_id"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}
