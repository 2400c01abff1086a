package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/models"
)

// AnnouncementRepository serves the read side of admin announcements.
// Creation runs inside the admin action transaction.
type AnnouncementRepository interface {
	List(ctx context.Context, page, pageSize int) ([]models.Announcement, int64, error)
}

type announcementRepository struct {
	db *gorm.DB
}

// NewAnnouncementRepository constructs the announcement repository.
func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) List(ctx context.Context, page, pageSize int) ([]models.Announcement, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Announcement{})

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if pageSize > 0 {
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	var announcements []models.Announcement
	if err := query.Order("created_at DESC").Find(&announcements).Error; err != nil {
		return nil, 0, err
	}
	return announcements, total, nil
}
