package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/models"
)

// SafetyReportRepository persists safety reports. Resolution goes through the
// admin action repository so it stays atomic with its cascade and audit row.
type SafetyReportRepository interface {
	Create(ctx context.Context, report *models.SafetyReport) error
	GetByID(ctx context.Context, id uint) (models.SafetyReport, error)
	ListPending(ctx context.Context, limit int) ([]models.SafetyReport, error)
	CountPending(ctx context.Context) (int64, error)
}

type safetyReportRepository struct {
	db *gorm.DB
}

// NewSafetyReportRepository constructs the safety report repository.
func NewSafetyReportRepository(db *gorm.DB) SafetyReportRepository {
	return &safetyReportRepository{db: db}
}

func (r *safetyReportRepository) Create(ctx context.Context, report *models.SafetyReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *safetyReportRepository) GetByID(ctx context.Context, id uint) (models.SafetyReport, error) {
	var report models.SafetyReport
	err := r.db.WithContext(ctx).First(&report, id).Error
	return report, err
}

func (r *safetyReportRepository) ListPending(ctx context.Context, limit int) ([]models.SafetyReport, error) {
	if limit <= 0 {
		limit = 50
	}
	var reports []models.SafetyReport
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ReportPending).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

func (r *safetyReportRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SafetyReport{}).
		Where("status = ?", models.ReportPending).
		Count(&count).Error
	return count, err
}
