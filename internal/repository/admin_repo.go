package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/models"
)

// AdminActionRepository executes privileged multi-document mutations. Each
// method runs one transaction covering the primary mutation, any cascade, the
// audit row and the activity rows, so a failed audit write rolls the whole
// action back. Precondition guards are closures supplied by the caller and
// evaluated against the row as read inside the transaction; an error returned
// from a guard aborts the transaction and propagates unchanged.
type AdminActionRepository interface {
	UpdateAccount(ctx context.Context, targetID uint, guard func(models.Account) error, updates map[string]interface{}, audit models.AuditLog, activity []models.ActivityLog) (models.Account, error)
	ResolveReport(ctx context.Context, reportID uint, guard func(models.SafetyReport) error, reportUpdates map[string]interface{}, accountUpdates map[string]interface{}, audit func(models.SafetyReport) models.AuditLog, activity func(models.SafetyReport) []models.ActivityLog) (models.SafetyReport, error)
	CreateAnnouncement(ctx context.Context, announcement *models.Announcement, audit models.AuditLog) error
}

type adminActionRepository struct {
	db *gorm.DB
}

// NewAdminActionRepository constructs the admin action repository.
func NewAdminActionRepository(db *gorm.DB) AdminActionRepository {
	return &adminActionRepository{db: db}
}

func (r *adminActionRepository) UpdateAccount(ctx context.Context, targetID uint, guard func(models.Account) error, updates map[string]interface{}, audit models.AuditLog, activity []models.ActivityLog) (models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&account, targetID).Error; err != nil {
			return err
		}
		if guard != nil {
			if err := guard(account); err != nil {
				return err
			}
		}
		if err := tx.Model(&account).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}
		if len(activity) > 0 {
			if err := tx.Create(&activity).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Account{}, err
	}
	return account, nil
}

func (r *adminActionRepository) ResolveReport(ctx context.Context, reportID uint, guard func(models.SafetyReport) error, reportUpdates map[string]interface{}, accountUpdates map[string]interface{}, audit func(models.SafetyReport) models.AuditLog, activity func(models.SafetyReport) []models.ActivityLog) (models.SafetyReport, error) {
	var report models.SafetyReport
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&report, reportID).Error; err != nil {
			return err
		}
		if guard != nil {
			if err := guard(report); err != nil {
				return err
			}
		}
		if err := tx.Model(&report).Updates(reportUpdates).Error; err != nil {
			return err
		}
		if len(accountUpdates) > 0 {
			res := tx.Model(&models.Account{}).Where("id = ?", report.StudentID).Updates(accountUpdates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		if audit != nil {
			entry := audit(report)
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		if activity != nil {
			if entries := activity(report); len(entries) > 0 {
				if err := tx.Create(&entries).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return models.SafetyReport{}, err
	}
	return report, nil
}

func (r *adminActionRepository) CreateAnnouncement(ctx context.Context, announcement *models.Announcement, audit models.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(announcement).Error; err != nil {
			return err
		}
		audit.TargetID = announcement.ID
		return tx.Create(&audit).Error
	})
}
