package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/models"
)

// ReferralRepository persists referrals and their applicant lists. Every
// mutation that participates in an invariant runs as one guarded transaction.
type ReferralRepository interface {
	Create(ctx context.Context, referral *models.Referral, activity []models.ActivityLog) error
	GetByID(ctx context.Context, id uint) (models.Referral, error)
	Apply(ctx context.Context, referralID, studentID uint, logs func(models.Referral, models.ReferralApplicant) []models.ActivityLog) (models.ReferralApplicant, error)
	UpdateApplicant(ctx context.Context, referralID, studentID uint, newStatus string, logs func(models.Referral) []models.ActivityLog) error
	Close(ctx context.Context, referralID uint, logs func(models.Referral) []models.ActivityLog) (models.Referral, error)
	ListOpen(ctx context.Context, limit int) ([]models.Referral, error)
	ListCreatedBy(ctx context.Context, accountID uint) ([]models.Referral, error)
	ListAppliedBy(ctx context.Context, studentID uint) ([]models.Referral, error)
}

type referralRepository struct {
	db *gorm.DB
}

// NewReferralRepository constructs the referral repository.
func NewReferralRepository(db *gorm.DB) ReferralRepository {
	return &referralRepository{db: db}
}

func (r *referralRepository) Create(ctx context.Context, referral *models.Referral, activity []models.ActivityLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(referral).Error; err != nil {
			return err
		}
		if len(activity) > 0 {
			if err := tx.Create(&activity).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *referralRepository) GetByID(ctx context.Context, id uint) (models.Referral, error) {
	var referral models.Referral
	err := r.db.WithContext(ctx).Preload("Applicants").First(&referral, id).Error
	return referral, err
}

// Apply appends one applicant row and bumps the counter. The composite unique
// index turns a duplicate application into ErrDuplicate; the guarded counter
// update rejects applications against a referral that closed concurrently.
func (r *referralRepository) Apply(ctx context.Context, referralID, studentID uint, logs func(models.Referral, models.ReferralApplicant) []models.ActivityLog) (models.ReferralApplicant, error) {
	var applicant models.ReferralApplicant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var referral models.Referral
		if err := tx.First(&referral, referralID).Error; err != nil {
			return err
		}
		if referral.Status != models.ReferralOpen {
			return ErrStateConflict
		}

		applicant = models.ReferralApplicant{
			ReferralID: referralID,
			StudentID:  studentID,
			Status:     models.ApplicantPending,
			AppliedAt:  time.Now().UTC(),
		}
		if err := tx.Create(&applicant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return err
		}

		res := tx.Model(&models.Referral{}).
			Where("id = ? AND status = ?", referralID, models.ReferralOpen).
			UpdateColumn("applicant_count", gorm.Expr("applicant_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStateConflict
		}
		referral.ApplicantCount++

		if logs != nil {
			if entries := logs(referral, applicant); len(entries) > 0 {
				if err := tx.Create(&entries).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return models.ReferralApplicant{}, err
	}
	return applicant, nil
}

// UpdateApplicant sets one applicant's status. Accepting an applicant also
// records them as the referral's accepted applicant; other pending applicants
// are left untouched.
func (r *referralRepository) UpdateApplicant(ctx context.Context, referralID, studentID uint, newStatus string, logs func(models.Referral) []models.ActivityLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var referral models.Referral
		if err := tx.First(&referral, referralID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.ReferralApplicant{}).
			Where("referral_id = ? AND student_id = ?", referralID, studentID).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if newStatus == models.ApplicantAccepted {
			if err := tx.Model(&referral).Update("accepted_applicant_id", studentID).Error; err != nil {
				return err
			}
			id := studentID
			referral.AcceptedApplicantID = &id
		}

		if logs != nil {
			if entries := logs(referral); len(entries) > 0 {
				if err := tx.Create(&entries).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Close marks the referral closed. A second close matches zero rows and
// returns ErrStateConflict; a closed referral never reopens.
func (r *referralRepository) Close(ctx context.Context, referralID uint, logs func(models.Referral) []models.ActivityLog) (models.Referral, error) {
	var referral models.Referral
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&referral, referralID).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		res := tx.Model(&models.Referral{}).
			Where("id = ? AND status = ?", referralID, models.ReferralOpen).
			Updates(map[string]interface{}{
				"status":    models.ReferralClosed,
				"closed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStateConflict
		}

		referral.Status = models.ReferralClosed
		referral.ClosedAt = &now

		if logs != nil {
			if entries := logs(referral); len(entries) > 0 {
				if err := tx.Create(&entries).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return models.Referral{}, err
	}
	return referral, nil
}

func (r *referralRepository) ListOpen(ctx context.Context, limit int) ([]models.Referral, error) {
	if limit <= 0 {
		limit = 50
	}
	var referrals []models.Referral
	err := r.db.WithContext(ctx).
		Where("status = ?", models.ReferralOpen).
		Order("created_at DESC").
		Limit(limit).
		Find(&referrals).Error
	return referrals, err
}

func (r *referralRepository) ListCreatedBy(ctx context.Context, accountID uint) ([]models.Referral, error) {
	var referrals []models.Referral
	err := r.db.WithContext(ctx).
		Preload("Applicants").
		Where("created_by = ?", accountID).
		Order("created_at DESC").
		Find(&referrals).Error
	return referrals, err
}

func (r *referralRepository) ListAppliedBy(ctx context.Context, studentID uint) ([]models.Referral, error) {
	var referrals []models.Referral
	err := r.db.WithContext(ctx).
		Preload("Applicants", "student_id = ?", studentID).
		Joins("JOIN referral_applicants ON referral_applicants.referral_id = referrals.id").
		Where("referral_applicants.student_id = ?", studentID).
		Order("referrals.created_at DESC").
		Find(&referrals).Error
	return referrals, err
}
