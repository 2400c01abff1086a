package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/models"
)

// MentorRecord joins the account, profile and alumni meta rows the matching
// engine scores against.
type MentorRecord struct {
	Account models.Account
	Profile models.Profile
	Meta    models.AlumniMeta
}

// AlumniMetaRepository persists the alumni opt-in and expertise flags.
type AlumniMetaRepository interface {
	GetByAccount(ctx context.Context, accountID uint) (models.AlumniMeta, error)
	UpdateSettings(ctx context.Context, accountID uint, updates map[string]interface{}, activity []models.ActivityLog) (models.AlumniMeta, error)
	ListEligibleMentors(ctx context.Context) ([]MentorRecord, error)
}

type alumniMetaRepository struct {
	db *gorm.DB
}

// NewAlumniMetaRepository constructs the alumni meta repository.
func NewAlumniMetaRepository(db *gorm.DB) AlumniMetaRepository {
	return &alumniMetaRepository{db: db}
}

func (r *alumniMetaRepository) GetByAccount(ctx context.Context, accountID uint) (models.AlumniMeta, error) {
	var meta models.AlumniMeta
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&meta).Error
	return meta, err
}

func (r *alumniMetaRepository) UpdateSettings(ctx context.Context, accountID uint, updates map[string]interface{}, activity []models.ActivityLog) (models.AlumniMeta, error) {
	var meta models.AlumniMeta
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", accountID).First(&meta).Error; err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := tx.Model(&meta).Updates(updates).Error; err != nil {
				return err
			}
		}
		if len(activity) > 0 {
			if err := tx.Create(&activity).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return meta, err
}

// ListEligibleMentors returns every active alumni account that has opted into
// mentoring, together with its profile and meta rows, ordered by account id
// for deterministic downstream ranking.
func (r *alumniMetaRepository) ListEligibleMentors(ctx context.Context) ([]MentorRecord, error) {
	var metas []models.AlumniMeta
	err := r.db.WithContext(ctx).
		Joins("JOIN accounts ON accounts.id = alumni_metas.account_id").
		Where("accounts.role = ? AND accounts.status = ?", models.RoleAlumni, models.StatusActive).
		Where("alumni_metas.mentor_opt_in = ?", true).
		Order("alumni_metas.account_id ASC").
		Find(&metas).Error
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(metas))
	for _, m := range metas {
		ids = append(ids, m.AccountID)
	}

	var accounts []models.Account
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&accounts).Error; err != nil {
		return nil, err
	}
	accountsByID := make(map[uint]models.Account, len(accounts))
	for _, a := range accounts {
		accountsByID[a.ID] = a
	}

	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Where("account_id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	profilesByID := make(map[uint]models.Profile, len(profiles))
	for _, p := range profiles {
		profilesByID[p.AccountID] = p
	}

	records := make([]MentorRecord, 0, len(metas))
	for _, m := range metas {
		records = append(records, MentorRecord{
			Account: accountsByID[m.AccountID],
			Profile: profilesByID[m.AccountID],
			Meta:    m,
		})
	}
	return records, nil
}
