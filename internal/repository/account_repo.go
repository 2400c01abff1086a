package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/models"
)

// RoleStatusCount aggregates account counts for the admin dashboard.
type RoleStatusCount struct {
	Role   string
	Status string
	Count  int64
}

// AccountRepository persists identity records. It is the single authorization
// oracle for role and status.
type AccountRepository interface {
	GetByID(ctx context.Context, id uint) (models.Account, error)
	GetByEmail(ctx context.Context, email string) (models.Account, error)
	GetProfile(ctx context.Context, accountID uint) (models.Profile, error)
	Register(ctx context.Context, account *models.Account, profile *models.Profile, meta *models.AlumniMeta) error
	Search(ctx context.Context, query string, limit int) ([]models.Account, map[uint]models.Profile, error)
	ListPendingAlumni(ctx context.Context) ([]models.Account, error)
	CountByRoleStatus(ctx context.Context) ([]RoleStatusCount, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository constructs the account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByID(ctx context.Context, id uint) (models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).First(&account, id).Error
	return account, err
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&account).Error
	return account, err
}

func (r *accountRepository) GetProfile(ctx context.Context, accountID uint) (models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&profile).Error
	return profile, err
}

// Register creates the account with its profile and, for alumni, the meta row
// in a single transaction. A duplicate email surfaces as ErrDuplicate.
func (r *accountRepository) Register(ctx context.Context, account *models.Account, profile *models.Profile, meta *models.AlumniMeta) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		profile.AccountID = account.ID
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		if meta != nil {
			meta.AccountID = account.ID
			if err := tx.Create(meta).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (r *accountRepository) Search(ctx context.Context, query string, limit int) ([]models.Account, map[uint]models.Profile, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Joins("LEFT JOIN profiles ON profiles.account_id = accounts.id").
		Where("LOWER(accounts.email) LIKE ? OR LOWER(profiles.display_name) LIKE ?", pattern, pattern).
		Limit(limit).
		Find(&accounts).Error
	if err != nil {
		return nil, nil, err
	}

	profiles, err := r.profilesByAccount(ctx, accountIDs(accounts))
	if err != nil {
		return nil, nil, err
	}
	return accounts, profiles, nil
}

func (r *accountRepository) ListPendingAlumni(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Where("role = ? AND status = ?", models.RoleAlumni, models.StatusPending).
		Order("created_at DESC").
		Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) CountByRoleStatus(ctx context.Context) ([]RoleStatusCount, error) {
	var counts []RoleStatusCount
	err := r.db.WithContext(ctx).
		Model(&models.Account{}).
		Select("role, status, COUNT(*) AS count").
		Group("role").Group("status").
		Find(&counts).Error
	return counts, err
}

func (r *accountRepository) profilesByAccount(ctx context.Context, ids []uint) (map[uint]models.Profile, error) {
	result := make(map[uint]models.Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).Where("account_id IN ?", ids).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for _, p := range profiles {
		result[p.AccountID] = p
	}
	return result, nil
}

func accountIDs(accounts []models.Account) []uint {
	ids := make([]uint, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
	}
	return ids
}
