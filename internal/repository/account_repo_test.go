package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devcircle/clubconnect-api/internal/models"
)

func TestAccountRepositoryRegisterStudent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)

	account := models.Account{Email: "new@campus.edu", Role: models.RoleStudent, Status: models.StatusActive, TenantID: "default"}
	profile := models.Profile{DisplayName: "New Student"}
	require.NoError(t, repo.Register(context.Background(), &account, &profile, nil))
	require.NotZero(t, account.ID)
	require.Equal(t, account.ID, profile.AccountID)

	stored, err := repo.GetProfile(context.Background(), account.ID)
	require.NoError(t, err)
	require.Equal(t, "New Student", stored.DisplayName)
}

func TestAccountRepositoryRegisterAlumniCreatesMeta(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)

	account := models.Account{Email: "grad@campus.edu", Role: models.RoleAlumni, Status: models.StatusPending, TenantID: "default"}
	profile := models.Profile{DisplayName: "Grad Person"}
	meta := models.AlumniMeta{GradYear: 2020, MentorOptIn: true}
	require.NoError(t, repo.Register(context.Background(), &account, &profile, &meta))
	require.Equal(t, account.ID, meta.AccountID)

	var stored models.AlumniMeta
	require.NoError(t, db.Where("account_id = ?", account.ID).First(&stored).Error)
	require.True(t, stored.MentorOptIn)
}

func TestAccountRepositoryRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)

	first := models.Account{Email: "taken@campus.edu", Role: models.RoleStudent, Status: models.StatusActive, TenantID: "default"}
	require.NoError(t, repo.Register(context.Background(), &first, &models.Profile{DisplayName: "First"}, nil))

	second := models.Account{Email: "taken@campus.edu", Role: models.RoleStudent, Status: models.StatusActive, TenantID: "default"}
	err := repo.Register(context.Background(), &second, &models.Profile{DisplayName: "Second"}, nil)
	require.ErrorIs(t, err, ErrDuplicate)

	var count int64
	require.NoError(t, db.Model(&models.Account{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAccountRepositorySearchMatchesEmailAndDisplayName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)

	byEmail := models.Account{Email: "jane.doe@campus.edu", Role: models.RoleStudent, Status: models.StatusActive, TenantID: "default"}
	require.NoError(t, repo.Register(context.Background(), &byEmail, &models.Profile{DisplayName: "JD"}, nil))

	byName := models.Account{Email: "x1@campus.edu", Role: models.RoleAlumni, Status: models.StatusActive, TenantID: "default"}
	require.NoError(t, repo.Register(context.Background(), &byName, &models.Profile{DisplayName: "Janet Smith"}, nil))

	unrelated := models.Account{Email: "bob@campus.edu", Role: models.RoleStudent, Status: models.StatusActive, TenantID: "default"}
	require.NoError(t, repo.Register(context.Background(), &unrelated, &models.Profile{DisplayName: "Bob"}, nil))

	accounts, profiles, err := repo.Search(context.Background(), "jan", 20)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	require.Contains(t, profiles, byEmail.ID)
	require.Contains(t, profiles, byName.ID)
}

func TestAccountRepositoryCountByRoleStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)

	createAccount(t, db, "s1@campus.edu", models.RoleStudent, models.StatusActive)
	createAccount(t, db, "s2@campus.edu", models.RoleStudent, models.StatusActive)
	createAccount(t, db, "a1@campus.edu", models.RoleAlumni, models.StatusPending)
	createAccount(t, db, "a2@campus.edu", models.RoleAlumni, models.StatusActive)

	counts, err := repo.CountByRoleStatus(context.Background())
	require.NoError(t, err)

	byKey := map[string]int64{}
	for _, c := range counts {
		byKey[c.Role+"/"+c.Status] = c.Count
	}
	require.EqualValues(t, 2, byKey["student/active"])
	require.EqualValues(t, 1, byKey["alumni/pending"])
	require.EqualValues(t, 1, byKey["alumni/active"])
}

func TestAccountRepositoryListPendingAlumni(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)

	createAccount(t, db, "pending@campus.edu", models.RoleAlumni, models.StatusPending)
	createAccount(t, db, "active@campus.edu", models.RoleAlumni, models.StatusActive)
	createAccount(t, db, "student@campus.edu", models.RoleStudent, models.StatusPending)

	pending, err := repo.ListPendingAlumni(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "pending@campus.edu", pending[0].Email)
}
