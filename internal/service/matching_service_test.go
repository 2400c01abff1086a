package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/models"
	"github.com/devcircle/clubconnect-api/internal/repository"
)

type fakeAccountRepo struct {
	accounts map[uint]models.Account
	profiles map[uint]models.Profile
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id uint) (models.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return models.Account{}, gorm.ErrRecordNotFound
	}
	return account, nil
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (models.Account, error) {
	for _, account := range f.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return models.Account{}, gorm.ErrRecordNotFound
}

func (f *fakeAccountRepo) GetProfile(ctx context.Context, accountID uint) (models.Profile, error) {
	profile, ok := f.profiles[accountID]
	if !ok {
		return models.Profile{}, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (f *fakeAccountRepo) Register(ctx context.Context, account *models.Account, profile *models.Profile, meta *models.AlumniMeta) error {
	return nil
}

func (f *fakeAccountRepo) Search(ctx context.Context, query string, limit int) ([]models.Account, map[uint]models.Profile, error) {
	return nil, nil, nil
}

func (f *fakeAccountRepo) ListPendingAlumni(ctx context.Context) ([]models.Account, error) {
	return nil, nil
}

func (f *fakeAccountRepo) CountByRoleStatus(ctx context.Context) ([]repository.RoleStatusCount, error) {
	return nil, nil
}

type fakeAlumniMetaRepo struct {
	metas   map[uint]models.AlumniMeta
	mentors []repository.MentorRecord
}

func (f *fakeAlumniMetaRepo) GetByAccount(ctx context.Context, accountID uint) (models.AlumniMeta, error) {
	meta, ok := f.metas[accountID]
	if !ok {
		return models.AlumniMeta{}, gorm.ErrRecordNotFound
	}
	return meta, nil
}

func (f *fakeAlumniMetaRepo) UpdateSettings(ctx context.Context, accountID uint, updates map[string]interface{}, activity []models.ActivityLog) (models.AlumniMeta, error) {
	meta, ok := f.metas[accountID]
	if !ok {
		return models.AlumniMeta{}, gorm.ErrRecordNotFound
	}
	return meta, nil
}

func (f *fakeAlumniMetaRepo) ListEligibleMentors(ctx context.Context) ([]repository.MentorRecord, error) {
	return f.mentors, nil
}

func mentorRecord(id uint, name string, expertise []string, gradYear int, rating float64) repository.MentorRecord {
	return repository.MentorRecord{
		Account: models.Account{ID: id, Role: models.RoleAlumni, Status: models.StatusActive},
		Profile: models.Profile{AccountID: id, DisplayName: name},
		Meta: models.AlumniMeta{
			AccountID:     id,
			MentorOptIn:   true,
			Expertise:     datatypes.NewJSONSlice(expertise),
			GradYear:      gradYear,
			AverageRating: rating,
		},
	}
}

func newMatchingFixture(t *testing.T, skills []string, mentors []repository.MentorRecord) *matchingService {
	t.Helper()
	accounts := &fakeAccountRepo{
		accounts: map[uint]models.Account{10: {ID: 10, Role: models.RoleStudent, Status: models.StatusActive}},
		profiles: map[uint]models.Profile{10: {AccountID: 10, Skills: datatypes.NewJSONSlice(skills)}},
	}
	meta := &fakeAlumniMetaRepo{mentors: mentors}
	svc := NewMatchingService(accounts, meta, testLogger()).(*matchingService)
	svc.now = func() time.Time { return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestRecommendMentorsRanksByWeightedScore(t *testing.T) {
	svc := newMatchingFixture(t, []string{"go", "distributed systems"}, []repository.MentorRecord{
		mentorRecord(1, "Partial Match", []string{"go", "kubernetes"}, 2016, 4.0),
		mentorRecord(2, "Full Match", []string{"go", "distributed systems"}, 2006, 5.0),
		mentorRecord(3, "No Signal", nil, 0, 0),
		mentorRecord(5, "Weak Match", []string{"java"}, 2024, 1.0),
	})

	result, err := svc.RecommendMentors(context.Background(), Actor{ID: 10, Role: models.RoleStudent, Status: models.StatusActive})
	require.NoError(t, err)

	require.Len(t, result.Recommended, 3)
	require.Equal(t, 3, result.TotalMatches)
	require.Equal(t, []string{"go", "distributed systems"}, result.YourSkills)

	require.Equal(t, uint(2), result.Recommended[0].AlumniID)
	require.InDelta(t, 1.0, result.Recommended[0].MatchScore, 1e-9)
	require.ElementsMatch(t, []string{"go", "distributed systems"}, result.Recommended[0].SkillMatches)

	require.Equal(t, uint(1), result.Recommended[1].AlumniID)
	require.InDelta(t, 0.575, result.Recommended[1].MatchScore, 1e-9)
	require.Equal(t, []string{"go"}, result.Recommended[1].SkillMatches)
	require.Equal(t, 10, result.Recommended[1].YearsOfExperience)

	require.Equal(t, uint(5), result.Recommended[2].AlumniID)
	require.InDelta(t, 0.075, result.Recommended[2].MatchScore, 1e-9)
}

func TestRecommendMentorsTieBreaksByAccountID(t *testing.T) {
	svc := newMatchingFixture(t, []string{"go"}, []repository.MentorRecord{
		mentorRecord(7, "Later Twin", []string{"go"}, 2016, 4.0),
		mentorRecord(4, "Earlier Twin", []string{"go"}, 2016, 4.0),
	})

	result, err := svc.RecommendMentors(context.Background(), Actor{ID: 10, Role: models.RoleStudent, Status: models.StatusActive})
	require.NoError(t, err)
	require.Len(t, result.Recommended, 2)
	require.Equal(t, uint(4), result.Recommended[0].AlumniID)
	require.Equal(t, uint(7), result.Recommended[1].AlumniID)
}

func TestRecommendMentorsCapsAtThree(t *testing.T) {
	svc := newMatchingFixture(t, []string{"go"}, []repository.MentorRecord{
		mentorRecord(1, "A", []string{"go"}, 2010, 5.0),
		mentorRecord(2, "B", []string{"go"}, 2012, 4.0),
		mentorRecord(3, "C", []string{"go"}, 2014, 3.0),
		mentorRecord(4, "D", []string{"go"}, 2016, 2.0),
	})

	result, err := svc.RecommendMentors(context.Background(), Actor{ID: 10, Role: models.RoleStudent, Status: models.StatusActive})
	require.NoError(t, err)
	require.Len(t, result.Recommended, 3)
	require.Equal(t, 4, result.TotalMatches)
}

func TestRecommendMentorsWithoutSkills(t *testing.T) {
	svc := newMatchingFixture(t, nil, []repository.MentorRecord{
		mentorRecord(1, "Anyone", []string{"go"}, 2010, 5.0),
	})

	result, err := svc.RecommendMentors(context.Background(), Actor{ID: 10, Role: models.RoleStudent, Status: models.StatusActive})
	require.NoError(t, err)
	require.Empty(t, result.Recommended)
	require.Zero(t, result.TotalMatches)
	require.Equal(t, "Add skills to your profile to get personalized mentor recommendations", result.Message)
}

func TestRecommendMentorsFutureGradYearScoresZeroExperience(t *testing.T) {
	svc := newMatchingFixture(t, []string{"go"}, []repository.MentorRecord{
		mentorRecord(1, "Time Traveler", []string{"go"}, 2030, 0),
	})

	result, err := svc.RecommendMentors(context.Background(), Actor{ID: 10, Role: models.RoleStudent, Status: models.StatusActive})
	require.NoError(t, err)
	require.Len(t, result.Recommended, 1)
	require.Zero(t, result.Recommended[0].YearsOfExperience)
	require.InDelta(t, 0.5, result.Recommended[0].MatchScore, 1e-9)
}

func TestRecommendMentorsRequiresStudent(t *testing.T) {
	svc := newMatchingFixture(t, []string{"go"}, nil)

	_, err := svc.RecommendMentors(context.Background(), Actor{ID: 10, Role: models.RoleAlumni, Status: models.StatusActive})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestAvailableMentorsOrdersByRating(t *testing.T) {
	svc := newMatchingFixture(t, nil, []repository.MentorRecord{
		mentorRecord(1, "Bronze", []string{"go"}, 2010, 2.5),
		mentorRecord(2, "Gold", []string{"go"}, 2012, 5.0),
		mentorRecord(3, "Silver", []string{"go"}, 2014, 4.0),
	})

	result, err := svc.AvailableMentors(context.Background(), Actor{ID: 10, Role: models.RoleStudent, Status: models.StatusActive})
	require.NoError(t, err)
	require.Equal(t, 3, result.TotalAvailable)
	require.Equal(t, uint(2), result.Mentors[0].AlumniID)
	require.Equal(t, uint(3), result.Mentors[1].AlumniID)
	require.Equal(t, uint(1), result.Mentors[2].AlumniID)
}
