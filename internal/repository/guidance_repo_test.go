package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devcircle/clubconnect-api/internal/models"
)

func TestGuidanceRepositoryAcceptClaimsPendingRequest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGuidanceRepository(db)

	student := createAccount(t, db, "student@campus.edu", models.RoleStudent, models.StatusActive)
	mentor := createAccount(t, db, "mentor@campus.edu", models.RoleAlumni, models.StatusActive)

	request := models.GuidanceRequest{
		StudentID: student.ID,
		Topic:     "Career advice needed",
		Message:   "How do I prepare for backend interviews?",
		Type:      models.GuidanceTypeMentorship,
		Status:    models.GuidancePending,
		TenantID:  "default",
	}
	require.NoError(t, repo.Create(context.Background(), &request, nil))

	accepted, err := repo.Accept(context.Background(), request.ID, mentor.ID, func(r models.GuidanceRequest) []models.ActivityLog {
		return []models.ActivityLog{{AccountID: r.StudentID, Type: models.ActivityGuidanceAccepted}}
	})
	require.NoError(t, err)
	require.Equal(t, models.GuidanceAccepted, accepted.Status)
	require.NotNil(t, accepted.MentorID)
	require.Equal(t, mentor.ID, *accepted.MentorID)
	require.NotNil(t, accepted.AcceptedAt)

	var logs []models.ActivityLog
	require.NoError(t, db.Where("account_id = ?", student.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
}

func TestGuidanceRepositorySecondAcceptLosesRace(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGuidanceRepository(db)

	student := createAccount(t, db, "student@campus.edu", models.RoleStudent, models.StatusActive)
	first := createAccount(t, db, "first@campus.edu", models.RoleAlumni, models.StatusActive)
	second := createAccount(t, db, "second@campus.edu", models.RoleAlumni, models.StatusActive)

	request := models.GuidanceRequest{
		StudentID: student.ID,
		Topic:     "Resume review please",
		Message:   "Could someone look over my resume before applications?",
		Type:      models.GuidanceTypeMentorship,
		Status:    models.GuidancePending,
		TenantID:  "default",
	}
	require.NoError(t, repo.Create(context.Background(), &request, nil))

	_, err := repo.Accept(context.Background(), request.ID, first.ID, nil)
	require.NoError(t, err)

	_, err = repo.Accept(context.Background(), request.ID, second.ID, nil)
	require.ErrorIs(t, err, ErrStateConflict)

	var stored models.GuidanceRequest
	require.NoError(t, db.First(&stored, request.ID).Error)
	require.Equal(t, first.ID, *stored.MentorID)
}

func TestGuidanceRepositoryReplyOnCompletedConflicts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGuidanceRepository(db)

	student := createAccount(t, db, "student@campus.edu", models.RoleStudent, models.StatusActive)
	mentor := createAccount(t, db, "mentor@campus.edu", models.RoleAlumni, models.StatusActive)

	request := models.GuidanceRequest{
		StudentID: student.ID,
		Topic:     "Internship search tips",
		Message:   "Where should I look for summer internships this year?",
		Type:      models.GuidanceTypeMentorship,
		Status:    models.GuidancePending,
		TenantID:  "default",
	}
	require.NoError(t, repo.Create(context.Background(), &request, nil))

	_, err := repo.Accept(context.Background(), request.ID, mentor.ID, nil)
	require.NoError(t, err)

	replied, err := repo.Reply(context.Background(), request.ID, mentor.ID, "Start with the campus job board.", models.GuidanceCompleted, nil)
	require.NoError(t, err)
	require.Equal(t, models.GuidanceCompleted, replied.Status)
	require.NotNil(t, replied.RespondedAt)

	_, err = repo.Reply(context.Background(), request.ID, mentor.ID, "Second answer", models.GuidanceReplied, nil)
	require.ErrorIs(t, err, ErrStateConflict)
}

func TestGuidanceRepositoryRepliedThenCompleted(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGuidanceRepository(db)

	student := createAccount(t, db, "student@campus.edu", models.RoleStudent, models.StatusActive)
	mentor := createAccount(t, db, "mentor@campus.edu", models.RoleAlumni, models.StatusActive)

	request := models.GuidanceRequest{
		StudentID: student.ID,
		Topic:     "System design prep",
		Message:   "What resources cover system design for new grads?",
		Type:      models.GuidanceTypeMentorship,
		Status:    models.GuidancePending,
		TenantID:  "default",
	}
	require.NoError(t, repo.Create(context.Background(), &request, nil))

	_, err := repo.Accept(context.Background(), request.ID, mentor.ID, nil)
	require.NoError(t, err)

	replied, err := repo.Reply(context.Background(), request.ID, mentor.ID, "Grokking plus mock interviews.", models.GuidanceReplied, nil)
	require.NoError(t, err)
	require.Equal(t, models.GuidanceReplied, replied.Status)

	completed, err := repo.Reply(context.Background(), request.ID, mentor.ID, "Closing this out, good luck!", models.GuidanceCompleted, nil)
	require.NoError(t, err)
	require.Equal(t, models.GuidanceCompleted, completed.Status)
}

func TestGuidanceRepositoryListOpenPendingExcludesClaimed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGuidanceRepository(db)

	student := createAccount(t, db, "student@campus.edu", models.RoleStudent, models.StatusActive)
	mentor := createAccount(t, db, "mentor@campus.edu", models.RoleAlumni, models.StatusActive)

	open := models.GuidanceRequest{
		StudentID: student.ID,
		Topic:     "Open pool request",
		Message:   "Anyone up for a quick chat about cloud certifications?",
		Type:      models.GuidanceTypeMentorship,
		Status:    models.GuidancePending,
		TenantID:  "default",
	}
	direct := models.GuidanceRequest{
		StudentID: student.ID,
		MentorID:  &mentor.ID,
		Topic:     "Directed request",
		Message:   "I would like to talk to this specific mentor please.",
		Type:      models.GuidanceTypeMentorship,
		Status:    models.GuidancePending,
		TenantID:  "default",
	}
	require.NoError(t, repo.Create(context.Background(), &open, nil))
	require.NoError(t, repo.Create(context.Background(), &direct, nil))

	pool, err := repo.ListOpenPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pool, 1)
	require.Equal(t, open.ID, pool[0].ID)
}
