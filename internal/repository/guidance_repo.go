package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/devcircle/clubconnect-api/internal/models"
)

// GuidanceRepository persists guidance requests and executes their state
// transitions atomically. Callers supply the activity rows to append; the
// builder receives the post-transition request so the rows can reference the
// final state.
type GuidanceRepository interface {
	Create(ctx context.Context, request *models.GuidanceRequest, activity []models.ActivityLog) error
	GetByID(ctx context.Context, id uint) (models.GuidanceRequest, error)
	Accept(ctx context.Context, requestID, mentorID uint, logs func(models.GuidanceRequest) []models.ActivityLog) (models.GuidanceRequest, error)
	Reply(ctx context.Context, requestID, responderID uint, response, status string, logs func(models.GuidanceRequest) []models.ActivityLog) (models.GuidanceRequest, error)
	ListForStudent(ctx context.Context, studentID uint) ([]models.GuidanceRequest, error)
	ListAssigned(ctx context.Context, mentorID uint, statuses []string) ([]models.GuidanceRequest, error)
	ListOpenPending(ctx context.Context, limit int) ([]models.GuidanceRequest, error)
}

type guidanceRepository struct {
	db *gorm.DB
}

// NewGuidanceRepository constructs the guidance repository.
func NewGuidanceRepository(db *gorm.DB) GuidanceRepository {
	return &guidanceRepository{db: db}
}

func (r *guidanceRepository) Create(ctx context.Context, request *models.GuidanceRequest, activity []models.ActivityLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(request).Error; err != nil {
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

func (r *guidanceRepository) GetByID(ctx context.Context, id uint) (models.GuidanceRequest, error) {
	var request models.GuidanceRequest
	err := r.db.WithContext(ctx).First(&request, id).Error
	return request, err
}

// Accept claims a pending request for the given mentor. The guarded update
// makes concurrent accepts first-writer-wins: the loser's update matches zero
// rows and the call returns ErrStateConflict.
func (r *guidanceRepository) Accept(ctx context.Context, requestID, mentorID uint, logs func(models.GuidanceRequest) []models.ActivityLog) (models.GuidanceRequest, error) {
	var request models.GuidanceRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, requestID).Error; err != nil {
			return err
		}
		if request.MentorID != nil && *request.MentorID != mentorID {
			return ErrStateConflict
		}

		now := time.Now().UTC()
		res := tx.Model(&models.GuidanceRequest{}).
			Where("id = ? AND status = ?", requestID, models.GuidancePending).
			Updates(map[string]interface{}{
				"mentor_id":   mentorID,
				"status":      models.GuidanceAccepted,
				"accepted_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStateConflict
		}

		request.MentorID = &mentorID
		request.Status = models.GuidanceAccepted
		request.AcceptedAt = &now

		if logs != nil {
			if entries := logs(request); len(entries) > 0 {
				if err := tx.Create(&entries).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return models.GuidanceRequest{}, err
	}
	return request, nil
}

// Reply records the mentor's response. Completed requests are terminal; a
// reply against one returns ErrStateConflict. Authorization against the
// assigned mentor is the caller's concern.
func (r *guidanceRepository) Reply(ctx context.Context, requestID, responderID uint, response, status string, logs func(models.GuidanceRequest) []models.ActivityLog) (models.GuidanceRequest, error) {
	var request models.GuidanceRequest
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, requestID).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		res := tx.Model(&models.GuidanceRequest{}).
			Where("id = ? AND status <> ?", requestID, models.GuidanceCompleted).
			Updates(map[string]interface{}{
				"response":     response,
				"responder_id": responderID,
				"status":       status,
				"responded_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStateConflict
		}

		request.Response = response
		request.ResponderID = &responderID
		request.Status = status
		request.RespondedAt = &now

		if logs != nil {
			if entries := logs(request); len(entries) > 0 {
				if err := tx.Create(&entries).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return models.GuidanceRequest{}, err
	}
	return request, nil
}

func (r *guidanceRepository) ListForStudent(ctx context.Context, studentID uint) ([]models.GuidanceRequest, error) {
	var requests []models.GuidanceRequest
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *guidanceRepository) ListAssigned(ctx context.Context, mentorID uint, statuses []string) ([]models.GuidanceRequest, error) {
	query := r.db.WithContext(ctx).Where("mentor_id = ?", mentorID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var requests []models.GuidanceRequest
	err := query.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *guidanceRepository) ListOpenPending(ctx context.Context, limit int) ([]models.GuidanceRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	var requests []models.GuidanceRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND mentor_id IS NULL", models.GuidancePending).
		Order("created_at DESC").
		Limit(limit).
		Find(&requests).Error
	return requests, err
}

// IsNotFound reports whether the error is a missing-record lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
