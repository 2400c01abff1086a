package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/devcircle/clubconnect-api/internal/dto"
	"github.com/devcircle/clubconnect-api/internal/models"
	"github.com/devcircle/clubconnect-api/internal/repository"
)

// ActivityService serves the read side of per-account history. Writes happen
// inside the workflow transactions that produce them.
type ActivityService interface {
	ListForAccount(ctx context.Context, actor Actor, accountID uint, page, pageSize int) (dto.ActivityListResponse, error)
}

type activityService struct {
	activity repository.ActivityLogRepository
	logger   zerolog.Logger
}

// NewActivityService constructs the activity history service.
func NewActivityService(activity repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		activity: activity,
		logger:   logger.With().Str("component", "activity_service").Logger(),
	}
}

// ListForAccount returns an account's history. Accounts see their own history;
// admins see anyone's.
func (s *activityService) ListForAccount(ctx context.Context, actor Actor, accountID uint, page, pageSize int) (dto.ActivityListResponse, error) {
	if actor.ID != accountID && actor.Role != models.RoleAdmin {
		return dto.ActivityListResponse{}, ErrForbidden
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	entries, total, err := s.activity.ListForAccount(ctx, accountID, page, pageSize)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}
	items := make([]dto.ActivityEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.NewActivityEntryResponse(entry))
	}
	return dto.ActivityListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}
