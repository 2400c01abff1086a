package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/devcircle/clubconnect-api/internal/dto"
	"github.com/devcircle/clubconnect-api/internal/models"
	"github.com/devcircle/clubconnect-api/internal/repository"
)

// PostService runs the community feed.
type PostService interface {
	Create(ctx context.Context, actor Actor, req dto.PostCreateRequest) (dto.PostResponse, error)
	List(ctx context.Context, page, pageSize int) (dto.PostListResponse, error)
	Delete(ctx context.Context, actor Actor, postID uint) error
}

type postService struct {
	posts     repository.PostRepository
	limiter   RateLimiter
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewPostService constructs the community feed service.
func NewPostService(posts repository.PostRepository, limiter RateLimiter, validate *validator.Validate, logger zerolog.Logger) PostService {
	return &postService{
		posts:     posts,
		limiter:   limiter,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "post_service").Logger(),
	}
}

// Create publishes a feed post. Any active account may post, throttled by the
// posting cooldown.
func (s *postService) Create(ctx context.Context, actor Actor, req dto.PostCreateRequest) (dto.PostResponse, error) {
	if actor.Status != models.StatusActive {
		return dto.PostResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.PostResponse{}, err
	}
	if err := s.limiter.Check(ctx, actor.ID, ActionCreatePost); err != nil {
		return dto.PostResponse{}, err
	}

	post := models.Post{
		AuthorID: actor.ID,
		Title:    strings.TrimSpace(s.sanitizer.Sanitize(req.Title)),
		Content:  strings.TrimSpace(s.sanitizer.Sanitize(req.Content)),
		Tags:     datatypes.NewJSONSlice(normalizeList(req.Tags)),
		TenantID: tenantOrDefault(req.TenantID),
	}

	activity := []models.ActivityLog{{
		AccountID: actor.ID,
		Type:      models.ActivityPostCreated,
		Details:   datatypes.JSONMap{"title": post.Title},
	}}

	if err := s.posts.Create(ctx, &post, activity); err != nil {
		s.logger.Error().Err(err).Uint("author_id", actor.ID).Msg("failed to create post")
		return dto.PostResponse{}, err
	}

	if err := s.limiter.Record(ctx, actor.ID, ActionCreatePost); err != nil {
		s.logger.Warn().Err(err).Uint("author_id", actor.ID).Msg("post cooldown not recorded")
	}
	return dto.NewPostResponse(post), nil
}

func (s *postService) List(ctx context.Context, page, pageSize int) (dto.PostListResponse, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	posts, total, err := s.posts.List(ctx, page, pageSize)
	if err != nil {
		return dto.PostListResponse{}, err
	}
	items := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		items = append(items, dto.NewPostResponse(post))
	}
	return dto.PostListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(page, pageSize, total),
	}, nil
}

// Delete removes a post. Only the author or an admin may delete.
func (s *postService) Delete(ctx context.Context, actor Actor, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	if post.AuthorID != actor.ID && actor.Role != models.RoleAdmin {
		return ErrForbidden
	}
	return s.posts.Delete(ctx, postID)
}
