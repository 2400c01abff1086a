package dto

import (
	"time"

	"github.com/devcircle/clubconnect-api/internal/models"
)

// PostCreateRequest captures a community feed post.
type PostCreateRequest struct {
	Title    string   `json:"title" validate:"required,min=1,max=100"`
	Content  string   `json:"content" validate:"required,min=1,max=2000"`
	Tags     []string `json:"tags" validate:"omitempty,max=5,dive,min=1"`
	TenantID string   `json:"tenant_id" validate:"omitempty,max=64"`
}

// PostResponse serializes a community feed post.
type PostResponse struct {
	ID        uint      `json:"id"`
	AuthorID  uint      `json:"author_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPostResponse converts a post model into a DTO.
func NewPostResponse(post models.Post) PostResponse {
	return PostResponse{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
		Content:   post.Content,
		Tags:      post.Tags,
		CreatedAt: post.CreatedAt,
	}
}

// PostListResponse wraps paginated posts.
type PostListResponse struct {
	Items      []PostResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}
