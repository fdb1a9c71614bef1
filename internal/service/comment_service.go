package service

import (
	"context"
	"errors"

	"github.com/titouancv/mapinned/internal/models"
	"github.com/titouancv/mapinned/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	photoRepo   repository.PhotoRepository
}

type CreateCommentInput struct {
	UserID  string
	PhotoID uint
	Content string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	photoRepo repository.PhotoRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		photoRepo:   photoRepo,
	}
}

// CreateComment inserts a comment authored by the calling user. The target
// photo must exist; a comment is never allowed to dangle.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	if _, err := s.photoRepo.GetByID(ctx, in.PhotoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Photo", in.PhotoID)
		}
		return nil, err
	}

	comment := &models.Comment{
		Content: in.Content,
		UserID:  in.UserID,
		PhotoID: in.PhotoID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	// Re-fetch so the response embeds the author.
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns the comments of a photo, newest first.
func (s *CommentService) ListComments(ctx context.Context, photoID uint) ([]*models.Comment, error) {
	if _, err := s.photoRepo.GetByID(ctx, photoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Photo", photoID)
		}
		return nil, err
	}
	return s.commentRepo.ListByPhoto(ctx, photoID)
}
