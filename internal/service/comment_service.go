package service

import (
	"context"
	"errors"

	"log/slog"

	"cogniboard/internal/apperrors"
	"cogniboard/internal/model"
	"cogniboard/internal/repository"

	"github.com/google/uuid"
)

// CommentService handles task comment threads. Authorization, including
// the author-only modification rule, happens in the access guard before
// these methods run.
type CommentService struct {
	comments *repository.CommentRepository
	logger   *slog.Logger
}

func NewCommentService(comments *repository.CommentRepository, logger *slog.Logger) *CommentService {
	return &CommentService{comments: comments, logger: logger}
}

type UpdateCommentInput struct {
	Body *string
}

// Create adds a comment authored by the acting user.
func (s *CommentService) Create(ctx context.Context, taskID, authorID uuid.UUID, body string) (*model.Comment, error) {
	comment := &model.Comment{
		ID:       uuid.New(),
		TaskID:   taskID,
		AuthorID: &authorID,
		Body:     body,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment created", "comment_id", comment.ID, "task_id", taskID, "author_id", authorID)

	created, err := s.comments.GetWithAuthor(ctx, comment.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Comment not found")
	}
	return created, err
}

// ListByTask returns a page of a task's comments, newest first.
func (s *CommentService) ListByTask(ctx context.Context, taskID uuid.UUID, skip, limit int) ([]model.Comment, error) {
	return s.comments.ListByTask(ctx, taskID, skip, limit)
}

// Update applies the provided fields only.
func (s *CommentService) Update(ctx context.Context, commentID uuid.UUID, in UpdateCommentInput) (*model.Comment, error) {
	fields := make(map[string]interface{})
	if in.Body != nil {
		fields["body"] = *in.Body
	}

	if len(fields) > 0 {
		if err := s.comments.Update(ctx, commentID, fields); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFound("Comment not found")
			}
			return nil, err
		}
		s.logger.Info("comment updated", "comment_id", commentID)
	}

	comment, err := s.comments.GetWithAuthor(ctx, commentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("Comment not found")
	}
	return comment, err
}

// Delete removes a comment.
func (s *CommentService) Delete(ctx context.Context, commentID uuid.UUID) error {
	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("Comment not found")
		}
		return err
	}

	s.logger.Info("comment deleted", "comment_id", commentID)
	return nil
}
