package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/resource-hub/internal/apperror"
	"github.com/sakif/resource-hub/internal/auth"
	"github.com/sakif/resource-hub/internal/model"
	"github.com/sakif/resource-hub/internal/repository"
)

const MaxCommentLength = 2000

// CommentService handles comments on resources. Comments are immutable:
// the only operations are add and delete, and deletion is author-only.
type CommentService struct {
	comments  repository.CommentRepository
	resources repository.ResourceRepository
	logger    *slog.Logger
}

// NewCommentService creates a CommentService.
func NewCommentService(
	comments repository.CommentRepository,
	resources repository.ResourceRepository,
	logger *slog.Logger,
) *CommentService {
	return &CommentService{
		comments:  comments,
		resources: resources,
		logger:    logger,
	}
}

// Add attaches a comment to a resource. Requires an identity; the parent
// resource must exist. The timestamp is stamped server-side.
func (s *CommentService) Add(ctx context.Context, user *model.User, resourceID, text string) (*model.Comment, error) {
	if user == nil {
		return nil, apperror.Unauthorized("You must be logged in to comment")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "comment text is required")
	}
	if len(text) > MaxCommentLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}

	// Commenting is open to any logged-in user, but only on a resource that
	// actually exists.
	resource, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		Text:       text,
		AuthorID:   user.ID,
		ResourceID: resource.ID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		s.logger.Error("failed to create comment",
			slog.String("resourceID", resourceID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment added",
		slog.String("id", comment.ID),
		slog.String("resourceID", resource.ID),
		slog.String("authorID", user.ID),
	)

	return comment, nil
}

// Delete removes a comment. Author-only: anonymous callers get Unauthorized,
// any other identity gets Forbidden — the two failures are distinct because
// their remediation is (log in vs. give up).
func (s *CommentService) Delete(ctx context.Context, user *model.User, commentID string) error {
	if user == nil {
		return apperror.Unauthorized("You must be logged in to delete a comment")
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if auth.CanAct(user, comment.AuthorID) != auth.Allowed {
		return apperror.Forbidden("You can only delete your own comments")
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return err
	}

	s.logger.Info("comment deleted",
		slog.String("id", commentID),
		slog.String("authorID", user.ID),
	)

	return nil
}
