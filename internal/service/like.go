package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sakif/resource-hub/internal/apperror"
	"github.com/sakif/resource-hub/internal/model"
	"github.com/sakif/resource-hub/internal/repository"
)

// LikeService handles liking and unliking resources. A user can hold at
// most one like per resource; the database enforces that, so concurrent
// double-likes collapse into a single row without any pre-check here.
type LikeService struct {
	likes     repository.LikeRepository
	resources repository.ResourceRepository
	logger    *slog.Logger
}

func NewLikeService(likes repository.LikeRepository, resources repository.ResourceRepository, logger *slog.Logger) *LikeService {
	return &LikeService{
		likes:     likes,
		resources: resources,
		logger:    logger,
	}
}

// Like records that the caller likes the given resource.
func (s *LikeService) Like(ctx context.Context, user *model.User, resourceID string) (*model.Like, error) {
	if user == nil {
		return nil, apperror.Unauthorized("You must be logged in to like a resource")
	}

	// The parent must exist before we attach a like to it.
	if _, err := s.resources.GetByID(ctx, resourceID); err != nil {
		return nil, err
	}

	like := &model.Like{
		UserID:     user.ID,
		ResourceID: resourceID,
	}
	if err := s.likes.Create(ctx, like); err != nil {
		return nil, err
	}

	s.logger.Info("resource liked",
		slog.String("resourceID", resourceID),
		slog.String("userID", user.ID),
	)

	return like, nil
}

// Unlike removes the caller's like from the given resource. Unliking a
// resource the caller never liked is a client mistake, not a missing
// entity, and is reported as a validation failure.
func (s *LikeService) Unlike(ctx context.Context, user *model.User, resourceID string) error {
	if user == nil {
		return apperror.Unauthorized("You must be logged in to unlike a resource")
	}

	if _, err := s.resources.GetByID(ctx, resourceID); err != nil {
		return err
	}

	like, err := s.likes.GetByUserAndResource(ctx, user.ID, resourceID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.ValidationFailed("like", "You haven't liked this resource")
		}
		return err
	}

	if err := s.likes.Delete(ctx, like.ID); err != nil {
		return err
	}

	s.logger.Info("resource unliked",
		slog.String("resourceID", resourceID),
		slog.String("userID", user.ID),
	)

	return nil
}
