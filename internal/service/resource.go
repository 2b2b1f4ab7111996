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

// Validation and pagination constants.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxTagCount          = 20
	DefaultFeedLimit     = 20
	MaxFeedLimit         = 100
)

// ResourceService handles the shared-link catalogue: creation, the owner's
// listing, the owner-only detail view, deletion, and the public feed.
//
// Every method that acts on a caller's behalf takes the identity explicitly
// (*model.User, nil for anonymous). The three-way ownership decision is
// auth.CanAct — this service never re-derives it.
type ResourceService struct {
	resources repository.ResourceRepository
	comments  repository.CommentRepository
	likes     repository.LikeRepository
	logger    *slog.Logger
}

// NewResourceService creates a ResourceService.
func NewResourceService(
	resources repository.ResourceRepository,
	comments repository.CommentRepository,
	likes repository.LikeRepository,
	logger *slog.Logger,
) *ResourceService {
	return &ResourceService{
		resources: resources,
		comments:  comments,
		likes:     likes,
		logger:    logger,
	}
}

// Create validates and saves a new resource owned by the caller.
// The creation timestamp is stamped server-side; anything the client sends
// for it is ignored by construction — it isn't even a parameter.
func (s *ResourceService) Create(
	ctx context.Context,
	user *model.User,
	title, description, url string,
	typ model.ResourceType,
	tags []string,
) (*model.Resource, error) {
	if user == nil {
		return nil, apperror.Unauthorized("You must be logged in to create a resource")
	}

	title = strings.TrimSpace(title)
	url = strings.TrimSpace(url)

	if title == "" {
		return nil, apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if url == "" {
		return nil, apperror.ValidationFailed("url", "url is required")
	}
	if len(description) > MaxDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	if !typ.Valid() {
		return nil, apperror.ValidationFailed("type",
			fmt.Sprintf("unknown resource type %q", typ))
	}
	if len(tags) > MaxTagCount {
		return nil, apperror.ValidationFailed("tags",
			fmt.Sprintf("at most %d tags allowed", MaxTagCount))
	}

	// Drop empty tags but keep the submitted order of the rest.
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			cleaned = append(cleaned, tag)
		}
	}

	resource := &model.Resource{
		Title:       title,
		Description: strings.TrimSpace(description),
		URL:         url,
		Type:        typ,
		Tags:        cleaned,
		UserID:      user.ID,
		Comments:    []model.Comment{},
		Likes:       []model.Like{},
	}
	if err := s.resources.Create(ctx, resource); err != nil {
		s.logger.Error("failed to create resource",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	s.logger.Info("resource created",
		slog.String("id", resource.ID),
		slog.String("userID", user.ID),
		slog.String("type", string(resource.Type)),
	)

	return resource, nil
}

// ListMine returns the caller's own resources.
func (s *ResourceService) ListMine(ctx context.Context, user *model.User) ([]model.Resource, error) {
	if user == nil {
		return nil, apperror.Unauthorized("You must be logged in to list your resources")
	}

	resources, err := s.resources.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}

	// This listing skips the comment/like lookups, but the JSON contract
	// still promises both keys as arrays.
	for i := range resources {
		resources[i].Comments = []model.Comment{}
		resources[i].Likes = []model.Like{}
	}
	return resources, nil
}

// Get returns a single resource with its comments and likes.
//
// The detail view is owner-only: anonymous → Unauthorized, another user →
// Forbidden. The identity check runs before the lookup, so anonymous
// callers always see 401, never a NotFound they could use to probe IDs.
func (s *ResourceService) Get(ctx context.Context, user *model.User, id string) (*model.Resource, error) {
	if user == nil {
		return nil, apperror.Unauthorized("You must be logged in to view this resource")
	}

	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if auth.CanAct(user, resource.UserID) != auth.Allowed {
		return nil, apperror.Forbidden("You cannot access this resource")
	}

	if err := s.attachDetails(ctx, resource); err != nil {
		return nil, err
	}
	return resource, nil
}

// Feed returns resources across all users, newest first, each with its
// comments and likes embedded. No identity required — this is the public
// read surface.
func (s *ResourceService) Feed(ctx context.Context, limit, offset int) ([]model.Resource, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	resources, err := s.resources.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		s.logger.Error("failed to list feed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing feed: %w", err)
	}

	for i := range resources {
		if err := s.attachDetails(ctx, &resources[i]); err != nil {
			return nil, err
		}
	}

	return resources, nil
}

// Delete removes a resource owned by the caller; its comments and likes
// cascade with it.
func (s *ResourceService) Delete(ctx context.Context, user *model.User, id string) error {
	if user == nil {
		return apperror.Unauthorized("You must be logged in to delete a resource")
	}

	resource, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if auth.CanAct(user, resource.UserID) != auth.Allowed {
		return apperror.Forbidden("You cannot access this resource")
	}

	if err := s.resources.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("resource deleted",
		slog.String("id", id),
		slog.String("userID", user.ID),
	)

	return nil
}

// attachDetails loads the comment and like collections onto a resource.
func (s *ResourceService) attachDetails(ctx context.Context, resource *model.Resource) error {
	comments, err := s.comments.ListByResource(ctx, resource.ID)
	if err != nil {
		return fmt.Errorf("loading comments for resource %s: %w", resource.ID, err)
	}
	likes, err := s.likes.ListByResource(ctx, resource.ID)
	if err != nil {
		return fmt.Errorf("loading likes for resource %s: %w", resource.ID, err)
	}

	resource.Comments = comments
	resource.Likes = likes
	return nil
}
