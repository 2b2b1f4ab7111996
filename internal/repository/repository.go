package repository

import (
	"context"

	"github.com/sakif/resource-hub/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Delete removes the user. The schema cascades the deletion to every
	// token, resource, comment and like the user owns.
	Delete(ctx context.Context, id string) error
}

type TokenRepository interface {
	Create(ctx context.Context, token *model.Token) error
	// GetByToken looks a token up by its exact string value. This runs on
	// every authenticated request, so implementations must make it a single
	// indexed lookup.
	GetByToken(ctx context.Context, tokenStr string) (*model.Token, error)
}

type ResourceRepository interface {
	Create(ctx context.Context, resource *model.Resource) error
	GetByID(ctx context.Context, id string) (*model.Resource, error)
	ListByUser(ctx context.Context, userID string) ([]model.Resource, error)
	List(ctx context.Context, opts ListOptions) ([]model.Resource, error)
	// Delete removes the resource; comments and likes cascade.
	Delete(ctx context.Context, id string) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	ListByResource(ctx context.Context, resourceID string) ([]model.Comment, error)
	Delete(ctx context.Context, id string) error
}

type LikeRepository interface {
	// Create inserts the like. Returns apperror.ErrConflict if the (user,
	// resource) pair already has one — the UNIQUE constraint decides, so
	// concurrent double-likes resolve in the database, not in Go.
	Create(ctx context.Context, like *model.Like) error
	GetByUserAndResource(ctx context.Context, userID, resourceID string) (*model.Like, error)
	ListByResource(ctx context.Context, resourceID string) ([]model.Like, error)
	Delete(ctx context.Context, id string) error
}
