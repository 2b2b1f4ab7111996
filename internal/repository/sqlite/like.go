package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/resource-hub/internal/apperror"
	"github.com/sakif/resource-hub/internal/model"
	"github.com/sakif/resource-hub/internal/repository"
)

// LikeRepo implements repository.LikeRepository over the shared pool.
type LikeRepo struct {
	conn *sql.DB
}

var _ repository.LikeRepository = (*LikeRepo)(nil)

// Create inserts the like. The UNIQUE(user_id, resource_id) constraint is
// the whole concurrency story: two simultaneous like requests for the same
// pair both reach this INSERT, SQLite lets exactly one through, and the
// loser's constraint violation becomes a Conflict. No application-level
// locking, no check-then-insert window.
func (r *LikeRepo) Create(ctx context.Context, like *model.Like) error {
	like.ID = xid.New().String()
	like.CreatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO likes (id, created_at, user_id, resource_id)
		 VALUES (?, ?, ?, ?)`,
		like.ID,
		like.CreatedAt,
		like.UserID,
		like.ResourceID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("You already liked this resource")
		}
		return fmt.Errorf("sqlite: inserting like on resource %s: %w", like.ResourceID, err)
	}

	return nil
}

func (r *LikeRepo) GetByUserAndResource(ctx context.Context, userID, resourceID string) (*model.Like, error) {
	var l model.Like

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, created_at, user_id, resource_id
		 FROM likes WHERE user_id = ? AND resource_id = ?`,
		userID, resourceID,
	).Scan(
		&l.ID,
		&l.CreatedAt,
		&l.UserID,
		&l.ResourceID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFoundMsg("like not found")
		}
		return nil, fmt.Errorf("sqlite: getting like for user %s on resource %s: %w", userID, resourceID, err)
	}

	return &l, nil
}

func (r *LikeRepo) ListByResource(ctx context.Context, resourceID string) ([]model.Like, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, created_at, user_id, resource_id
		 FROM likes WHERE resource_id = ?
		 ORDER BY created_at ASC, id ASC`,
		resourceID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing likes for resource %s: %w", resourceID, err)
	}
	defer rows.Close()

	likes := []model.Like{}
	for rows.Next() {
		var l model.Like
		if err := rows.Scan(
			&l.ID,
			&l.CreatedAt,
			&l.UserID,
			&l.ResourceID,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning like row: %w", err)
		}
		likes = append(likes, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating like rows: %w", err)
	}

	return likes, nil
}

func (r *LikeRepo) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM likes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting like %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete result for like %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFoundMsg("like not found")
	}

	return nil
}
