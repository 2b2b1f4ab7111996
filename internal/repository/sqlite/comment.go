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

// CommentRepo implements repository.CommentRepository over the shared pool.
type CommentRepo struct {
	conn *sql.DB
}

var _ repository.CommentRepository = (*CommentRepo)(nil)

func (r *CommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	comment.ID = xid.New().String()
	comment.CreatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO comments (id, text, created_at, author_id, resource_id)
		 VALUES (?, ?, ?, ?, ?)`,
		comment.ID,
		comment.Text,
		comment.CreatedAt,
		comment.AuthorID,
		comment.ResourceID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting comment on resource %s: %w", comment.ResourceID, err)
	}

	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, text, created_at, author_id, resource_id
		 FROM comments WHERE id = ?`,
		id,
	).Scan(
		&c.ID,
		&c.Text,
		&c.CreatedAt,
		&c.AuthorID,
		&c.ResourceID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFoundMsg("Comment not found")
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", id, err)
	}

	return &c, nil
}

// ListByResource returns a resource's comments, oldest first — the order a
// comment thread reads in.
func (r *CommentRepo) ListByResource(ctx context.Context, resourceID string) ([]model.Comment, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, text, created_at, author_id, resource_id
		 FROM comments WHERE resource_id = ?
		 ORDER BY created_at ASC, id ASC`,
		resourceID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for resource %s: %w", resourceID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(
			&c.ID,
			&c.Text,
			&c.CreatedAt,
			&c.AuthorID,
			&c.ResourceID,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comment rows: %w", err)
	}

	return comments, nil
}

func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comment %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete result for comment %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFoundMsg("Comment not found")
	}

	return nil
}
