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

// ResourceRepo implements repository.ResourceRepository over the shared pool.
type ResourceRepo struct {
	conn *sql.DB
}

var _ repository.ResourceRepository = (*ResourceRepo)(nil)

// Create inserts a resource and its tags in one transaction, so a failed tag
// insert never leaves a half-written resource behind.
//
// Pointer receiver pattern: after Create the caller's struct has the
// generated ID and the server-side timestamp.
func (r *ResourceRepo) Create(ctx context.Context, resource *model.Resource) error {
	resource.ID = xid.New().String()
	resource.CreatedAt = time.Now()

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning resource insert: %w", err)
	}
	// Rollback is a no-op after a successful Commit.
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO resources (id, title, description, url, type, created_at, user_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		resource.ID,
		resource.Title,
		resource.Description,
		resource.URL,
		string(resource.Type),
		resource.CreatedAt,
		resource.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting resource: %w", err)
	}

	// position preserves the order tags were submitted in.
	for i, tag := range resource.Tags {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO resource_tags (resource_id, position, tag) VALUES (?, ?, ?)`,
			resource.ID, i, tag,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting tag %q for resource %s: %w", tag, resource.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing resource insert: %w", err)
	}

	return nil
}

// GetByID retrieves a single resource with its tags.
// Returns apperror.ErrNotFound if it doesn't exist.
func (r *ResourceRepo) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	var res model.Resource
	var typ string

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, title, description, url, type, created_at, user_id
		 FROM resources WHERE id = ?`,
		id,
	).Scan(
		&res.ID,
		&res.Title,
		&res.Description,
		&res.URL,
		&typ,
		&res.CreatedAt,
		&res.UserID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFoundMsg("Resource not found")
		}
		return nil, fmt.Errorf("sqlite: getting resource %s: %w", id, err)
	}
	res.Type = model.ResourceType(typ)

	if res.Tags, err = r.tagsForResource(ctx, res.ID); err != nil {
		return nil, err
	}

	return &res, nil
}

// ListByUser returns every resource a user owns, newest first.
func (r *ResourceRepo) ListByUser(ctx context.Context, userID string) ([]model.Resource, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, title, description, url, type, created_at, user_id
		 FROM resources WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing resources for user %s: %w", userID, err)
	}
	defer rows.Close()

	return r.collectResources(ctx, rows)
}

// List returns resources across all users for the public feed, newest first,
// with pagination.
func (r *ResourceRepo) List(ctx context.Context, opts repository.ListOptions) ([]model.Resource, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, title, description, url, type, created_at, user_id
		 FROM resources
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing resources: %w", err)
	}
	defer rows.Close()

	return r.collectResources(ctx, rows)
}

// Delete removes a resource; its comments, likes and tags cascade.
func (r *ResourceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting resource %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete result for resource %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFoundMsg("Resource not found")
	}

	return nil
}

// collectResources drains a result set and attaches tags to each row.
// Tags are loaded only after the scan loop has exhausted (and thereby
// released) the rows — with a single-connection pool, a query issued while
// rows are still open would block on the connection forever.
func (r *ResourceRepo) collectResources(ctx context.Context, rows *sql.Rows) ([]model.Resource, error) {
	resources := []model.Resource{}
	for rows.Next() {
		var res model.Resource
		var typ string
		if err := rows.Scan(
			&res.ID,
			&res.Title,
			&res.Description,
			&res.URL,
			&typ,
			&res.CreatedAt,
			&res.UserID,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning resource row: %w", err)
		}
		res.Type = model.ResourceType(typ)
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating resource rows: %w", err)
	}

	for i := range resources {
		tags, err := r.tagsForResource(ctx, resources[i].ID)
		if err != nil {
			return nil, err
		}
		resources[i].Tags = tags
	}

	return resources, nil
}

func (r *ResourceRepo) tagsForResource(ctx context.Context, resourceID string) ([]string, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT tag FROM resource_tags WHERE resource_id = ? ORDER BY position`,
		resourceID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading tags for resource %s: %w", resourceID, err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("sqlite: scanning tag row: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating tag rows: %w", err)
	}

	return tags, nil
}
