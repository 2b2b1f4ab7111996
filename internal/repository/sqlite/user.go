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

// UserRepo implements repository.UserRepository over the shared pool.
type UserRepo struct {
	conn *sql.DB
}

// compile-time check that *UserRepo implements repository.UserRepository
var _ repository.UserRepository = (*UserRepo)(nil)

// Create inserts a new user.
//
// The caller (AuthService) has already checked username and email for
// availability, but that check-then-insert sequence is not atomic — two
// concurrent registrations with the same username can both pass the check.
// The UNIQUE constraints settle it here: one INSERT wins, the other comes
// back as a Conflict.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	// github_id is NULL for password accounts; SQLite allows any number of
	// NULLs in a UNIQUE column, so only real GitHub IDs are deduplicated.
	var githubID sql.NullInt64
	if user.GitHubID != 0 {
		githubID = sql.NullInt64{Int64: user.GitHubID, Valid: true}
	}

	// Same for email: GitHub profiles can hide it, and two hidden emails
	// must not collide on UNIQUE('').
	var email sql.NullString
	if user.Email != "" {
		email = sql.NullString{String: user.Email, Valid: true}
	}

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, display_name, github_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		email,
		user.PasswordHash,
		user.DisplayName,
		githubID,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("username or email already exists")
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Username, err)
	}

	return nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(r.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, display_name, github_id, created_at
		 FROM users WHERE id = ?`, id),
		fmt.Sprintf("getting user %s", id), apperror.NotFound("user", id))
}

// GetByUsername retrieves a user by username — the login lookup.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return scanUser(r.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, display_name, github_id, created_at
		 FROM users WHERE username = ?`, username),
		fmt.Sprintf("getting user by username %s", username),
		apperror.NotFoundMsg("User not found"))
}

// GetByGitHubID retrieves the account provisioned for a GitHub identity.
func (r *UserRepo) GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error) {
	return scanUser(r.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, display_name, github_id, created_at
		 FROM users WHERE github_id = ?`, githubID),
		fmt.Sprintf("getting user by github id %d", githubID),
		apperror.NotFoundMsg("User not found"))
}

// scanUser reads one user row, translating sql.ErrNoRows to the supplied
// not-found error so each lookup keeps its own message.
func scanUser(row *sql.Row, op string, notFound error) (*model.User, error) {
	var u model.User
	var githubID sql.NullInt64
	var email sql.NullString
	err := row.Scan(
		&u.ID,
		&u.Username,
		&email,
		&u.PasswordHash,
		&u.DisplayName,
		&githubID,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound
		}
		return nil, fmt.Errorf("sqlite: %s: %w", op, err)
	}
	u.GitHubID = githubID.Int64
	u.Email = email.String
	return &u, nil
}

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var n int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ?`, username,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking username %s: %w", username, err)
	}
	return n > 0, nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, email,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking email %s: %w", email, err)
	}
	return n > 0, nil
}

// Delete removes a user. The ON DELETE CASCADE foreign keys take the user's
// tokens, resources, comments and likes with them — and the resource cascade
// in turn removes comments and likes left by OTHER users on the deleted
// user's resources. One statement, fully transactional inside SQLite.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete result for user %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("user", id)
	}

	return nil
}
