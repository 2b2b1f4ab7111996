package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"
	"github.com/sakif/resource-hub/internal/apperror"
	"github.com/sakif/resource-hub/internal/model"
	"github.com/sakif/resource-hub/internal/repository"
)

// TokenRepo implements repository.TokenRepository over the shared pool.
type TokenRepo struct {
	conn *sql.DB
}

var _ repository.TokenRepository = (*TokenRepo)(nil)

// Create persists a freshly minted token. The token string and timestamps
// are set by the auth layer; only the row ID is generated here.
//
// tokens.token is UNIQUE, but with 512 bits of entropy a collision means the
// random source is broken — we surface it as a plain error rather than a
// Conflict the caller could act on.
func (r *TokenRepo) Create(ctx context.Context, token *model.Token) error {
	token.ID = xid.New().String()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO tokens (id, token, user_id, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		token.ID,
		token.Token,
		token.UserID,
		token.CreatedAt,
		token.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting token for user %s: %w", token.UserID, err)
	}

	return nil
}

// GetByToken looks a token up by its exact string value — a single indexed
// lookup on the UNIQUE column. Expiry is NOT checked here; the auth layer
// owns that rule, this is pure storage.
func (r *TokenRepo) GetByToken(ctx context.Context, tokenStr string) (*model.Token, error) {
	var t model.Token

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, token, user_id, created_at, expires_at
		 FROM tokens WHERE token = ?`,
		tokenStr,
	).Scan(
		&t.ID,
		&t.Token,
		&t.UserID,
		&t.CreatedAt,
		&t.ExpiresAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFoundMsg("token not found")
		}
		return nil, fmt.Errorf("sqlite: getting token: %w", err)
	}

	return &t, nil
}
