// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-layer split:
//
//	Handler (HTTP)     → parses requests, writes responses
//	Service (business) → validates, enforces ownership rules, orchestrates
//	Repository (data)  → reads/writes the database
//
// Services accept primitives and model values plus the caller's identity
// (*model.User, nil for anonymous) — never *http.Request. The identity is
// threaded explicitly through every call; nothing here reads ambient state.
// Services return apperror values; handlers translate them to status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/resource-hub/internal/apperror"
	"github.com/sakif/resource-hub/internal/auth"
	"github.com/sakif/resource-hub/internal/model"
	"github.com/sakif/resource-hub/internal/repository"
)

// AuthService owns registration, login, and token resolution.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users     repository.UserRepository   → account records
//   - tokens    repository.TokenRepository  → session token records
//   - passwords *auth.PasswordService       → bcrypt hashing
//   - logger    *slog.Logger                → structured logging
type AuthService struct {
	users     repository.UserRepository
	tokens    repository.TokenRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// compile-time check: AuthService satisfies the middleware's resolver contract
var _ auth.TokenResolver = (*AuthService)(nil)

// Register creates a new account.
//
// Username and email are checked for availability first so the caller gets a
// precise message ("Username already exists" vs "Email already exists").
// That check-then-insert is NOT atomic: two concurrent registrations with the
// same username can both pass it. The UNIQUE constraints in the store are the
// real guarantee — the losing insert comes back as a Conflict, and we surface
// it as such rather than as an internal fault.
//
// The password is bcrypt-hashed before it goes anywhere near the repository.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: checking username %s: %w", username, err)
	}
	if taken {
		return nil, apperror.Conflict("Username already exists")
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("service/auth: checking email %s: %w", email, err)
	}
	if taken {
		return nil, apperror.Conflict("Email already exists")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// A Conflict here means we lost the race after the explicit checks
		// passed — propagate it as-is so the caller still sees 409.
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies credentials and mints a fresh session token.
//
// Unknown username → NotFound. Wrong password → Unauthorized. On success the
// opaque token string is returned to the caller; the Token row (creation,
// expiry = creation + auth.TokenTTL) is persisted.
//
// Login never touches earlier tokens — a user may hold any number of live
// sessions, and there is no single-session rule to enforce.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", err
	}

	// An OAuth-provisioned account has no password hash at all; treat any
	// password attempt against it as a plain mismatch.
	if user.PasswordHash == "" {
		return "", apperror.Unauthorized("Invalid password")
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return "", apperror.Unauthorized("Invalid password")
	}

	return s.issueToken(ctx, user)
}

// LoginWithGitHub finishes the OAuth callback: resolve or provision the local
// account for the GitHub identity, then mint the same opaque session token
// password login produces.
//
// First sign-in creates the account: username is the GitHub login, no
// password hash (the account can only ever sign in via GitHub). If that
// username or email is already taken by a password account, the insert loses
// to the UNIQUE constraint and the caller sees a Conflict.
func (s *AuthService) LoginWithGitHub(ctx context.Context, ghUser *auth.GitHubUser) (string, error) {
	if ghUser == nil {
		return "", fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user, err := s.users.GetByGitHubID(ctx, ghUser.ID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			return "", fmt.Errorf("service/auth: looking up GitHub user %d: %w", ghUser.ID, err)
		}

		user = &model.User{
			Username:    ghUser.Login,
			Email:       ghUser.Email,
			DisplayName: ghUser.Name,
			GitHubID:    ghUser.ID,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return "", err
		}

		s.logger.Info("user provisioned via GitHub",
			slog.String("userID", user.ID),
			slog.String("username", user.Username),
		)
	}

	return s.issueToken(ctx, user)
}

// issueToken mints and persists a token, returning its opaque string.
func (s *AuthService) issueToken(ctx context.Context, user *model.User) (string, error) {
	token, err := auth.NewToken(user)
	if err != nil {
		return "", fmt.Errorf("service/auth: minting token for user %s: %w", user.ID, err)
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return "", fmt.Errorf("service/auth: persisting token for user %s: %w", user.ID, err)
	}

	s.logger.Info("session token issued",
		slog.String("userID", user.ID),
		slog.Time("expiresAt", token.ExpiresAt),
	)

	return token.Token, nil
}

// ResolveToken maps a bearer token string to its owning user.
//
// (nil, nil) — NOT an error — when the token is unknown or expired: callers
// treat absence as "anonymous". A non-nil error means the store itself
// failed. This runs on every authenticated request, so it is exactly two
// indexed lookups: the token row, then its user.
//
// Expiry is strict and lazy: a token is dead AT expires_at, and nothing
// sweeps expired rows — they simply stop resolving and disappear when the
// owning user is deleted.
func (s *AuthService) ResolveToken(ctx context.Context, tokenStr string) (*model.User, error) {
	if tokenStr == "" {
		return nil, nil
	}

	token, err := s.tokens.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("service/auth: resolving token: %w", err)
	}

	if token.Expired(time.Now()) {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		// A token row without its user can only exist mid-cascade; the
		// session is gone either way.
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("service/auth: loading user for token: %w", err)
	}

	return user, nil
}

// GetUserByID returns the user for the given internal ID.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetByID(ctx, id)
}

// DeleteAccount removes the caller's own account. The store cascades the
// deletion to every token, resource, comment and like the user owns —
// afterward none of them remain retrievable, and all the user's sessions are
// dead.
func (s *AuthService) DeleteAccount(ctx context.Context, user *model.User) error {
	if user == nil {
		return apperror.Unauthorized("You must be logged in to delete your account")
	}

	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}

	s.logger.Info("user deleted",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return nil
}
