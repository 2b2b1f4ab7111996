// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// WHY PasswordHash AND NOT Password?
// We never store the plaintext credential. The auth.PasswordService hashes it
// with bcrypt before it reaches the repository, and login verifies against the
// hash with a constant-time comparison. The `json:"-"` tag guarantees the
// hash can never leak into an API response, no matter which handler
// serializes a User.
//
// Username and Email both carry UNIQUE constraints in the database. The
// service layer checks them first (for friendly error messages), but the
// constraint is the source of truth under concurrent registrations.
// GitHubID is set only for accounts provisioned through the GitHub OAuth
// sign-in path; it is zero for password accounts. OAuth accounts have an
// empty PasswordHash and can never log in with a password.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"displayName,omitempty"` // Optional profile name (may be empty)
	GitHubID     int64     `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
