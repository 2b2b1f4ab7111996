package model

import "time"

// Token is an opaque bearer credential bound to one user.
//
// The Token string is 64 bytes of crypto/rand output, hex encoded — 512 bits
// of entropy, far beyond guessable. Unlike a JWT it carries no information
// itself: validity means "this exact string exists in the tokens table AND
// the current time is strictly before ExpiresAt". That makes resolution a
// single indexed lookup, and it means deleting the row (e.g. via the user
// cascade) kills the session immediately.
//
// Tokens are never updated after creation. Expired rows are not swept; they
// simply stop resolving.
type Token struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the token is no longer valid at the given instant.
// Validity is strict: a token is dead AT its expiry time, not just after.
func (t *Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
