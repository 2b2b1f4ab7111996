package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/sakif/resource-hub/internal/model"
)

// TokenTTL is the fixed lifetime of a session token: one hour from issuance.
// Deliberately a constant, not configuration — every token in the system
// lives exactly this long.
const TokenTTL = time.Hour

// tokenBytes is the entropy of a token string: 64 random bytes, hex encoded
// to 128 characters. 512 bits — unguessable by any brute-force budget.
const tokenBytes = 64

// NewToken mints a session token for the given user: a fresh random string,
// created now, expiring at now + TokenTTL.
//
// WHY AN OPAQUE STRING AND NOT A SIGNED TOKEN (JWT)?
// The token carries no claims. Its only meaning is the database row it names:
// validation is "does this string exist in the tokens table, and is it still
// before expires_at". That costs one indexed lookup per request, and in
// exchange the store stays authoritative — deleting the row (the user-deletion
// cascade) ends the session instantly, which a self-validating token cannot
// do. Multiple live tokens per user are fine; minting never touches earlier
// ones.
//
// The caller persists the returned Token via the TokenRepository.
func NewToken(user *model.User) (*model.Token, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("auth: generating token entropy: %w", err)
	}

	now := time.Now()
	return &model.Token{
		Token:     hex.EncodeToString(buf),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(TokenTTL),
	}, nil
}
