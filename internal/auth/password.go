// Package auth holds the authentication core: password hashing, opaque
// session tokens, the bearer-header middleware, and the ownership predicate
// every content service runs before mutating owned data.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor.
//
// Cost 12 takes roughly ~250ms on a modern server — negligible for login,
// brutal for attackers. Tune so hashing stays in the 200–300ms range on
// production hardware.
const defaultCost = 12

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so the cost can be injected in tests —
// cost 4 (the bcrypt minimum) makes tests fast without changing the logic
// under test.
//
// bcrypt generates a random salt per hash and embeds it in the output, so
// there is no separate salt column, and CompareHashAndPassword verifies in
// constant time. Storing anything weaker (or, as the system this replaces
// did, the plaintext itself) is not an option.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost (12).
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a caller-chosen
// cost. Use cost 4 in tests to avoid the ~250ms per hash of cost 12.
//
// Do NOT use in production — cost 4 is far too weak.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes the given plaintext password with bcrypt. The output is a
// self-contained string (version, cost, salt, hash) — store it directly.
//
// Returns an error if the plaintext is over 72 bytes: bcrypt silently
// truncates longer inputs, so we reject them explicitly instead.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
// Returns nil on a match. The comparison is constant-time.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
