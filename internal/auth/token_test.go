package auth

import (
	"testing"
	"time"

	"github.com/sakif/resource-hub/internal/model"
)

func TestNewToken(t *testing.T) {
	user := &model.User{ID: "user-1"}

	token, err := NewToken(user)
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}

	// 64 random bytes, hex encoded
	if len(token.Token) != 128 {
		t.Errorf("token length = %d, want 128", len(token.Token))
	}
	if token.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", token.UserID, "user-1")
	}
	if got := token.ExpiresAt.Sub(token.CreatedAt); got != TokenTTL {
		t.Errorf("lifetime = %v, want %v", got, TokenTTL)
	}
}

func TestNewToken_Unique(t *testing.T) {
	user := &model.User{ID: "user-1"}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewToken(user)
		if err != nil {
			t.Fatalf("NewToken() error = %v", err)
		}
		if seen[token.Token] {
			t.Fatal("NewToken() produced a duplicate token string")
		}
		seen[token.Token] = true
	}
}

// A token dies AT expires_at, not after it.
func TestTokenExpired_Boundary(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := &model.Token{ExpiresAt: expiry}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"well before expiry", expiry.Add(-30 * time.Minute), false},
		{"one nanosecond before", expiry.Add(-time.Nanosecond), false},
		{"exactly at expiry", expiry, true},
		{"after expiry", expiry.Add(time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := token.Expired(tt.now); got != tt.want {
				t.Errorf("Expired(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
