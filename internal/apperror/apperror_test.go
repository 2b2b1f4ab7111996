// GO TESTING BASICS:
// 1. Test files MUST end in _test.go — Go's tooling auto-discovers them
// 2. Test functions MUST start with "Test" and take *testing.T as the only param
// 3. Same package as the code being tested (so we can access unexported stuff)
// 4. Run with: go test ./internal/apperror/ -v  (-v = verbose, shows each test name)
package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	// Each test case checks that errors.Is() correctly identifies the error kind
	tests := []struct {
		name      string // Descriptive name for test output
		err       error  // The error to test
		target    error  // What we expect it to match
		wantMatch bool   // Should errors.Is() return true?
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("resource", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "NotFoundMsg wraps ErrNotFound",
			err:       NotFoundMsg("User not found"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("title", "title is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("Username already exists"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("You cannot access this resource"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("You must be logged in"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "Unauthorized does NOT match ErrForbidden",
			err:       Unauthorized("You must be logged in"),
			target:    ErrForbidden,
			wantMatch: false,
		},
		{
			name:      "Forbidden does NOT match ErrUnauthorized",
			err:       Forbidden("not yours"),
			target:    ErrUnauthorized,
			wantMatch: false,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("resource", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("comment", "abc123"),
			wantMessage: "comment not found with id abc123",
		},
		{
			name:        "NotFoundMsg uses custom message",
			err:         NotFoundMsg("User not found"),
			wantMessage: "User not found",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("url", "url is required"),
			wantMessage: "url is required",
		},
		{
			name:        "Conflict uses custom message",
			err:         Conflict("You already liked this resource"),
			wantMessage: "You already liked this resource",
		},
		{
			name:        "Unauthorized uses custom message",
			err:         Unauthorized("You must be logged in to comment"),
			wantMessage: "You must be logged in to comment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// .Error() should return the human-readable message
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	// Verify that Unwrap() returns the underlying sentinel error.
	// This is what makes errors.Is() work — it "unwraps" the chain.
	err := NotFound("resource", "abc123")
	unwrapped := err.Unwrap()

	if unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestValidationFailedField(t *testing.T) {
	// Verify that the Field is set correctly for validation errors.
	// This lets handlers tell the frontend WHICH field was invalid.
	err := ValidationFailed("email", "invalid email format")

	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
}
