package auth

import (
	"context"

	"github.com/sakif/resource-hub/internal/model"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. A plain string key like
// "currentUser" could be read or shadowed by any package that knows the
// string. A package-private type means only this package can create the key,
// so only this package controls the value.
type contextKey string

const userKey contextKey = "currentUser"

// WithUser returns a context carrying the authenticated user.
// Only the middleware in this package should need to call it directly;
// it is exported for handler tests that build requests by hand.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user from the request context.
//
// Returns (nil, false) if the request is anonymous — no token, a malformed
// header, or an expired/unknown token. Callers treat absence as "anonymous",
// never as an error; whether anonymity is acceptable is each endpoint's own
// decision.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// Decision is the three-way outcome of an ownership check.
type Decision int

const (
	// Allowed: an identity is present and it owns the target.
	Allowed Decision = iota
	// Unauthenticated: no identity at all — the caller must log in.
	// Handlers map this to 401.
	Unauthenticated
	// Forbidden: an identity is present but it is not the owner.
	// Logging in again won't help; handlers map this to 403.
	Forbidden
)

// CanAct is the single authorization predicate for every owned entity.
// Given the caller's identity (possibly nil) and the owning user ID of the
// target (a resource's userId, a comment's authorId), it decides the
// three-way outcome.
//
// Every content service calls this instead of re-deriving the present/absent/
// mismatch logic per entity — the 401-vs-403 distinction lives in exactly one
// place.
func CanAct(user *model.User, ownerID string) Decision {
	if user == nil {
		return Unauthenticated
	}
	if user.ID != ownerID {
		return Forbidden
	}
	return Allowed
}
