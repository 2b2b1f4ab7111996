package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/sakif/resource-hub/internal/model"
)

// bearerPrefix is the fixed header format: the literal prefix, then the
// opaque token string. Exactly these 7 characters are stripped.
const bearerPrefix = "Bearer "

// TokenResolver resolves a bearer token string to its owning user.
// (nil, nil) means "no such live token" — anonymous, not an error.
// AuthService implements it; the middleware takes the small interface so this
// package never imports the service layer.
type TokenResolver interface {
	ResolveToken(ctx context.Context, tokenStr string) (*model.User, error)
}

// WithIdentity is the request gate: it runs once per request, before any
// handler, and attaches the caller's identity to the context when a valid
// bearer token is present.
//
// IT NEVER REJECTS. A missing header, a malformed header, an unknown token,
// an expired token — all of these just mean the request proceeds anonymously.
// Whether anonymity is acceptable is decided per endpoint (the public feed
// requires nothing; every mutation requires a user). Rejecting here would
// break the public routes and blur the 401-vs-403 distinction the services
// are responsible for.
//
// A resolver error (the database is down, not "token unknown") is the one
// case that fails the request outright, as a 500 — pretending the caller was
// anonymous would turn an outage into silent permission failures.
func WithIdentity(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.ResolveToken(r.Context(), tokenStr)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"internal_error","message":"An internal error occurred"}`))
				return
			}
			if user != nil {
				r = r.WithContext(WithUser(r.Context(), user))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token string from the Authorization header.
// Returns ok=false for an absent or malformed header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := header[len(bearerPrefix):]
	return token, token != ""
}
