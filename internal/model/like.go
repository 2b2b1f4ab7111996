package model

import "time"

// Like marks that a user liked a resource.
//
// At most one Like may exist per (user, resource) pair. That invariant is a
// UNIQUE constraint in the database, not an application-level check — two
// concurrent like requests race in SQLite and exactly one insert wins; the
// loser observes a constraint violation the repository translates to a
// Conflict error.
type Like struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	UserID     string    `json:"userId"`
	ResourceID string    `json:"resourceId"`
}
