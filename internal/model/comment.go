package model

import "time"

// Comment is a remark left on a resource. Immutable once created — the only
// mutation is deletion, and only by its author.
type Comment struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
	AuthorID   string    `json:"authorId"`
	ResourceID string    `json:"resourceId"`
}
