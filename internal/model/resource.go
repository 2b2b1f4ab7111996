package model

import "time"

// ResourceType categorises a shared link.
type ResourceType string

const (
	TypeArticle ResourceType = "ARTICLE"
	TypeVideo   ResourceType = "VIDEO"
	TypeTool    ResourceType = "TOOL"
	TypeBook    ResourceType = "BOOK"
	TypeCourse  ResourceType = "COURSE"
	TypeOther   ResourceType = "OTHER"
)

// Valid reports whether the type is one of the known categories.
func (t ResourceType) Valid() bool {
	switch t {
	case TypeArticle, TypeVideo, TypeTool, TypeBook, TypeCourse, TypeOther:
		return true
	}
	return false
}

// Resource is a shared link, tagged and owned by the user who submitted it.
//
// Comments and Likes are child collections filled by the service layer.
// Every code path that returns a Resource to a handler assigns non-nil
// slices, so JSON clients always see the keys with [] rather than null or a
// missing field — the frontend iterates them without guarding.
//
// Tags keep their submission order.
type Resource struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	URL         string       `json:"url"`
	Type        ResourceType `json:"type"`
	Tags        []string     `json:"tags"`
	CreatedAt   time.Time    `json:"createdAt"`
	UserID      string       `json:"userId"`

	Comments []Comment `json:"comments"`
	Likes    []Like    `json:"likes"`
}
