package category

import "time"

// Category groups titles by their broad kind of work (e.g. "Films", "Books").
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"-"`
}

const (
	FieldName = "name"
	FieldSlug = "slug"

	MaxLenName = 256
	MaxLenSlug = 50
)
