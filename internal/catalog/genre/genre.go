package genre

import "time"

// Genre labels a title's thematic kind (e.g. "Drama", "Comedy"). A title may
// carry several genres.
type Genre struct {
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
