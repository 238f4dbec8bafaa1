package title

import (
	"time"

	"github.com/taibuivan/kritika/internal/catalog/category"
	"github.com/taibuivan/kritika/internal/catalog/genre"
)

// Title is a catalogued work that can be reviewed (a film, a book, a record).
//
// Rating is never stored: it is computed on read as the rounded mean of the
// title's review scores, and stays null while no reviews exist.
type Title struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Year        int                `json:"year"`
	Description *string            `json:"description"`
	Rating      *int               `json:"rating"`
	Category    *category.Category `json:"category"`
	Genres      []genre.Genre      `json:"genres"`
	CreatedAt   time.Time          `json:"-"`
	UpdatedAt   time.Time          `json:"-"`
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldGenres      = "genre"
	FieldCategory    = "category"
	FieldOrdering    = "ordering"
)

const (
	MaxLenName        = 256
	MaxLenDescription = 10000
)
