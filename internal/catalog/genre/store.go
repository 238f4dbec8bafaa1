package genre

import (
	"context"

	"github.com/taibuivan/kritika/pkg/pagination"
)

type Repository interface {
	// List returns a page of genres ordered by name, optionally filtered by a
	// case-insensitive name substring.
	List(context context.Context, search string, params pagination.Params) ([]*Genre, int, error)

	// GetBySlug returns the genre with the given slug, or apperr.NotFound.
	GetBySlug(context context.Context, slug string) (*Genre, error)

	// Create persists a new genre. Name and slug collisions surface as
	// field-keyed validation errors.
	Create(context context.Context, genre *Genre) error

	// Delete removes the genre with the given slug. Junction rows linking it
	// to titles are removed with it.
	Delete(context context.Context, slug string) error
}
