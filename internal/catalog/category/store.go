package category

import (
	"context"

	"github.com/taibuivan/kritika/pkg/pagination"
)

type Repository interface {
	// List returns a page of categories ordered by name, optionally filtered
	// by a case-insensitive name substring.
	List(context context.Context, search string, params pagination.Params) ([]*Category, int, error)

	// GetBySlug returns the category with the given slug, or apperr.NotFound.
	GetBySlug(context context.Context, slug string) (*Category, error)

	// Create persists a new category. Name and slug collisions surface as
	// field-keyed validation errors.
	Create(context context.Context, category *Category) error

	// Delete removes the category with the given slug. Titles referencing it
	// keep existing with their category cleared.
	Delete(context context.Context, slug string) error
}
