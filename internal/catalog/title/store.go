package title

import (
	"context"

	"github.com/taibuivan/kritika/internal/catalog/category"
	"github.com/taibuivan/kritika/internal/catalog/genre"
	"github.com/taibuivan/kritika/pkg/pagination"
)

type Repository interface {
	// List returns a filtered, paginated page of titles with their computed
	// ratings, categories, and genres, plus the total match count. The genre
	// filter joins through the junction table; results stay distinct.
	List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error)

	// FindByID returns one fully hydrated title, or apperr.NotFound.
	FindByID(context context.Context, id string) (*Title, error)

	// Create persists a title and its genre links in one transaction.
	Create(context context.Context, title *Title, categoryID *string, genreIDs []string) error

	// Update persists the title's fields and replaces its genre link set in
	// one transaction. A nil genreIDs keeps the existing links.
	Update(context context.Context, title *Title, categoryID *string, genreIDs []string) error

	// Delete removes a title; reviews and comments cascade at the schema level.
	Delete(context context.Context, id string) error
}

// GenreFinder resolves genre slugs for title writes.
type GenreFinder interface {
	GetBySlug(context context.Context, slug string) (*genre.Genre, error)
}

// CategoryFinder resolves category slugs for title writes.
type CategoryFinder interface {
	GetBySlug(context context.Context, slug string) (*category.Category, error)
}
