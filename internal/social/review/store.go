package review

import (
	"context"

	"github.com/taibuivan/kritika/pkg/pagination"
)

type Repository interface {
	// ListByTitle returns a page of a title's reviews in publication order
	// (oldest first), plus the total count.
	ListByTitle(context context.Context, titleID string, params pagination.Params) ([]*Review, int, error)

	// FindByID returns one review with its author snapshot, or apperr.NotFound.
	FindByID(context context.Context, id string) (*Review, error)

	// FindByAuthorAndTitle returns the caller's existing review of a title,
	// or apperr.NotFound when they have not reviewed it yet.
	FindByAuthorAndTitle(context context.Context, authorID, titleID string) (*Review, error)

	// Create persists a review. A duplicate (author, title) pair surfaces as
	// the same validation error the service pre-check produces — the unique
	// constraint is the authority, the pre-check is a courtesy.
	Create(context context.Context, review *Review) error

	// Update persists a review's text and score. The (author, title) pair
	// never changes.
	Update(context context.Context, review *Review) error

	// Delete removes a review; its comments cascade at the schema level.
	Delete(context context.Context, id string) error
}

// TitleChecker verifies that a title exists before reviews are attached to it.
type TitleChecker interface {
	Exists(context context.Context, titleID string) error
}
