package comment

import (
	"context"

	"github.com/taibuivan/kritika/internal/social/review"
	"github.com/taibuivan/kritika/pkg/pagination"
)

type Repository interface {
	// ListByReview returns a page of a review's comments in publication order
	// (oldest first), plus the total count.
	ListByReview(context context.Context, reviewID string, params pagination.Params) ([]*Comment, int, error)

	// FindByID returns one comment with its author snapshot, or apperr.NotFound.
	FindByID(context context.Context, id string) (*Comment, error)

	// Create persists a comment.
	Create(context context.Context, comment *Comment) error

	// Update persists a comment's text.
	Update(context context.Context, comment *Comment) error

	// Delete removes a comment.
	Delete(context context.Context, id string) error
}

// ReviewFinder resolves a review through its title path, enforcing that the
// review actually belongs to the addressed title.
type ReviewFinder interface {
	Get(context context.Context, titleID, reviewID string) (*review.Review, error)
}
