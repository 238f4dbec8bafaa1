package comment

import (
	"context"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/internal/social/review"
	"github.com/taibuivan/kritika/pkg/pagination"
	"github.com/taibuivan/kritika/pkg/pointer"
	"github.com/taibuivan/kritika/pkg/uuidv7"
)

type Service struct {
	repo    Repository
	reviews ReviewFinder
}

func NewService(repo Repository, reviews ReviewFinder) *Service {
	return &Service{repo: repo, reviews: reviews}
}

type CreateInput struct {
	Text string
}

type UpdateInput struct {
	Text *string
}

func (service *Service) List(context context.Context, titleID, reviewID string, params pagination.Params) ([]*Comment, int, error) {
	if _, err := service.reviews.Get(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListByReview(context, reviewID, params)
}

// Get returns one comment, verifying the full title/review/comment path.
func (service *Service) Get(context context.Context, titleID, reviewID, commentID string) (*Comment, error) {
	if _, err := service.reviews.Get(context, titleID, reviewID); err != nil {
		return nil, err
	}

	entity, err := service.repo.FindByID(context, commentID)
	if err != nil {
		return nil, err
	}

	if entity.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment not found")
	}

	return entity, nil
}

// Create attaches the caller's comment to a review. The author is always the
// authenticated caller.
func (service *Service) Create(context context.Context, titleID, reviewID string, claims *sec.AuthClaims, input CreateInput) (*Comment, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, input.Text)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.reviews.Get(context, titleID, reviewID); err != nil {
		return nil, err
	}

	entity := &Comment{
		ID:       uuidv7.New(),
		ReviewID: reviewID,
		Author:   review.Author{ID: claims.UserID, Username: claims.Username},
		Text:     input.Text,
	}

	if err := service.repo.Create(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// Update edits a comment's text under the same policy as reviews: author,
// moderator, or admin.
func (service *Service) Update(context context.Context, titleID, reviewID, commentID string, claims *sec.AuthClaims, input UpdateInput) (*Comment, error) {
	entity, err := service.Get(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !sec.CanModerate(claims, entity) {
		return nil, apperr.Forbidden("You may only edit your own comments")
	}

	entity.Text = pointer.Fallback(input.Text, entity.Text)

	validator := &validate.Validator{}
	validator.Required(FieldText, entity.Text)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// Delete removes a comment under the same policy as Update.
func (service *Service) Delete(context context.Context, titleID, reviewID, commentID string, claims *sec.AuthClaims) error {
	entity, err := service.Get(context, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !sec.CanModerate(claims, entity) {
		return apperr.Forbidden("You may only delete your own comments")
	}

	return service.repo.Delete(context, entity.ID)
}
