package review

import (
	"context"
	"net/http"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/pagination"
	"github.com/taibuivan/kritika/pkg/pointer"
	"github.com/taibuivan/kritika/pkg/uuidv7"
)

type Service struct {
	repo   Repository
	titles TitleChecker
}

func NewService(repo Repository, titles TitleChecker) *Service {
	return &Service{repo: repo, titles: titles}
}

type CreateInput struct {
	Score int
	Text  string
}

type UpdateInput struct {
	Score *int
	Text  *string
}

func (service *Service) List(context context.Context, titleID string, params pagination.Params) ([]*Review, int, error) {
	if err := service.titles.Exists(context, titleID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListByTitle(context, titleID, params)
}

// Get returns one review, verifying it belongs to the addressed title. A
// review reached through the wrong title path is a 404, not a leak of the
// review's real location.
func (service *Service) Get(context context.Context, titleID, reviewID string) (*Review, error) {
	entity, err := service.repo.FindByID(context, reviewID)
	if err != nil {
		return nil, err
	}

	if entity.TitleID != titleID {
		return nil, apperr.NotFound("Review not found")
	}

	return entity, nil
}

// Create adds the caller's review of a title. The author is always the
// authenticated caller — it is never accepted from the payload.
func (service *Service) Create(context context.Context, titleID string, claims *sec.AuthClaims, input CreateInput) (*Review, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	validator := &validate.Validator{}
	validator.Required(FieldText, input.Text).
		Range(FieldScore, input.Score, MinScore, MaxScore)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.titles.Exists(context, titleID); err != nil {
		return nil, err
	}

	// Courtesy pre-check; the unique constraint catches races.
	_, err := service.repo.FindByAuthorAndTitle(context, claims.UserID, titleID)
	if err == nil {
		return nil, duplicateReviewError()
	}
	if appError := apperr.As(err); appError == nil || appError.HTTPStatus != http.StatusNotFound {
		return nil, err
	}

	entity := &Review{
		ID:      uuidv7.New(),
		TitleID: titleID,
		Author:  Author{ID: claims.UserID, Username: claims.Username},
		Score:   input.Score,
		Text:    input.Text,
	}

	if err := service.repo.Create(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// Update edits a review's score or text. Only the author, a moderator, or an
// admin may do so.
func (service *Service) Update(context context.Context, titleID, reviewID string, claims *sec.AuthClaims, input UpdateInput) (*Review, error) {
	entity, err := service.Get(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !sec.CanModerate(claims, entity) {
		return nil, apperr.Forbidden("You may only edit your own reviews")
	}

	entity.Score = pointer.Fallback(input.Score, entity.Score)
	entity.Text = pointer.Fallback(input.Text, entity.Text)

	validator := &validate.Validator{}
	validator.Required(FieldText, entity.Text).
		Range(FieldScore, entity.Score, MinScore, MaxScore)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// Delete removes a review under the same policy as Update.
func (service *Service) Delete(context context.Context, titleID, reviewID string, claims *sec.AuthClaims) error {
	entity, err := service.Get(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if !sec.CanModerate(claims, entity) {
		return apperr.Forbidden("You may only delete your own reviews")
	}

	return service.repo.Delete(context, entity.ID)
}

func duplicateReviewError() error {
	return apperr.ValidationError("You have already reviewed this title")
}
