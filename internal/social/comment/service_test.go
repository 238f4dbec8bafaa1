package comment

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/social/review"
	"github.com/taibuivan/kritika/pkg/pagination"
	"github.com/taibuivan/kritika/pkg/pointer"
)

// # Test Doubles

type fakeRepository struct {
	comments map[string]*Comment
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{comments: map[string]*Comment{}}
}

func (f *fakeRepository) ListByReview(_ context.Context, reviewID string, _ pagination.Params) ([]*Comment, int, error) {
	var matched []*Comment
	for _, entity := range f.comments {
		if entity.ReviewID == reviewID {
			copied := *entity
			matched = append(matched, &copied)
		}
	}
	return matched, len(matched), nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*Comment, error) {
	if entity, ok := f.comments[id]; ok {
		copied := *entity
		return &copied, nil
	}
	return nil, apperr.NotFound("Comment not found")
}

func (f *fakeRepository) Create(_ context.Context, comment *Comment) error {
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeRepository) Update(_ context.Context, comment *Comment) error {
	if _, ok := f.comments[comment.ID]; !ok {
		return apperr.NotFound("Comment not found")
	}
	copied := *comment
	f.comments[comment.ID] = &copied
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.comments[id]; !ok {
		return apperr.NotFound("Comment not found")
	}
	delete(f.comments, id)
	return nil
}

// fakeReviewFinder knows one review "r-1" living under title "t-1".
type fakeReviewFinder struct{}

func (f *fakeReviewFinder) Get(_ context.Context, titleID, reviewID string) (*review.Review, error) {
	if titleID == "t-1" && reviewID == "r-1" {
		return &review.Review{ID: "r-1", TitleID: "t-1"}, nil
	}
	return nil, apperr.NotFound("Review not found")
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	return NewService(repo, &fakeReviewFinder{}), repo
}

func userClaims(id, username string) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: id, Username: username, Role: string(sec.RoleUser)}
}

// # Tests

func TestCreate_SetsAuthorFromCaller(t *testing.T) {
	service, _ := newTestService()

	entity, err := service.Create(context.Background(), "t-1", "r-1", userClaims("u-1", "alice"), CreateInput{
		Text: "Agreed on every point.",
	})
	require.NoError(t, err)

	assert.Equal(t, "u-1", entity.Author.ID)
	assert.Equal(t, "r-1", entity.ReviewID)
}

func TestCreate_ReviewNotUnderTitle(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), "t-9", "r-1", userClaims("u-1", "alice"), CreateInput{
		Text: "x",
	})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}

func TestCreate_RequiresText(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), "t-1", "r-1", userClaims("u-1", "alice"), CreateInput{})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
}

func TestUpdate_StrangerForbidden(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Create(context.Background(), "t-1", "r-1", userClaims("u-1", "alice"), CreateInput{
		Text: "original",
	})
	require.NoError(t, err)

	_, err = service.Update(context.Background(), "t-1", "r-1", created.ID, userClaims("u-2", "bob"), UpdateInput{
		Text: pointer.To("defaced"),
	})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusForbidden, appError.HTTPStatus)
}

func TestUpdate_AuthorEditsOwnComment(t *testing.T) {
	service, _ := newTestService()
	claims := userClaims("u-1", "alice")

	created, err := service.Create(context.Background(), "t-1", "r-1", claims, CreateInput{Text: "original"})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), "t-1", "r-1", created.ID, claims, UpdateInput{
		Text: pointer.To("revised"),
	})
	require.NoError(t, err)

	assert.Equal(t, "revised", updated.Text)
}

func TestDelete_AdminAllowed(t *testing.T) {
	service, repo := newTestService()

	created, err := service.Create(context.Background(), "t-1", "r-1", userClaims("u-1", "alice"), CreateInput{
		Text: "x",
	})
	require.NoError(t, err)

	admin := &sec.AuthClaims{UserID: "adm-1", Username: "adm", Role: string(sec.RoleAdmin)}
	require.NoError(t, service.Delete(context.Background(), "t-1", "r-1", created.ID, admin))
	assert.Empty(t, repo.comments)
}

func TestGet_WrongReviewPath(t *testing.T) {
	service, repo := newTestService()

	created, err := service.Create(context.Background(), "t-1", "r-1", userClaims("u-1", "alice"), CreateInput{
		Text: "x",
	})
	require.NoError(t, err)

	// Re-home the stored comment under another review to force the mismatch.
	repo.comments[created.ID].ReviewID = "r-2"

	_, err = service.Get(context.Background(), "t-1", "r-1", created.ID)

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}
