package review

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/pkg/pagination"
	"github.com/taibuivan/kritika/pkg/pointer"
)

// # Test Doubles

type fakeRepository struct {
	reviews map[string]*Review
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{reviews: map[string]*Review{}}
}

func (f *fakeRepository) ListByTitle(_ context.Context, titleID string, _ pagination.Params) ([]*Review, int, error) {
	var matched []*Review
	for _, entity := range f.reviews {
		if entity.TitleID == titleID {
			copied := *entity
			matched = append(matched, &copied)
		}
	}
	return matched, len(matched), nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*Review, error) {
	if entity, ok := f.reviews[id]; ok {
		copied := *entity
		return &copied, nil
	}
	return nil, apperr.NotFound("Review not found")
}

func (f *fakeRepository) FindByAuthorAndTitle(_ context.Context, authorID, titleID string) (*Review, error) {
	for _, entity := range f.reviews {
		if entity.Author.ID == authorID && entity.TitleID == titleID {
			copied := *entity
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Review not found")
}

func (f *fakeRepository) Create(_ context.Context, review *Review) error {
	for _, entity := range f.reviews {
		if entity.Author.ID == review.Author.ID && entity.TitleID == review.TitleID {
			return apperr.ValidationError("You have already reviewed this title")
		}
	}
	copied := *review
	f.reviews[review.ID] = &copied
	return nil
}

func (f *fakeRepository) Update(_ context.Context, review *Review) error {
	if _, ok := f.reviews[review.ID]; !ok {
		return apperr.NotFound("Review not found")
	}
	copied := *review
	f.reviews[review.ID] = &copied
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.reviews[id]; !ok {
		return apperr.NotFound("Review not found")
	}
	delete(f.reviews, id)
	return nil
}

type fakeTitleChecker struct {
	known map[string]bool
}

func (f *fakeTitleChecker) Exists(_ context.Context, titleID string) error {
	if f.known[titleID] {
		return nil
	}
	return apperr.NotFound("Title not found")
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	titles := &fakeTitleChecker{known: map[string]bool{"t-1": true, "t-2": true}}
	return NewService(repo, titles), repo
}

func userClaims(id, username string) *sec.AuthClaims {
	return &sec.AuthClaims{UserID: id, Username: username, Role: string(sec.RoleUser)}
}

func moderatorClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "mod-1", Username: "mod", Role: string(sec.RoleModerator)}
}

func adminClaims() *sec.AuthClaims {
	return &sec.AuthClaims{UserID: "adm-1", Username: "adm", Role: string(sec.RoleAdmin)}
}

// # Creation

func TestCreate_SetsAuthorFromCaller(t *testing.T) {
	service, _ := newTestService()

	entity, err := service.Create(context.Background(), "t-1", userClaims("u-1", "alice"), CreateInput{
		Score: 8,
		Text:  "Quietly devastating.",
	})
	require.NoError(t, err)

	assert.Equal(t, "u-1", entity.Author.ID)
	assert.Equal(t, "alice", entity.Author.Username)
	assert.Equal(t, "t-1", entity.TitleID)
}

func TestCreate_UnknownTitle(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), "ghost", userClaims("u-1", "alice"), CreateInput{
		Score: 8,
		Text:  "x",
	})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}

func TestCreate_ScoreBounds(t *testing.T) {
	service, _ := newTestService()

	for _, score := range []int{0, 11, -3} {
		_, err := service.Create(context.Background(), "t-1", userClaims("u-1", "alice"), CreateInput{
			Score: score,
			Text:  "x",
		})

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError, "score %d should be rejected", score)
		assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
	}

	for _, score := range []int{1, 10} {
		claims := userClaims("u-"+string(rune('a'+score)), "user")
		_, err := service.Create(context.Background(), "t-2", claims, CreateInput{Score: score, Text: "x"})
		assert.NoError(t, err, "score %d should be accepted", score)
	}
}

func TestCreate_SecondReviewOfSameTitle(t *testing.T) {
	service, _ := newTestService()
	claims := userClaims("u-1", "alice")

	_, err := service.Create(context.Background(), "t-1", claims, CreateInput{Score: 8, Text: "first"})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), "t-1", claims, CreateInput{Score: 9, Text: "second"})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
}

func TestCreate_SameAuthorDifferentTitles(t *testing.T) {
	service, _ := newTestService()
	claims := userClaims("u-1", "alice")

	_, err := service.Create(context.Background(), "t-1", claims, CreateInput{Score: 8, Text: "x"})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), "t-2", claims, CreateInput{Score: 5, Text: "y"})
	assert.NoError(t, err)
}

// # Moderation Policy

func TestUpdate_PermissionMatrix(t *testing.T) {
	cases := []struct {
		name    string
		claims  *sec.AuthClaims
		allowed bool
	}{
		{"author", userClaims("u-1", "alice"), true},
		{"stranger", userClaims("u-2", "bob"), false},
		{"moderator", moderatorClaims(), true},
		{"admin", adminClaims(), true},
		{"anonymous", nil, false},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			service, _ := newTestService()

			created, err := service.Create(context.Background(), "t-1", userClaims("u-1", "alice"), CreateInput{
				Score: 6,
				Text:  "original",
			})
			require.NoError(t, err)

			_, err = service.Update(context.Background(), "t-1", created.ID, testCase.claims, UpdateInput{
				Text: pointer.To("edited"),
			})

			if testCase.allowed {
				assert.NoError(t, err)
			} else {
				var appError *apperr.AppError
				require.ErrorAs(t, err, &appError)
				assert.Equal(t, http.StatusForbidden, appError.HTTPStatus)
			}
		})
	}
}

func TestUpdate_KeepsOmittedFields(t *testing.T) {
	service, _ := newTestService()
	claims := userClaims("u-1", "alice")

	created, err := service.Create(context.Background(), "t-1", claims, CreateInput{Score: 6, Text: "original"})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), "t-1", created.ID, claims, UpdateInput{
		Score: pointer.To(9),
	})
	require.NoError(t, err)

	assert.Equal(t, 9, updated.Score)
	assert.Equal(t, "original", updated.Text)
}

func TestDelete_StrangerForbidden(t *testing.T) {
	service, repo := newTestService()

	created, err := service.Create(context.Background(), "t-1", userClaims("u-1", "alice"), CreateInput{
		Score: 6,
		Text:  "x",
	})
	require.NoError(t, err)

	err = service.Delete(context.Background(), "t-1", created.ID, userClaims("u-2", "bob"))

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusForbidden, appError.HTTPStatus)
	assert.Len(t, repo.reviews, 1)
}

func TestDelete_ModeratorAllowed(t *testing.T) {
	service, repo := newTestService()

	created, err := service.Create(context.Background(), "t-1", userClaims("u-1", "alice"), CreateInput{
		Score: 6,
		Text:  "x",
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), "t-1", created.ID, moderatorClaims()))
	assert.Empty(t, repo.reviews)
}

// # Pathing

func TestGet_WrongTitlePath(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Create(context.Background(), "t-1", userClaims("u-1", "alice"), CreateInput{
		Score: 6,
		Text:  "x",
	})
	require.NoError(t, err)

	_, err = service.Get(context.Background(), "t-2", created.ID)

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}

func TestList_UnknownTitle(t *testing.T) {
	service, _ := newTestService()

	_, _, err := service.List(context.Background(), "ghost", pagination.Params{Page: 1, Limit: 10})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}
