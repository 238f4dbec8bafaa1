package genre

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/pkg/pagination"
)

type fakeRepository struct {
	genres map[string]*Genre // keyed by slug
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{genres: map[string]*Genre{}}
}

func (f *fakeRepository) List(_ context.Context, _ string, _ pagination.Params) ([]*Genre, int, error) {
	var all []*Genre
	for _, g := range f.genres {
		copied := *g
		all = append(all, &copied)
	}
	return all, len(all), nil
}

func (f *fakeRepository) GetBySlug(_ context.Context, slug string) (*Genre, error) {
	if g, ok := f.genres[slug]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, apperr.NotFound("Genre not found")
}

func (f *fakeRepository) Create(_ context.Context, genre *Genre) error {
	if _, ok := f.genres[genre.Slug]; ok {
		return apperr.ValidationError("A genre with this slug already exists")
	}
	copied := *genre
	f.genres[genre.Slug] = &copied
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, slug string) error {
	if _, ok := f.genres[slug]; !ok {
		return apperr.NotFound("Genre not found")
	}
	delete(f.genres, slug)
	return nil
}

func TestCreate_DerivesSlugFromAccentedName(t *testing.T) {
	service := NewService(newFakeRepository())

	genre, err := service.Create(context.Background(), CreateInput{Name: "Comédie Noire"})
	require.NoError(t, err)

	assert.Equal(t, "comedie-noire", genre.Slug)
}

func TestCreate_DuplicateSlug(t *testing.T) {
	service := NewService(newFakeRepository())

	_, err := service.Create(context.Background(), CreateInput{Name: "Drama"})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), CreateInput{Name: "DRAMA", Slug: "drama"})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
}

func TestCreate_RequiresName(t *testing.T) {
	service := NewService(newFakeRepository())

	_, err := service.Create(context.Background(), CreateInput{})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
}
