package title

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/catalog/category"
	"github.com/taibuivan/kritika/internal/catalog/genre"
	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/pkg/pagination"
	"github.com/taibuivan/kritika/pkg/pointer"
)

type fakeRepository struct {
	titles    map[string]*Title
	genreSets map[string][]string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{titles: map[string]*Title{}, genreSets: map[string][]string{}}
}

func (f *fakeRepository) List(_ context.Context, _ Filter, _ pagination.Params) ([]*Title, int, error) {
	var all []*Title
	for _, entity := range f.titles {
		copied := *entity
		all = append(all, &copied)
	}
	return all, len(all), nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*Title, error) {
	if entity, ok := f.titles[id]; ok {
		copied := *entity
		return &copied, nil
	}
	return nil, apperr.NotFound("Title not found")
}

func (f *fakeRepository) Create(_ context.Context, title *Title, _ *string, genreIDs []string) error {
	copied := *title
	f.titles[title.ID] = &copied
	f.genreSets[title.ID] = genreIDs
	return nil
}

func (f *fakeRepository) Update(_ context.Context, title *Title, _ *string, genreIDs []string) error {
	if _, ok := f.titles[title.ID]; !ok {
		return apperr.NotFound("Title not found")
	}
	copied := *title
	f.titles[title.ID] = &copied
	if genreIDs != nil {
		f.genreSets[title.ID] = genreIDs
	}
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.titles[id]; !ok {
		return apperr.NotFound("Title not found")
	}
	delete(f.titles, id)
	return nil
}

type fakeGenreFinder struct {
	known map[string]*genre.Genre
}

func (f *fakeGenreFinder) GetBySlug(_ context.Context, slug string) (*genre.Genre, error) {
	if g, ok := f.known[slug]; ok {
		return g, nil
	}
	return nil, apperr.NotFound("Genre not found")
}

type fakeCategoryFinder struct {
	known map[string]*category.Category
}

func (f *fakeCategoryFinder) GetBySlug(_ context.Context, slug string) (*category.Category, error) {
	if c, ok := f.known[slug]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("Category not found")
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	genres := &fakeGenreFinder{known: map[string]*genre.Genre{
		"drama":  {ID: "g-1", Name: "Drama", Slug: "drama"},
		"comedy": {ID: "g-2", Name: "Comedy", Slug: "comedy"},
	}}
	categories := &fakeCategoryFinder{known: map[string]*category.Category{
		"films": {ID: "c-1", Name: "Films", Slug: "films"},
	}}
	return NewService(repo, genres, categories), repo
}

func validCreateInput() CreateInput {
	return CreateInput{
		Name:   "The Remains of the Day",
		Year:   1989,
		Genres: []string{"drama"},
	}
}

func TestGet_NoReviewsMeansNoRating(t *testing.T) {
	service, repo := newTestService()
	repo.titles["t-1"] = &Title{ID: "t-1", Name: "Solaris", Year: 1972}

	entity, err := service.Get(context.Background(), "t-1")

	require.NoError(t, err)
	assert.Nil(t, entity.Rating)
}

func TestGet_RatingPassthrough(t *testing.T) {
	service, repo := newTestService()
	repo.titles["t-2"] = &Title{ID: "t-2", Name: "Stalker", Year: 1979, Rating: pointer.To(8)}

	entity, err := service.Get(context.Background(), "t-2")

	require.NoError(t, err)
	require.NotNil(t, entity.Rating)
	assert.Equal(t, 8, *entity.Rating)
}

func TestCreate_ResolvesGenresAndCategory(t *testing.T) {
	service, repo := newTestService()

	input := validCreateInput()
	input.Genres = []string{"drama", "comedy"}
	input.Category = pointer.To("films")

	entity, err := service.Create(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, entity.Genres, 2)
	require.NotNil(t, entity.Category)
	assert.Equal(t, "films", entity.Category.Slug)
	assert.Equal(t, []string{"g-1", "g-2"}, repo.genreSets[entity.ID])
}

func TestCreate_RejectsFutureYear(t *testing.T) {
	service, _ := newTestService()

	input := validCreateInput()
	input.Year = time.Now().Year() + 1

	_, err := service.Create(context.Background(), input)

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
	require.Len(t, appError.Details, 1)
	assert.Equal(t, FieldYear, appError.Details[0].Field)
}

func TestCreate_AllowsCurrentYear(t *testing.T) {
	service, _ := newTestService()

	input := validCreateInput()
	input.Year = time.Now().Year()

	_, err := service.Create(context.Background(), input)
	assert.NoError(t, err)
}

func TestCreate_RequiresGenres(t *testing.T) {
	service, _ := newTestService()

	input := validCreateInput()
	input.Genres = nil

	_, err := service.Create(context.Background(), input)

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	require.Len(t, appError.Details, 1)
	assert.Equal(t, FieldGenres, appError.Details[0].Field)
}

func TestCreate_UnknownGenreSlug(t *testing.T) {
	service, _ := newTestService()

	input := validCreateInput()
	input.Genres = []string{"drama", "space-opera"}

	_, err := service.Create(context.Background(), input)

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
	require.Len(t, appError.Details, 1)
	assert.Contains(t, appError.Details[0].Message, "space-opera")
}

func TestCreate_UnknownCategorySlug(t *testing.T) {
	service, _ := newTestService()

	input := validCreateInput()
	input.Category = pointer.To("paintings")

	_, err := service.Create(context.Background(), input)

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
}

func TestUpdate_PartialKeepsFields(t *testing.T) {
	service, repo := newTestService()

	created, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), created.ID, UpdateInput{
		Year: pointer.To(1993),
	})
	require.NoError(t, err)

	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, 1993, updated.Year)
	// Untouched genre set stays as created.
	assert.Equal(t, []string{"g-1"}, repo.genreSets[created.ID])
}

func TestUpdate_ReplacesGenreSet(t *testing.T) {
	service, repo := newTestService()

	created, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	_, err = service.Update(context.Background(), created.ID, UpdateInput{
		Genres: []string{"comedy"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"g-2"}, repo.genreSets[created.ID])
}

func TestUpdate_RejectsEmptyGenreSet(t *testing.T) {
	service, _ := newTestService()

	created, err := service.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	_, err = service.Update(context.Background(), created.ID, UpdateInput{
		Genres: []string{},
	})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
}

func TestUpdate_UnknownTitle(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Update(context.Background(), "ghost", UpdateInput{})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}
