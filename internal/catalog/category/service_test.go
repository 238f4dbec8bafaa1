package category

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/pkg/pagination"
)

type fakeRepository struct {
	categories map[string]*Category // keyed by slug
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{categories: map[string]*Category{}}
}

func (f *fakeRepository) List(_ context.Context, search string, params pagination.Params) ([]*Category, int, error) {
	var matched []*Category
	for _, c := range f.categories {
		if search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			copied := *c
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return matched, len(matched), nil
}

func (f *fakeRepository) GetBySlug(_ context.Context, slug string) (*Category, error) {
	if c, ok := f.categories[slug]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, apperr.NotFound("Category not found")
}

func (f *fakeRepository) Create(_ context.Context, category *Category) error {
	if _, ok := f.categories[category.Slug]; ok {
		return apperr.ValidationError("A category with this slug already exists")
	}
	copied := *category
	f.categories[category.Slug] = &copied
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, slug string) error {
	if _, ok := f.categories[slug]; !ok {
		return apperr.NotFound("Category not found")
	}
	delete(f.categories, slug)
	return nil
}

func TestCreate_DerivesSlugFromName(t *testing.T) {
	service := NewService(newFakeRepository())

	category, err := service.Create(context.Background(), CreateInput{Name: "Science Fiction"})
	require.NoError(t, err)

	assert.Equal(t, "science-fiction", category.Slug)
	assert.NotEmpty(t, category.ID)
}

func TestCreate_KeepsExplicitSlug(t *testing.T) {
	service := NewService(newFakeRepository())

	category, err := service.Create(context.Background(), CreateInput{Name: "Science Fiction", Slug: "sci-fi"})
	require.NoError(t, err)

	assert.Equal(t, "sci-fi", category.Slug)
}

func TestCreate_RejectsBadSlug(t *testing.T) {
	service := NewService(newFakeRepository())

	for _, bad := range []string{"Sci Fi", "UPPER", "-leading", "trailing-"} {
		_, err := service.Create(context.Background(), CreateInput{Name: "Science Fiction", Slug: bad})

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError, "slug %q should be rejected", bad)
		assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
	}
}

func TestCreate_RejectsOverlongSlug(t *testing.T) {
	service := NewService(newFakeRepository())

	_, err := service.Create(context.Background(), CreateInput{
		Name: "X",
		Slug: strings.Repeat("a", MaxLenSlug+1),
	})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
}

func TestList_SearchMatchesNameSubstring(t *testing.T) {
	repo := newFakeRepository()
	service := NewService(repo)

	for _, name := range []string{"Films", "Books", "Music"} {
		_, err := service.Create(context.Background(), CreateInput{Name: name})
		require.NoError(t, err)
	}

	categories, total, err := service.List(context.Background(), "oo", pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, total)
	require.Len(t, categories, 1)
	assert.Equal(t, "Books", categories[0].Name)
}

func TestDelete_UnknownSlug(t *testing.T) {
	service := NewService(newFakeRepository())

	err := service.Delete(context.Background(), "ghost")

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}
