package title

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/pkg/pointer"
)

func TestCompileWhere_Empty(t *testing.T) {
	where, arguments := CompileWhere(Filter{})

	assert.Empty(t, where)
	assert.Empty(t, arguments)
}

func TestCompileWhere_SingleFilter(t *testing.T) {
	where, arguments := CompileWhere(Filter{Name: "dune"})

	assert.Equal(t, "t.name ILIKE '%' || $1 || '%'", where)
	assert.Equal(t, []any{"dune"}, arguments)
}

func TestCompileWhere_CombinesWithAnd(t *testing.T) {
	where, arguments := CompileWhere(Filter{
		Genres: []string{"drama"},
		Year:   pointer.To(1994),
	})

	// Placeholders are assigned in declaration order: year before genre.
	assert.Contains(t, where, "t.year = $1")
	assert.Contains(t, where, "g.slug = ANY($2)")
	assert.Contains(t, where, " AND ")
	require.Len(t, arguments, 2)
	assert.Equal(t, 1994, arguments[0])
	assert.Equal(t, []string{"drama"}, arguments[1])
}

func TestCompileWhere_GenreUsesExistsSubquery(t *testing.T) {
	where, _ := CompileWhere(Filter{Genres: []string{"drama", "comedy"}})

	assert.Contains(t, where, "EXISTS")
	assert.Contains(t, where, "catalog.titlegenre")
}

func TestCompileWhere_EscapesLikeMetacharacters(t *testing.T) {
	where, arguments := CompileWhere(Filter{Name: "100%_done"})

	// The pattern stays parameterized; the metacharacters are neutralized in
	// the bound value so they match literally.
	assert.Equal(t, "t.name ILIKE '%' || $1 || '%'", where)
	assert.Equal(t, []any{`100\%\_done`}, arguments)
}

func TestCompileWhere_CategoryMatchesSlug(t *testing.T) {
	where, arguments := CompileWhere(Filter{Category: "films"})

	assert.Equal(t, "c.slug = $1", where)
	assert.Equal(t, []any{"films"}, arguments)
}

func TestCompileOrder(t *testing.T) {
	cases := []struct {
		ordering string
		expected string
	}{
		{"", "t.year DESC, t.name ASC"},
		{"name", "t.name ASC"},
		{"-name", "t.name DESC"},
		{"year", "t.year ASC, t.name ASC"},
		{"-year", "t.year DESC, t.name ASC"},
		{"rating", "t.year DESC, t.name ASC"},    // not whitelisted
		{"; DROP TABLE", "t.year DESC, t.name ASC"}, // never reaches SQL
	}

	for _, testCase := range cases {
		assert.Equal(t, testCase.expected, CompileOrder(testCase.ordering), "ordering=%q", testCase.ordering)
	}
}

func TestFilterFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("name", "dune")
	values.Set("genre", "drama, comedy")
	values.Set("category", "films")
	values.Set("year", "1984")
	values.Set("ordering", "-name")

	filter, err := FilterFromQuery(values)

	require.NoError(t, err)
	assert.Equal(t, "dune", filter.Name)
	assert.Equal(t, []string{"drama", "comedy"}, filter.Genres)
	assert.Equal(t, "films", filter.Category)
	require.NotNil(t, filter.Year)
	assert.Equal(t, 1984, *filter.Year)
	assert.Equal(t, "-name", filter.Ordering)
}

func TestFilterFromQuery_RejectsBadYear(t *testing.T) {
	values := url.Values{}
	values.Set("year", "not-a-year")

	_, err := FilterFromQuery(values)

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
	require.Len(t, appError.Details, 1)
	assert.Equal(t, FieldYear, appError.Details[0].Field)
}
