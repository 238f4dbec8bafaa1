package title

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/taibuivan/kritika/internal/platform/database/schema"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/query"
)

// Filter holds the supported list filters. All set filters combine with AND.
type Filter struct {
	Name     string   // case-insensitive name substring
	Genres   []string // genre slugs; a title matches when linked to any of them
	Category string   // exact category slug
	Year     *int     // exact publication year
	Ordering string   // "name", "year", "-name", "-year"
}

// FilterFromQuery parses the supported filter parameters from a query string.
// The genre parameter accepts a comma-separated list of slugs. A year value
// that is not an integer is a field-keyed validation error, not a filter to
// silently drop.
func FilterFromQuery(values url.Values) (Filter, error) {
	filter := Filter{
		Name:     values.Get("name"),
		Genres:   query.StringSlice(values.Get("genre")),
		Category: values.Get("category"),
		Ordering: values.Get("ordering"),
	}

	if raw := values.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return Filter{}, validate.RequiredError(FieldYear, "Year must be an integer")
		}
		filter.Year = &year
	}

	return filter, nil
}

// # Filter Compilation
//
// Each supported filter is declared once as a clause: which value it reads
// from the Filter and how it renders into SQL against one placeholder. The
// compiler walks the table, so adding a filter means adding a row here.

type clause struct {
	value   func(filter Filter) (any, bool)
	compile func(placeholder int) string
}

// likeEscaper neutralizes LIKE metacharacters in search terms, so "100%"
// matches the literal string instead of acting as a wildcard.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

var clauses = []clause{
	{
		value: func(filter Filter) (any, bool) { return likeEscaper.Replace(filter.Name), filter.Name != "" },
		compile: func(placeholder int) string {
			return fmt.Sprintf("t.%s ILIKE '%%' || $%d || '%%'", schema.CatalogTitle.Name, placeholder)
		},
	},
	{
		value: func(filter Filter) (any, bool) {
			if filter.Year == nil {
				return nil, false
			}
			return *filter.Year, true
		},
		compile: func(placeholder int) string {
			return fmt.Sprintf("t.%s = $%d", schema.CatalogTitle.Year, placeholder)
		},
	},
	{
		value: func(filter Filter) (any, bool) { return filter.Category, filter.Category != "" },
		compile: func(placeholder int) string {
			return fmt.Sprintf("c.%s = $%d", schema.CatalogCategory.Slug, placeholder)
		},
	},
	{
		value: func(filter Filter) (any, bool) { return filter.Genres, len(filter.Genres) > 0 },
		compile: func(placeholder int) string {
			return fmt.Sprintf(`EXISTS (
				SELECT 1 FROM %s tg
				JOIN %s g ON g.%s = tg.%s
				WHERE tg.%s = t.%s AND g.%s = ANY($%d))`,
				schema.CatalogTitleGenre.Table,
				schema.CatalogGenre.Table, schema.CatalogGenre.ID, schema.CatalogTitleGenre.GenreID,
				schema.CatalogTitleGenre.TitleID, schema.CatalogTitle.ID,
				schema.CatalogGenre.Slug, placeholder)
		},
	},
}

// CompileWhere renders the active filters into an AND-combined SQL fragment
// with 1-based positional placeholders, plus the matching argument list.
// An empty fragment means no filters are active.
func CompileWhere(filter Filter) (string, []any) {
	var fragments []string
	var arguments []any

	for _, c := range clauses {
		value, active := c.value(filter)
		if !active {
			continue
		}
		arguments = append(arguments, value)
		fragments = append(fragments, c.compile(len(arguments)))
	}

	return strings.Join(fragments, " AND "), arguments
}

// # Ordering

// orderable whitelists the fields the ordering parameter may reference.
var orderable = map[string]string{
	"name": "t." + schema.CatalogTitle.Name,
	"year": "t." + schema.CatalogTitle.Year,
}

// CompileOrder renders the ordering parameter into an ORDER BY expression.
// A leading "-" selects descending order. Unknown fields fall back to the
// default ordering of year DESC, name ASC.
func CompileOrder(ordering string) string {
	defaultOrder := fmt.Sprintf("t.%s DESC, t.%s ASC", schema.CatalogTitle.Year, schema.CatalogTitle.Name)

	field := ordering
	direction := "ASC"
	if strings.HasPrefix(field, "-") {
		field = field[1:]
		direction = "DESC"
	}

	column, ok := orderable[field]
	if !ok {
		return defaultOrder
	}

	// Name is a stable tiebreaker unless it is already the sort key.
	if field == "name" {
		return fmt.Sprintf("%s %s", column, direction)
	}
	return fmt.Sprintf("%s %s, t.%s ASC", column, direction, schema.CatalogTitle.Name)
}
