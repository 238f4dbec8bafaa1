package schema

// CatalogTitleGenreTable represents the 'catalog.titlegenre' junction table
type CatalogTitleGenreTable struct {
	Table   string
	TitleID string
	GenreID string
}

// CatalogTitleGenre is the schema definition for catalog.titlegenre
var CatalogTitleGenre = CatalogTitleGenreTable{
	Table:   "catalog.titlegenre",
	TitleID: "titleid",
	GenreID: "genreid",
}

func (t CatalogTitleGenreTable) Columns() []string {
	return []string{t.TitleID, t.GenreID}
}
