package genre

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/database/schema"
	"github.com/taibuivan/kritika/internal/platform/dberr"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/pagination"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) List(context context.Context, search string, params pagination.Params) ([]*Genre, int, error) {
	table := schema.CatalogGenre

	where := ""
	var arguments []any
	if search != "" {
		where = fmt.Sprintf(" WHERE %s ILIKE '%%' || $1 || '%%'", table.Name)
		arguments = append(arguments, search)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, table.Table, where)

	var total int
	if err := repository.db.QueryRow(context, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_genres")
	}

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s%s ORDER BY %s ASC LIMIT $%d OFFSET $%d`,
		table.ID, table.Name, table.Slug, table.CreatedAt,
		table.Table, where, table.Name, len(arguments)+1, len(arguments)+2)
	arguments = append(arguments, params.Limit, params.Offset())

	rows, err := repository.db.Query(context, query, arguments...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_genres")
	}
	defer rows.Close()

	genres := make([]*Genre, 0)
	for rows.Next() {
		g := &Genre{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_genre")
		}
		genres = append(genres, g)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_genres")
	}

	return genres, total, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Genre, error) {
	table := schema.CatalogGenre

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		table.ID, table.Name, table.Slug, table.CreatedAt, table.Table, table.Slug)

	g := &Genre{}
	err := repository.db.QueryRow(context, query, slug).Scan(&g.ID, &g.Name, &g.Slug, &g.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "get_genre_by_slug")
	}

	return g, nil
}

func (repository *PostgresRepository) Create(context context.Context, genre *Genre) error {
	table := schema.CatalogGenre

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		table.Table, table.ID, table.Name, table.Slug, table.CreatedAt)

	genre.CreatedAt = time.Now()

	_, err := repository.db.Exec(context, query, genre.ID, genre.Name, genre.Slug, genre.CreatedAt)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return genreConflictError(err)
		}
		return dberr.Wrap(err, "create_genre")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, slug string) error {
	table := schema.CatalogGenre

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.Slug)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_genre")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Genre not found")
	}

	return nil
}

func genreConflictError(err error) error {
	constraint := dberr.ConstraintName(err)
	switch {
	case strings.Contains(constraint, "slug"):
		return validate.RequiredError(FieldSlug, "A genre with this slug already exists")
	case strings.Contains(constraint, "name"):
		return validate.RequiredError(FieldName, "A genre with this name already exists")
	default:
		return dberr.Wrap(err, "create_genre")
	}
}
