/*
Package title provides the PostgreSQL implementation for the catalogue's
title aggregate.

It leans on a few Postgres features to keep list reads to one round-trip:
  - JSON Aggregation: genres are folded into a JSON array per row.
  - Window Functions: COUNT(*) OVER() returns the total without a second query.
  - Aggregate Joins: the rating is a LEFT JOIN over a grouped review subquery,
    so titles without reviews surface a null rating instead of vanishing.
  - ACID Transactions: title writes and genre-link replacement commit together.
*/
package title

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kritika/internal/catalog/category"
	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/database/schema"
	"github.com/taibuivan/kritika/internal/platform/dberr"
	"github.com/taibuivan/kritika/pkg/pagination"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectClause is the shared projection for title reads: core columns, the
// (nullable) category, the computed rating, and the aggregated genres.
func selectClause() string {
	t := schema.CatalogTitle
	c := schema.CatalogCategory
	g := schema.CatalogGenre
	tg := schema.CatalogTitleGenre
	r := schema.SocialReview

	return fmt.Sprintf(`
		SELECT
			t.%s, t.%s, t.%s, t.%s, t.%s, t.%s,
			c.%s, c.%s, c.%s,
			rating.value,
			COALESCE((
				SELECT json_agg(json_build_object('id', g.%s, 'name', g.%s, 'slug', g.%s) ORDER BY g.%s)
				FROM %s g
				JOIN %s tg ON g.%s = tg.%s
				WHERE tg.%s = t.%s
			), '[]') AS genres
		FROM %s t
		LEFT JOIN %s c ON c.%s = t.%s
		LEFT JOIN (
			SELECT %s, ROUND(AVG(%s))::int AS value
			FROM %s
			GROUP BY %s
		) rating ON rating.%s = t.%s`,
		t.ID, t.Name, t.Year, t.Description, t.CreatedAt, t.UpdatedAt,
		c.ID, c.Name, c.Slug,
		g.ID, g.Name, g.Slug, g.Name,
		g.Table,
		tg.Table, g.ID, tg.GenreID,
		tg.TitleID, t.ID,
		t.Table,
		c.Table, c.ID, t.CategoryID,
		r.TitleID, r.Score,
		r.Table,
		r.TitleID,
		r.TitleID, t.ID,
	)
}

func (repository *PostgresRepository) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {
	var queryBuilder strings.Builder

	queryBuilder.WriteString(strings.Replace(selectClause(), "SELECT", "SELECT COUNT(*) OVER() AS total_count,", 1))

	where, arguments := CompileWhere(filter)
	if where != "" {
		queryBuilder.WriteString(" WHERE " + where)
	}

	queryBuilder.WriteString(" ORDER BY " + CompileOrder(filter.Ordering))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(arguments)+1, len(arguments)+2))
	arguments = append(arguments, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, queryBuilder.String(), arguments...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}
	defer rows.Close()

	titles := make([]*Title, 0)
	var total int

	for rows.Next() {
		entity := &Title{}
		if err := scanTitle(rows, entity, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_title")
		}
		titles = append(titles, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_titles")
	}

	return titles, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Title, error) {
	query := selectClause() + fmt.Sprintf(" WHERE t.%s = $1", schema.CatalogTitle.ID)

	rows, err := repository.pool.Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "get_title")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, dberr.Wrap(err, "get_title")
		}
		return nil, apperr.NotFound("Title not found")
	}

	entity := &Title{}
	if err := scanTitle(rows, entity, nil); err != nil {
		return nil, dberr.Wrap(err, "scan_title")
	}

	return entity, nil
}

func (repository *PostgresRepository) Create(context context.Context, title *Title, categoryID *string, genreIDs []string) error {
	return repository.inTransaction(context, func(tx pgx.Tx) error {
		t := schema.CatalogTitle

		query := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
			VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`,
			t.Table, t.ID, t.Name, t.Year, t.Description, t.CategoryID, t.CreatedAt, t.UpdatedAt)

		if _, err := tx.Exec(context, query, title.ID, title.Name, title.Year, title.Description, categoryID); err != nil {
			return dberr.Wrap(err, "create_title")
		}

		return replaceGenreLinks(context, tx, title.ID, genreIDs)
	})
}

func (repository *PostgresRepository) Update(context context.Context, title *Title, categoryID *string, genreIDs []string) error {
	return repository.inTransaction(context, func(tx pgx.Tx) error {
		t := schema.CatalogTitle

		query := fmt.Sprintf(`
			UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
			WHERE %s = $1`,
			t.Table, t.Name, t.Year, t.Description, t.CategoryID, t.UpdatedAt, t.ID)

		tag, err := tx.Exec(context, query, title.ID, title.Name, title.Year, title.Description, categoryID)
		if err != nil {
			return dberr.Wrap(err, "update_title")
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("Title not found")
		}

		// nil means the caller did not touch the genre set.
		if genreIDs == nil {
			return nil
		}

		tg := schema.CatalogTitleGenre
		clear := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, tg.Table, tg.TitleID)
		if _, err := tx.Exec(context, clear, title.ID); err != nil {
			return dberr.Wrap(err, "clear_title_genres")
		}

		return replaceGenreLinks(context, tx, title.ID, genreIDs)
	})
}

// Exists is a light probe used by the review layer before attaching content.
func (repository *PostgresRepository) Exists(context context.Context, id string) error {
	t := schema.CatalogTitle

	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1`, t.Table, t.ID)

	var one int
	if err := repository.pool.QueryRow(context, query, id).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("Title not found")
		}
		return dberr.Wrap(err, "title_exists")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	t := schema.CatalogTitle

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_title")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Title not found")
	}

	return nil
}

// inTransaction runs fn inside a transaction, rolling back on any error.
func (repository *PostgresRepository) inTransaction(context context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_title_tx")
	}
	defer func() { _ = tx.Rollback(context) }()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(context)
}

func replaceGenreLinks(context context.Context, tx pgx.Tx, titleID string, genreIDs []string) error {
	tg := schema.CatalogTitleGenre

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		tg.Table, tg.TitleID, tg.GenreID)

	for _, genreID := range genreIDs {
		if _, err := tx.Exec(context, query, titleID, genreID); err != nil {
			return dberr.Wrap(err, "link_title_genre")
		}
	}

	return nil
}

// scanTitle hydrates one projected row. total is non-nil for windowed list
// queries and nil for single-row lookups.
func scanTitle(rows pgx.Rows, entity *Title, total *int) error {
	var categoryID, categoryName, categorySlug *string
	var genresJSON []byte

	destinations := []any{
		&entity.ID, &entity.Name, &entity.Year, &entity.Description,
		&entity.CreatedAt, &entity.UpdatedAt,
		&categoryID, &categoryName, &categorySlug,
		&entity.Rating,
		&genresJSON,
	}
	if total != nil {
		destinations = append([]any{total}, destinations...)
	}

	if err := rows.Scan(destinations...); err != nil {
		return err
	}

	if categoryID != nil {
		entity.Category = &category.Category{ID: *categoryID, Name: *categoryName, Slug: *categorySlug}
	}

	if err := json.Unmarshal(genresJSON, &entity.Genres); err != nil {
		return fmt.Errorf("unmarshal_title_genres: %w", err)
	}

	return nil
}
