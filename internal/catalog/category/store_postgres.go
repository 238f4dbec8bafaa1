package category

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

func (repository *PostgresRepository) List(context context.Context, search string, params pagination.Params) ([]*Category, int, error) {
	table := schema.CatalogCategory

	where := ""
	var arguments []any
	if search != "" {
		where = fmt.Sprintf(" WHERE %s ILIKE '%%' || $1 || '%%'", table.Name)
		arguments = append(arguments, search)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, table.Table, where)

	var total int
	if err := repository.db.QueryRow(context, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_categories")
	}

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s%s ORDER BY %s ASC LIMIT $%d OFFSET $%d`,
		table.ID, table.Name, table.Slug, table.CreatedAt,
		table.Table, where, table.Name, len(arguments)+1, len(arguments)+2)
	arguments = append(arguments, params.Limit, params.Offset())

	rows, err := repository.db.Query(context, query, arguments...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories")
	}

	return categories, total, nil
}

func (repository *PostgresRepository) GetBySlug(context context.Context, slug string) (*Category, error) {
	table := schema.CatalogCategory

	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		table.ID, table.Name, table.Slug, table.CreatedAt, table.Table, table.Slug)

	c := &Category{}
	err := repository.db.QueryRow(context, query, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category_by_slug")
	}

	return c, nil
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	table := schema.CatalogCategory

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)`,
		table.Table, table.ID, table.Name, table.Slug, table.CreatedAt)

	category.CreatedAt = time.Now()

	_, err := repository.db.Exec(context, query, category.ID, category.Name, category.Slug, category.CreatedAt)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return categoryConflictError(err)
		}
		return dberr.Wrap(err, "create_category")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, slug string) error {
	table := schema.CatalogCategory

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.Slug)

	tag, err := repository.db.Exec(context, query, slug)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category not found")
	}

	return nil
}

func categoryConflictError(err error) error {
	constraint := dberr.ConstraintName(err)
	switch {
	case strings.Contains(constraint, "slug"):
		return validate.RequiredError(FieldSlug, "A category with this slug already exists")
	case strings.Contains(constraint, "name"):
		return validate.RequiredError(FieldName, "A category with this name already exists")
	default:
		return dberr.Wrap(err, "create_category")
	}
}
