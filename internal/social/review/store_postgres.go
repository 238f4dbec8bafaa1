package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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

// selectClause projects a review row joined with its author's account.
func selectClause() string {
	r := schema.SocialReview
	u := schema.UserAccount

	return fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, r.%s, r.%s, u.%s, u.%s
		FROM %s r
		JOIN %s u ON u.%s = r.%s`,
		r.ID, r.TitleID, r.Score, r.Text, r.PubDate, u.ID, u.Username,
		r.Table, u.Table, u.ID, r.AuthorID)
}

func (repository *PostgresRepository) ListByTitle(context context.Context, titleID string, params pagination.Params) ([]*Review, int, error) {
	r := schema.SocialReview

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, r.Table, r.TitleID)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, titleID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_reviews")
	}

	query := selectClause() + fmt.Sprintf(` WHERE r.%s = $1 ORDER BY r.%s ASC LIMIT $2 OFFSET $3`, r.TitleID, r.PubDate)

	rows, err := repository.pool.Query(context, query, titleID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}
	defer rows.Close()

	reviews := make([]*Review, 0)
	for rows.Next() {
		entity := &Review{}
		if err := scanReview(rows, entity); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_review")
		}
		reviews = append(reviews, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_reviews")
	}

	return reviews, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Review, error) {
	query := selectClause() + fmt.Sprintf(` WHERE r.%s = $1`, schema.SocialReview.ID)
	return repository.findOne(context, query, id)
}

func (repository *PostgresRepository) FindByAuthorAndTitle(context context.Context, authorID, titleID string) (*Review, error) {
	r := schema.SocialReview
	query := selectClause() + fmt.Sprintf(` WHERE r.%s = $1 AND r.%s = $2`, r.AuthorID, r.TitleID)

	entity := &Review{}
	err := scanReview(repository.pool.QueryRow(context, query, authorID, titleID), entity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Review not found")
		}
		return nil, dberr.Wrap(err, "find_review_by_pair")
	}

	return entity, nil
}

func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	r := schema.SocialReview

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		r.Table, r.ID, r.TitleID, r.AuthorID, r.Score, r.Text, r.PubDate)

	review.PubDate = time.Now()

	_, err := repository.pool.Exec(context, query,
		review.ID, review.TitleID, review.Author.ID, review.Score, review.Text, review.PubDate)

	if err != nil {
		if dberr.IsUniqueViolation(err) && strings.Contains(dberr.ConstraintName(err), r.UniqueAuthorTitle) {
			return apperr.ValidationError("You have already reviewed this title")
		}
		return dberr.Wrap(err, "create_review")
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, review *Review) error {
	r := schema.SocialReview

	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		r.Table, r.Score, r.Text, r.ID)

	tag, err := repository.pool.Exec(context, query, review.ID, review.Score, review.Text)
	if err != nil {
		return dberr.Wrap(err, "update_review")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review not found")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	r := schema.SocialReview

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, r.Table, r.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_review")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Review not found")
	}

	return nil
}

func (repository *PostgresRepository) findOne(context context.Context, query string, arguments ...any) (*Review, error) {
	entity := &Review{}
	err := scanReview(repository.pool.QueryRow(context, query, arguments...), entity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Review not found")
		}
		return nil, dberr.Wrap(err, "get_review")
	}

	return entity, nil
}

func scanReview(row pgx.Row, entity *Review) error {
	return row.Scan(
		&entity.ID,
		&entity.TitleID,
		&entity.Score,
		&entity.Text,
		&entity.PubDate,
		&entity.Author.ID,
		&entity.Author.Username,
	)
}
