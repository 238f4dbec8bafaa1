package comment

import (
	"context"
	"errors"
	"fmt"
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

// selectClause projects a comment row joined with its author's account.
func selectClause() string {
	c := schema.SocialComment
	u := schema.UserAccount

	return fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s, u.%s, u.%s
		FROM %s c
		JOIN %s u ON u.%s = c.%s`,
		c.ID, c.ReviewID, c.Text, c.PubDate, u.ID, u.Username,
		c.Table, u.Table, u.ID, c.AuthorID)
}

func (repository *PostgresRepository) ListByReview(context context.Context, reviewID string, params pagination.Params) ([]*Comment, int, error) {
	c := schema.SocialComment

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, c.Table, c.ReviewID)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, reviewID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_comments")
	}

	query := selectClause() + fmt.Sprintf(` WHERE c.%s = $1 ORDER BY c.%s ASC LIMIT $2 OFFSET $3`, c.ReviewID, c.PubDate)

	rows, err := repository.pool.Query(context, query, reviewID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		entity := &Comment{}
		if err := scanComment(rows, entity); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}

	return comments, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Comment, error) {
	query := selectClause() + fmt.Sprintf(` WHERE c.%s = $1`, schema.SocialComment.ID)

	entity := &Comment{}
	err := scanComment(repository.pool.QueryRow(context, query, id), entity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment not found")
		}
		return nil, dberr.Wrap(err, "get_comment")
	}

	return entity, nil
}

func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	c := schema.SocialComment

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)`,
		c.Table, c.ID, c.ReviewID, c.AuthorID, c.Text, c.PubDate)

	comment.PubDate = time.Now()

	_, err := repository.pool.Exec(context, query,
		comment.ID, comment.ReviewID, comment.Author.ID, comment.Text, comment.PubDate)
	if err != nil {
		return dberr.Wrap(err, "create_comment")
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, comment *Comment) error {
	c := schema.SocialComment

	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`, c.Table, c.Text, c.ID)

	tag, err := repository.pool.Exec(context, query, comment.ID, comment.Text)
	if err != nil {
		return dberr.Wrap(err, "update_comment")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment not found")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	c := schema.SocialComment

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, c.Table, c.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Comment not found")
	}

	return nil
}

func scanComment(row pgx.Row, entity *Comment) error {
	return row.Scan(
		&entity.ID,
		&entity.ReviewID,
		&entity.Text,
		&entity.PubDate,
		&entity.Author.ID,
		&entity.Author.Username,
	)
}
