// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/dberr"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/internal/users/auth"
	"github.com/taibuivan/kritika/pkg/pagination"
)

// # Account Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const accountColumns = `
	id, username, email, role, issuperuser, firstname, lastname, bio,
	COALESCE(confirmationhash, ''), createdat, updatedat`

/*
List returns a page of accounts ordered by username.

Description: The optional search term matches username substrings
case-insensitively. A second COUNT query provides the total for
pagination metadata.

Parameters:
  - context: context.Context
  - search: string
  - params: pagination.Params

Returns:
  - []*auth.User: Page of accounts
  - int: Total matching count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, search string, params pagination.Params) ([]*auth.User, int, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM users.account`
	countQuery := `SELECT COUNT(*) FROM users.account`

	var arguments []any
	if search != "" {
		query += ` WHERE username ILIKE '%' || $1 || '%'`
		countQuery += ` WHERE username ILIKE '%' || $1 || '%'`
		arguments = append(arguments, search)
	}

	var total int
	if err := repository.pool.QueryRow(context, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	query += fmt.Sprintf(" ORDER BY username ASC LIMIT $%d OFFSET $%d", len(arguments)+1, len(arguments)+2)
	arguments = append(arguments, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, query, arguments...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var users []*auth.User
	for rows.Next() {
		user := &auth.User{}
		if err := scanAccount(rows, user); err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_rows_failed: %w", err)
	}

	return users, total, nil
}

/*
FindByID returns the account with the given ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *auth.User: Hydrated entity
  - error: apperr.NotFound or database failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE id = $1`

	return repository.findOne(context, query, id)
}

/*
FindByUsername returns the account with the given username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *auth.User: Hydrated entity
  - error: apperr.NotFound or database failures
*/
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*auth.User, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE username = $1`

	return repository.findOne(context, query, username)
}

/*
Create persists an admin-provisioned account.

Description: The account is written with no outstanding confirmation code.
Unique violations are keyed to the conflicting field.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: Field-keyed validation error on conflicts, or storage failures
*/
func (repository *PostgresRepository) Create(context context.Context, user *auth.User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, role, issuperuser, firstname, lastname, bio, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.Role,
		user.IsSuperuser,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return accountConflictError(err)
		}
		return fmt.Errorf("postgres_account_repo_create_failed: %w", err)
	}

	return nil
}

/*
Update persists the account's mutable profile fields.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: Field-keyed validation error on conflicts, apperr.NotFound when
    the account vanished, or storage failures
*/
func (repository *PostgresRepository) Update(context context.Context, user *auth.User) error {
	const query = `
		UPDATE users.account
		SET username = $2, email = $3, role = $4, firstname = $5, lastname = $6, bio = $7, updatedat = $8
		WHERE id = $1`

	user.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.Role,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return accountConflictError(err)
		}
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User not found")
	}

	return nil
}

/*
Delete removes an account. Reviews and comments cascade at the schema level.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or storage failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM users.account WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User not found")
	}

	return nil
}

// findOne runs a single-row account query and hydrates the entity.
func (repository *PostgresRepository) findOne(context context.Context, query string, argument any) (*auth.User, error) {
	user := &auth.User{}
	err := scanAccount(repository.pool.QueryRow(context, query, argument), user)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_failed: %w", err)
	}

	return user, nil
}

// scanAccount hydrates one account row in accountColumns order.
func scanAccount(row pgx.Row, user *auth.User) error {
	return row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.IsSuperuser,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.ConfirmationHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

// accountConflictError keys the unique violation to the conflicting column.
func accountConflictError(err error) error {
	constraint := dberr.ConstraintName(err)
	switch {
	case strings.Contains(constraint, "username"):
		return validate.RequiredError(auth.FieldUsername, "Username is already taken by another account")
	case strings.Contains(constraint, "email"):
		return validate.RequiredError(auth.FieldEmail, "Email is already registered to another account")
	default:
		return dberr.Wrap(err, "save_account")
	}
}
