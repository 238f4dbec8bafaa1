// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

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
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// # err Mapping
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE 23505) are mapped to
// domain-friendly [apperr.AppError] types here, so races that slip past the
// service-layer pre-checks surface as the same validation errors.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account data, initializing timestamps. Unique
violations on username or email are translated into field-keyed validation
errors, matching what the service's pre-checks would have produced.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Field-keyed validation error on conflicts, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, role, issuperuser, firstname, lastname, bio, confirmationhash, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
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
		nullableHash(user.ConfirmationHash),
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return uniqueViolationError(err)
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByUsername retrieves a user record by their unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT id, username, email, role, issuperuser, firstname, lastname, bio,
		       COALESCE(confirmationhash, ''), createdat, updatedat
		FROM users.account
		WHERE username = $1`

	return repository.scanOne(context, query, username, "User not found with this username")
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, username, email, role, issuperuser, firstname, lastname, bio,
		       COALESCE(confirmationhash, ''), createdat, updatedat
		FROM users.account
		WHERE email = $1`

	return repository.scanOne(context, query, email, "User not found with this email")
}

/*
UpdateConfirmationHash replaces the stored one-time code hash.

Description: An empty hash writes NULL, consuming the outstanding code.

Parameters:
  - context: context.Context
  - userID: string
  - hash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateConfirmationHash(context context.Context, userID, hash string) error {
	const query = `
		UPDATE users.account
		SET confirmationhash = $2, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, nullableHash(hash), time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_confirmation_failed: %w", err)
	}

	return nil
}

/*
Promote grants an existing account superuser admin privileges.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) Promote(context context.Context, userID string) error {
	const query = `
		UPDATE users.account
		SET role = $2, issuperuser = TRUE, updatedat = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, sec.RoleAdmin, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_promote_failed: %w", err)
	}

	return nil
}

// scanOne runs a single-row account query and hydrates the entity.
func (repository *PostgresUserRepository) scanOne(context context.Context, query, argument, notFoundMessage string) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, argument).Scan(
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

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(notFoundMessage)
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	return user, nil
}

// nullableHash maps an empty hash to SQL NULL.
func nullableHash(hash string) any {
	if hash == "" {
		return nil
	}
	return hash
}

// uniqueViolationError keys the conflict message to the violated column.
func uniqueViolationError(err error) error {
	constraint := dberr.ConstraintName(err)
	switch {
	case strings.Contains(constraint, "username"):
		return validate.RequiredError(FieldUsername, "Username is already taken by another account")
	case strings.Contains(constraint, "email"):
		return validate.RequiredError(FieldEmail, "Email is already registered to another account")
	default:
		return dberr.Wrap(err, "create_user")
	}
}
