// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Why here?
//
// Uniqueness rules (username, email, slugs, one review per author per title)
// are enforced by PostgreSQL constraints — application pre-checks are a
// courtesy for friendlier messages only. This package is the single place
// where a raw constraint violation becomes a client-safe validation error,
// so concurrent check-then-write races surface identically to the
// pre-checked path.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/kritika/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Uniqueness violations map to a validation failure (not a raw 409):
	// the API treats storage conflicts and input conflicts identically.
	if IsUniqueViolation(err) {
		return apperr.ValidationError("A record with these unique values already exists")
	}

	// 3. Foreign-key failures mean a referenced entity vanished mid-request.
	if isPgCode(err, pgerrcode.ForeignKeyViolation) {
		return apperr.NotFound("Referenced resource")
	}

	// 4. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	return isPgCode(err, pgerrcode.UniqueViolation)
}

// ConstraintName extracts the violated constraint's name, or "" if err is
// not a constraint violation. Callers use it to key field-level messages.
func ConstraintName(err error) string {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.ConstraintName
	}
	return ""
}

// isPgCode reports whether err carries the given PostgreSQL SQLSTATE code.
func isPgCode(err error, code string) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == code
}
