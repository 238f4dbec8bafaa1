// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"

	"github.com/taibuivan/kritika/internal/users/auth"
	"github.com/taibuivan/kritika/pkg/pagination"
)

// # Account Data Access

// Repository defines the persistence contract for user administration.
//
// It deliberately overlaps with the auth package's narrower repository:
// auth only ever touches the signup columns, while administration reads
// and writes the whole profile.
type Repository interface {

	/*
		List returns a page of accounts, optionally filtered by a username
		substring, ordered by username.

		Parameters:
		  - context: context.Context
		  - search: string (empty means no filter)
		  - params: pagination.Params

		Returns:
		  - []*auth.User: Page of accounts
		  - int: Total matching count (for pagination metadata)
		  - error: Database retrieval failures
	*/
	List(context context.Context, search string, params pagination.Params) ([]*auth.User, int, error)

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *auth.User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *auth.User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*auth.User, error)

	/*
		Create persists an admin-provisioned account.

		Parameters:
		  - context: context.Context
		  - user: *auth.User

		Returns:
		  - error: Field-keyed validation error on conflicts, or storage failures
	*/
	Create(context context.Context, user *auth.User) error

	/*
		Update persists changes to an account's mutable fields.

		Parameters:
		  - context: context.Context
		  - user: *auth.User

		Returns:
		  - error: Field-keyed validation error on conflicts, or storage failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		Delete removes an account. Storage-level cascade rules remove the
		account's reviews and comments with it.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error
}
