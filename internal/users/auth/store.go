// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account.

		Uniqueness of username and email is guaranteed by storage
		constraints; violations surface as field-keyed validation errors.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdateConfirmationHash replaces the stored one-time code hash.

		An empty hash clears the column (no code outstanding), which is how
		a code is consumed after a successful exchange.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - hash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateConfirmationHash(context context.Context, userID, hash string) error

	/*
		Promote grants an existing account the superuser admin privileges
		used by the startup bootstrap.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	Promote(context context.Context, userID string) error
}

// # Volatile Throttle State

// ThrottleRepository tracks short-lived abuse-control state in Redis.
//
// Losing this state is harmless: cooldowns and attempt counters reset,
// nothing about identity correctness depends on it.
type ThrottleRepository interface {

	/*
		AcquireCooldown atomically claims the resend cooldown for a user.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - ttl: time.Duration

		Returns:
		  - bool: true if the cooldown was free and is now held
		  - error: Store failures
	*/
	AcquireCooldown(context context.Context, userID string, ttl time.Duration) (bool, error)

	/*
		CountAttempt records one token-exchange attempt for a username and
		returns the total within the current window.

		Parameters:
		  - context: context.Context
		  - username: string
		  - window: time.Duration

		Returns:
		  - int64: Attempts recorded in the active window, including this one
		  - error: Store failures
	*/
	CountAttempt(context context.Context, username string, window time.Duration) (int64, error)

	/*
		ResetAttempts clears the attempt counter after a successful exchange.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - error: Store failures
	*/
	ResetAttempts(context context.Context, username string) error
}
