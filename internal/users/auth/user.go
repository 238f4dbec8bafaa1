// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the confirmation-code identity lifecycle.

Signup never asks for a password: the caller proves control of an email
address by echoing back a mailed one-time code, which is then exchanged for
a signed access token.

# State Machine

Per user: NoAccount → PendingConfirmation → Confirmed (token issuable) →
PendingConfirmation again on re-signup. The stored code hash is cleared on
successful exchange (single use) and regenerated whenever the same
(username, email) pair signs up again.

# Architecture

This layer is the "Truth" of the identity system. Entities defined here have
no transport dependencies and encapsulate all business rules related to the
signup/exchange flow.
*/
package auth

import (
	"time"

	"github.com/taibuivan/kritika/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Kritika platform.
type User struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	Role        sec.UserRole `json:"role"`
	IsSuperuser bool         `json:"-"` // Bootstrap flag, never exposed or set via the API.
	FirstName   string       `json:"first_name,omitempty"`
	LastName    string       `json:"last_name,omitempty"`
	Bio         string       `json:"bio,omitempty"`

	// ConfirmationHash is the bcrypt hash of the outstanding one-time code,
	// or empty when no code is outstanding. Omitted from JSON for security.
	ConfirmationHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity maps the user to the claim snapshot embedded in access tokens.
func (user *User) Identity() sec.Identity {
	return sec.Identity{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        string(user.Role),
		IsSuperuser: user.IsSuperuser,
	}
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldConfirmationCode = "confirmation_code"
	FieldToken            = "token"
	FieldRole             = "role"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
)
