// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user administration and self-service profile access.

Administrators manage the full account roster (including role assignment);
every authenticated user can read and edit their own profile through the
reserved "me" alias — except for the role field, and except for deletion.

# Architecture

  - Entities: Reuses [auth.User]; this package owns no entity of its own.
  - Policy: Admin gating lives in the router (middleware.RequireAdmin);
    the self-service restrictions live here, where they are testable.
*/
package account

import (
	"context"
	"fmt"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/internal/users/auth"
	"github.com/taibuivan/kritika/pkg/pagination"
	"github.com/taibuivan/kritika/pkg/pointer"
	"github.com/taibuivan/kritika/pkg/uuidv7"
)

// Service implements user administration and self-service use cases.
type Service struct {
	repo Repository
}

// NewService constructs a new [Service].
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// # Inputs

// CreateInput holds the fields an administrator provides for a new account.
type CreateInput struct {
	Username  string
	Email     string
	Role      string
	FirstName string
	LastName  string
	Bio       string
}

// UpdateInput holds a partial profile update. Nil fields are left untouched,
// mirroring PATCH semantics.
type UpdateInput struct {
	Username  *string
	Email     *string
	Role      *string
	FirstName *string
	LastName  *string
	Bio       *string
}

// # Administration

// List returns a page of accounts filtered by an optional username substring.
func (service *Service) List(context context.Context, search string, params pagination.Params) ([]*auth.User, int, error) {
	return service.repo.List(context, search, params)
}

// Get returns a single account by username.
func (service *Service) Get(context context.Context, username string) (*auth.User, error) {
	return service.repo.FindByUsername(context, username)
}

/*
Create provisions an account directly, bypassing the signup flow.

Description: Admin-only. The account starts with no outstanding
confirmation code — the user obtains a token by signing up with the
same pair, which takes the resend path.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *auth.User: Created entity
  - err: Validation or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {
	role := input.Role
	if role == "" {
		role = string(sec.RoleUser)
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, input.Username).
		Username(auth.FieldUsername, input.Username).
		MaxLen(auth.FieldUsername, input.Username, auth.MaxLenUsername).
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email).
		MaxLen(auth.FieldEmail, input.Email, auth.MaxLenEmail).
		OneOf(auth.FieldRole, role, string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &auth.User{
		ID:        uuidv7.New(),
		Username:  input.Username,
		Email:     input.Email,
		Role:      sec.UserRole(role),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	}

	if err := service.repo.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
Update applies a partial profile update to the named account.

Description: Admin-only. Omitted fields keep their current values — the
stored username/email are carried over when the caller does not send them.

Parameters:
  - context: context.Context
  - username: string (current username of the target account)
  - input: UpdateInput

Returns:
  - *auth.User: Updated entity
  - err: NotFound, validation, or storage errors
*/
func (service *Service) Update(context context.Context, username string, input UpdateInput) (*auth.User, error) {
	user, err := service.repo.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	applyProfileFields(user, input)

	if input.Role != nil {
		user.Role = sec.UserRole(*input.Role)
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, user.Username).
		Username(auth.FieldUsername, user.Username).
		MaxLen(auth.FieldUsername, user.Username, auth.MaxLenUsername).
		Required(auth.FieldEmail, user.Email).
		Email(auth.FieldEmail, user.Email).
		MaxLen(auth.FieldEmail, user.Email, auth.MaxLenEmail).
		OneOf(auth.FieldRole, string(user.Role),
			string(sec.RoleUser), string(sec.RoleModerator), string(sec.RoleAdmin))

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
Delete removes the named account and, via storage cascades, its reviews
and comments.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - err: NotFound or storage errors
*/
func (service *Service) Delete(context context.Context, username string) error {
	user, err := service.repo.FindByUsername(context, username)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, user.ID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	return nil
}

// # Self-Service ("me")

// GetMe returns the caller's own profile.
func (service *Service) GetMe(context context.Context, claims *sec.AuthClaims) (*auth.User, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return service.repo.FindByID(context, claims.UserID)
}

/*
UpdateMe applies a partial update to the caller's own profile.

Description: Available to every authenticated user regardless of role.
The role field is rejected outright on this path — privilege changes go
through the admin endpoint, never through self-service.

Parameters:
  - context: context.Context
  - claims: *sec.AuthClaims
  - input: UpdateInput

Returns:
  - *auth.User: Updated entity
  - err: Forbidden role change, validation, or storage errors
*/
func (service *Service) UpdateMe(context context.Context, claims *sec.AuthClaims, input UpdateInput) (*auth.User, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	if input.Role != nil {
		return nil, validate.RequiredError(auth.FieldRole,
			"Role cannot be changed through the self-service profile")
	}

	user, err := service.repo.FindByID(context, claims.UserID)
	if err != nil {
		return nil, err
	}

	applyProfileFields(user, input)

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, user.Username).
		Username(auth.FieldUsername, user.Username).
		MaxLen(auth.FieldUsername, user.Username, auth.MaxLenUsername).
		Required(auth.FieldEmail, user.Email).
		Email(auth.FieldEmail, user.Email).
		MaxLen(auth.FieldEmail, user.Email, auth.MaxLenEmail)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteMe always refuses: an account can never remove itself through the
// self-service path.
func (service *Service) DeleteMe(_ context.Context, _ *sec.AuthClaims) error {
	return apperr.MethodNotAllowed("Accounts cannot delete themselves")
}

// applyProfileFields copies the non-nil profile fields onto the entity.
func applyProfileFields(user *auth.User, input UpdateInput) {
	user.Username = pointer.Fallback(input.Username, user.Username)
	user.Email = pointer.Fallback(input.Email, user.Email)
	user.FirstName = pointer.Fallback(input.FirstName, user.FirstName)
	user.LastName = pointer.Fallback(input.LastName, user.LastName)
	user.Bio = pointer.Fallback(input.Bio, user.Bio)
}
