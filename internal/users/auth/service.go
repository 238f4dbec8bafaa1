// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/mail"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given identity.
	//
	// # Parameters
	//   - identity: The claim snapshot of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(identity sec.Identity, timeToLive time.Duration) (string, error)
}

// Service implements the confirmation-code signup and token-exchange use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to code generation,
// hashing, or exchange logic must be reviewed by the security team.
type Service struct {
	userRepository     UserRepository
	throttleRepository ThrottleRepository
	tokenProvider      TokenProvider
	mailSender         mail.Sender
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	throttleRepo ThrottleRepository,
	tokenProv TokenProvider,
	mailSender mail.Sender,
) *Service {
	return &Service{
		userRepository:     userRepo,
		throttleRepository: throttleRepo,
		tokenProvider:      tokenProv,
		mailSender:         mailSender,
	}
}

// # Signup Flow

// SignUpInput holds the data required to start (or repeat) a signup.
type SignUpInput struct {
	Username string
	Email    string
}

// SignUpResult echoes the accepted identity pair. The confirmation code
// itself travels only by mail, never in the API response.
type SignUpResult struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

/*
SignUp validates the identity pair, issues a one-time confirmation code,
and mails it to the given address.

Description: Idempotent enrollment. A repeated signup with the exact same
(username, email) pair regenerates the code instead of failing, so a lost
mail is recovered by simply signing up again. A pair that collides with a
DIFFERENT existing account is rejected.

Mail delivery failures are NOT swallowed: the caller receives an error and
must retry. The created account and its code survive the failed send, so
the retry takes the resend path.

Parameters:
  - context: context.Context
  - input: SignUpInput

Returns:
  - *SignUpResult: The accepted username/email pair
  - err: Validation, rate-limit, delivery, or storage errors
*/
func (service *Service) SignUp(context context.Context, input SignUpInput) (*SignUpResult, error) {

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Username(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, MaxLenUsername).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, MaxLenEmail)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Resolve both halves of the identity pair independently. A lookup miss
	// is expected here and must not abort the flow; anything else (a database
	// outage, say) must, or it would resurface later as a baffling
	// unique-violation from Create.
	existingByUsername, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil && !isLookupMiss(err) {
		return nil, err
	}
	existingByEmail, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil && !isLookupMiss(err) {
		return nil, err
	}

	// Reject pairs that collide with a DIFFERENT account. Field-keyed errors
	// tell the caller which half of the pair is the problem.
	if existingByUsername != nil && existingByUsername.Email != input.Email {
		return nil, validate.RequiredError(FieldUsername, "Username is already taken by another account")
	}
	if existingByEmail != nil && existingByEmail.Username != input.Username {
		return nil, validate.RequiredError(FieldEmail, "Email is already registered to another account")
	}

	// Generate the one-time secret before touching storage so a generation
	// failure leaves no half-initialized account behind.
	code, err := sec.GenerateConfirmationCode()
	if err != nil {
		return nil, fmt.Errorf("auth_service_code_generation_failed: %w", err)
	}

	codeHash, err := sec.HashConfirmationCode(code)
	if err != nil {
		return nil, fmt.Errorf("auth_service_code_hash_failed: %w", err)
	}

	user := existingByUsername

	if user != nil {
		// Idempotent resend: same pair already enrolled, regenerate its code.
		// The cooldown guards the mailbox, not correctness.
		acquired, err := service.throttleRepository.AcquireCooldown(context, user.ID, SignupResendCooldown)
		if err != nil {
			return nil, fmt.Errorf("auth_service_cooldown_failed: %w", err)
		}
		if !acquired {
			return nil, apperr.RateLimited(int(SignupResendCooldown.Seconds()))
		}

		if err := service.userRepository.UpdateConfirmationHash(context, user.ID, codeHash); err != nil {
			return nil, fmt.Errorf("auth_service_code_rotate_failed: %w", err)
		}
	} else {
		// First signup for this pair. Time-sortable ID to prevent PG index
		// fragmentation. Uniqueness races with concurrent signups are caught
		// by the storage constraints, not by the lookups above.
		user = &User{
			ID:               uuidv7.New(),
			Username:         input.Username,
			Email:            input.Email,
			Role:             sec.RoleUser,
			ConfirmationHash: codeHash,
		}

		if err := service.userRepository.Create(context, user); err != nil {
			return nil, err
		}

		// Hold the cooldown for the fresh account too, so an immediate
		// re-signup does not double-send.
		_, _ = service.throttleRepository.AcquireCooldown(context, user.ID, SignupResendCooldown)
	}

	// Fail loudly: a lost confirmation mail would strand the account in
	// PendingConfirmation with the user none the wiser.
	body := fmt.Sprintf("Your confirmation code: %s", code)
	if err := service.mailSender.Send(context, user.Email, confirmationMailSubject, body); err != nil {
		return nil, apperr.ServiceUnavailable("Confirmation email could not be delivered. Please try again.")
	}

	return &SignUpResult{Username: user.Username, Email: user.Email}, nil
}

// # Token Exchange

// ExchangeInput holds the credentials for a code-to-token exchange.
type ExchangeInput struct {
	Username         string
	ConfirmationCode string
}

/*
ExchangeToken trades a valid confirmation code for a signed access token.

Description: Looks up the account, verifies the one-time code against its
stored hash, consumes the code, and mints a JWT bound to the account's
identity and role.

A wrong code does NOT consume the outstanding one — the user may retry
until correct — but attempts are throttled per username to keep the 6-digit
space safe from enumeration.

Parameters:
  - context: context.Context
  - input: ExchangeInput

Returns:
  - string: Signed access token
  - err: NotFound (unknown username), Validation (used/wrong code),
    RateLimited, or storage errors
*/
func (service *Service) ExchangeToken(context context.Context, input ExchangeInput) (string, error) {

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Username(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode).
		Custom(FieldConfirmationCode,
			len(input.ConfirmationCode) != ConfirmationCodeLength,
			fmt.Sprintf("Must be exactly %d digits", ConfirmationCodeLength))

	if err := validator.Err(); err != nil {
		return "", err
	}

	// Unknown username is a 404, per the API contract — signup existence is
	// public information (signup itself reveals it).
	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return "", err
	}

	// Throttle before verifying, so failed attempts are always counted.
	attempts, err := service.throttleRepository.CountAttempt(context, input.Username, ExchangeAttemptWindow)
	if err != nil {
		return "", fmt.Errorf("auth_service_attempt_count_failed: %w", err)
	}
	if attempts > ExchangeMaxAttempts {
		return "", apperr.RateLimited(int(ExchangeAttemptWindow.Seconds()))
	}

	if user.ConfirmationHash == "" {
		return "", validate.RequiredError(FieldConfirmationCode,
			"Confirmation code already used or never requested")
	}

	// A mismatch leaves the stored code intact: the user may retry with the
	// correct one (throttled above).
	if !sec.CheckConfirmationCode(input.ConfirmationCode, user.ConfirmationHash) {
		return "", validate.RequiredError(FieldConfirmationCode, "Invalid confirmation code")
	}

	// Single use: consume the code before minting the token.
	if err := service.userRepository.UpdateConfirmationHash(context, user.ID, ""); err != nil {
		return "", fmt.Errorf("auth_service_code_consume_failed: %w", err)
	}

	_ = service.throttleRepository.ResetAttempts(context, input.Username)

	token, err := service.tokenProvider.GenerateAccessToken(user.Identity(), AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return token, nil
}

// # Superuser Bootstrap

/*
EnsureSuperuser guarantees the configured bootstrap account exists as a
superuser admin.

Description: A fresh deployment has no admin, and every admin endpoint sits
behind the admin guard, so the first admin cannot be created through the API.
This runs once at startup: it creates the account when absent, promotes it
when it exists with lesser privileges, and is a no-op when already a
superuser admin. The account signs in through the normal confirmation-code
flow — signing up with the same (username, email) pair mails a code without
touching the role.

Parameters:
  - context: context.Context
  - username: string
  - email: string

Returns:
  - err: Validation or storage errors
*/
func (service *Service) EnsureSuperuser(context context.Context, username, email string) error {

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		Username(FieldUsername, username).
		MaxLen(FieldUsername, username, MaxLenUsername).
		Required(FieldEmail, email).
		Email(FieldEmail, email)

	if err := validator.Err(); err != nil {
		return err
	}

	existing, err := service.userRepository.FindByUsername(context, username)
	if err != nil && !isLookupMiss(err) {
		return err
	}

	if existing != nil {
		if existing.IsSuperuser && existing.Role == sec.RoleAdmin {
			return nil
		}
		return service.userRepository.Promote(context, existing.ID)
	}

	user := &User{
		ID:          uuidv7.New(),
		Username:    username,
		Email:       email,
		Role:        sec.RoleAdmin,
		IsSuperuser: true,
	}

	return service.userRepository.Create(context, user)
}

// isLookupMiss reports whether err is a plain not-found, which account
// lookups treat as "slot available" rather than a failure.
func isLookupMiss(err error) bool {
	appError := apperr.As(err)
	return appError != nil && appError.HTTPStatus == http.StatusNotFound
}
