// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/sec"
)

// # Test Doubles

type fakeUserRepository struct {
	users         map[string]*User // keyed by username
	lookupFailure error            // injected infra error for the Find* methods
	promotions    int
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*User{}}
}

func (f *fakeUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	if f.lookupFailure != nil {
		return nil, f.lookupFailure
	}
	if user, ok := f.users[username]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	if f.lookupFailure != nil {
		return nil, f.lookupFailure
	}
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeUserRepository) Create(_ context.Context, user *User) error {
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepository) UpdateConfirmationHash(_ context.Context, userID, hash string) error {
	for _, user := range f.users {
		if user.ID == userID {
			user.ConfirmationHash = hash
			return nil
		}
	}
	return apperr.NotFound("User")
}

func (f *fakeUserRepository) Promote(_ context.Context, userID string) error {
	for _, user := range f.users {
		if user.ID == userID {
			user.Role = sec.RoleAdmin
			user.IsSuperuser = true
			f.promotions++
			return nil
		}
	}
	return apperr.NotFound("User")
}

type fakeThrottleRepository struct {
	cooldownBusy bool
	attempts     int64
}

func (f *fakeThrottleRepository) AcquireCooldown(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return !f.cooldownBusy, nil
}

func (f *fakeThrottleRepository) CountAttempt(_ context.Context, _ string, _ time.Duration) (int64, error) {
	f.attempts++
	return f.attempts, nil
}

func (f *fakeThrottleRepository) ResetAttempts(_ context.Context, _ string) error {
	f.attempts = 0
	return nil
}

type fakeTokenProvider struct{}

func (f *fakeTokenProvider) GenerateAccessToken(identity sec.Identity, _ time.Duration) (string, error) {
	return "signed-token-for-" + identity.Username, nil
}

type fakeMailSender struct {
	failDelivery bool
	sentBodies   []string
	recipients   []string
}

func (f *fakeMailSender) Send(_ context.Context, recipient, _ string, body string) error {
	if f.failDelivery {
		return assert.AnError
	}
	f.recipients = append(f.recipients, recipient)
	f.sentBodies = append(f.sentBodies, body)
	return nil
}

// newTestService wires a Service over fresh fakes.
func newTestService() (*Service, *fakeUserRepository, *fakeThrottleRepository, *fakeMailSender) {
	users := newFakeUserRepository()
	throttle := &fakeThrottleRepository{}
	mailer := &fakeMailSender{}
	service := NewService(users, throttle, &fakeTokenProvider{}, mailer)
	return service, users, throttle, mailer
}

// extractCode pulls the 6-digit code out of the mailed body.
func extractCode(t *testing.T, body string) string {
	t.Helper()
	require.GreaterOrEqual(t, len(body), 6)
	return body[len(body)-6:]
}

// # Signup

/*
TestSignUp_CreatesUnconfirmedUser verifies the happy path: a new account is
created with role user and a hashed outstanding code, and only the
username/email pair is echoed back.
*/
func TestSignUp_CreatesUnconfirmedUser(t *testing.T) {
	service, users, _, mailer := newTestService()

	result, err := service.SignUp(context.Background(), SignUpInput{
		Username: "alice",
		Email:    "a@x.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", result.Username)
	assert.Equal(t, "a@x.com", result.Email)

	stored := users.users["alice"]
	require.NotNil(t, stored)
	assert.Equal(t, sec.RoleUser, stored.Role)
	assert.NotEmpty(t, stored.ConfirmationHash)

	// The mailed code must verify against the stored hash.
	require.Len(t, mailer.sentBodies, 1)
	assert.Equal(t, []string{"a@x.com"}, mailer.recipients)
	code := extractCode(t, mailer.sentBodies[0])
	assert.True(t, sec.CheckConfirmationCode(code, stored.ConfirmationHash))
}

/*
TestSignUp_ReservedUsername verifies that "me" is rejected in any letter case.
*/
func TestSignUp_ReservedUsername(t *testing.T) {
	service, _, _, _ := newTestService()

	for _, username := range []string{"me", "ME", "Me", "mE"} {
		_, err := service.SignUp(context.Background(), SignUpInput{
			Username: username,
			Email:    "me@x.com",
		})

		require.Error(t, err, "username %q must be rejected", username)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	}
}

/*
TestSignUp_PairConflicts verifies that a pair colliding with a DIFFERENT
account fails with a field-keyed validation error, while the exact same
pair is accepted as a resend.
*/
func TestSignUp_PairConflicts(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.SignUp(context.Background(), SignUpInput{Username: "alice", Email: "a@x.com"})
	require.NoError(t, err)

	tests := []struct {
		name          string
		username      string
		email         string
		conflictField string
	}{
		{"username_taken_by_other_email", "alice", "other@x.com", FieldUsername},
		{"email_taken_by_other_username", "bob", "a@x.com", FieldEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.SignUp(context.Background(), SignUpInput{
				Username: tt.username,
				Email:    tt.email,
			})

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
			require.Len(t, ae.Details, 1)
			assert.Equal(t, tt.conflictField, ae.Details[0].Field)
		})
	}
}

/*
TestSignUp_ResendRegeneratesCode verifies the idempotent resend: the same
pair signs up again and receives a fresh code that replaces the old one.
*/
func TestSignUp_ResendRegeneratesCode(t *testing.T) {
	service, users, _, mailer := newTestService()

	_, err := service.SignUp(context.Background(), SignUpInput{Username: "alice", Email: "a@x.com"})
	require.NoError(t, err)
	firstHash := users.users["alice"].ConfirmationHash

	_, err = service.SignUp(context.Background(), SignUpInput{Username: "alice", Email: "a@x.com"})
	require.NoError(t, err)

	assert.Len(t, mailer.sentBodies, 2)
	secondHash := users.users["alice"].ConfirmationHash
	assert.NotEqual(t, firstHash, secondHash)

	// Only the latest code verifies.
	latestCode := extractCode(t, mailer.sentBodies[1])
	assert.True(t, sec.CheckConfirmationCode(latestCode, secondHash))
}

/*
TestSignUp_ResendCooldown verifies that a busy cooldown refuses the resend
with a rate-limit error before any code rotation happens.
*/
func TestSignUp_ResendCooldown(t *testing.T) {
	service, users, throttle, mailer := newTestService()

	_, err := service.SignUp(context.Background(), SignUpInput{Username: "alice", Email: "a@x.com"})
	require.NoError(t, err)
	hashBefore := users.users["alice"].ConfirmationHash

	throttle.cooldownBusy = true
	_, err = service.SignUp(context.Background(), SignUpInput{Username: "alice", Email: "a@x.com"})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusTooManyRequests, ae.HTTPStatus)

	assert.Equal(t, hashBefore, users.users["alice"].ConfirmationHash)
	assert.Len(t, mailer.sentBodies, 1)
}

/*
TestSignUp_MailFailureIsLoud verifies that a failed delivery aborts the call
with an error while keeping the enrolled account (and its code) for retry.
*/
func TestSignUp_MailFailureIsLoud(t *testing.T) {
	service, users, _, mailer := newTestService()
	mailer.failDelivery = true

	_, err := service.SignUp(context.Background(), SignUpInput{Username: "alice", Email: "a@x.com"})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusServiceUnavailable, ae.HTTPStatus)

	// The account survives the failed send so a retry takes the resend path.
	stored := users.users["alice"]
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.ConfirmationHash)
}

/*
TestSignUp_LookupFailurePropagates verifies that an infrastructure failure
during the pair lookups aborts the flow, instead of masquerading as "no
such user" and proceeding to Create.
*/
func TestSignUp_LookupFailurePropagates(t *testing.T) {
	service, users, _, mailer := newTestService()
	users.lookupFailure = assert.AnError

	_, err := service.SignUp(context.Background(), SignUpInput{
		Username: "alice",
		Email:    "a@x.com",
	})

	require.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, users.users)
	assert.Empty(t, mailer.recipients)
}

// # Token Exchange

// signUpAndGetCode enrolls a user and returns the mailed code.
func signUpAndGetCode(t *testing.T, service *Service, mailer *fakeMailSender, username, email string) string {
	t.Helper()
	_, err := service.SignUp(context.Background(), SignUpInput{Username: username, Email: email})
	require.NoError(t, err)
	return extractCode(t, mailer.sentBodies[len(mailer.sentBodies)-1])
}

/*
TestExchangeToken_SingleUse walks the canonical scenario: a correct code
succeeds exactly once; replaying it fails with a validation error.
*/
func TestExchangeToken_SingleUse(t *testing.T) {
	service, users, _, mailer := newTestService()
	code := signUpAndGetCode(t, service, mailer, "alice", "a@x.com")

	token, err := service.ExchangeToken(context.Background(), ExchangeInput{
		Username:         "alice",
		ConfirmationCode: code,
	})

	require.NoError(t, err)
	assert.Equal(t, "signed-token-for-alice", token)
	assert.Empty(t, users.users["alice"].ConfirmationHash, "code must be consumed")

	// Replay with the same (now consumed) code.
	_, err = service.ExchangeToken(context.Background(), ExchangeInput{
		Username:         "alice",
		ConfirmationCode: code,
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
}

/*
TestExchangeToken_UnknownUsername verifies the 404 contract for a username
that never signed up.
*/
func TestExchangeToken_UnknownUsername(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.ExchangeToken(context.Background(), ExchangeInput{
		Username:         "ghost",
		ConfirmationCode: "123456",
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
}

/*
TestExchangeToken_WrongCodeKeepsRetry verifies that a mismatch neither
consumes the outstanding code nor blocks a later correct attempt.
*/
func TestExchangeToken_WrongCodeKeepsRetry(t *testing.T) {
	service, users, _, mailer := newTestService()
	code := signUpAndGetCode(t, service, mailer, "alice", "a@x.com")

	wrongCode := "000000"
	if wrongCode == code {
		wrongCode = "000001"
	}

	_, err := service.ExchangeToken(context.Background(), ExchangeInput{
		Username:         "alice",
		ConfirmationCode: wrongCode,
	})

	require.Error(t, err)
	assert.NotEmpty(t, users.users["alice"].ConfirmationHash, "wrong code must not consume")

	// Retry with the correct code still succeeds.
	token, err := service.ExchangeToken(context.Background(), ExchangeInput{
		Username:         "alice",
		ConfirmationCode: code,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

/*
TestExchangeToken_AttemptThrottle verifies that exceeding the per-username
attempt budget is refused with a rate-limit error.
*/
func TestExchangeToken_AttemptThrottle(t *testing.T) {
	service, _, throttle, mailer := newTestService()
	code := signUpAndGetCode(t, service, mailer, "alice", "a@x.com")

	throttle.attempts = ExchangeMaxAttempts // next attempt exceeds the budget

	_, err := service.ExchangeToken(context.Background(), ExchangeInput{
		Username:         "alice",
		ConfirmationCode: code,
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusTooManyRequests, ae.HTTPStatus)
}

// # Superuser Bootstrap

/*
TestEnsureSuperuser_CreatesAdmin verifies that the bootstrap creates the
account as a superuser admin when it does not exist yet. No code is
outstanding: the account signs in through the normal signup flow.
*/
func TestEnsureSuperuser_CreatesAdmin(t *testing.T) {
	service, users, _, _ := newTestService()

	err := service.EnsureSuperuser(context.Background(), "root", "root@x.com")

	require.NoError(t, err)
	created := users.users["root"]
	require.NotNil(t, created)
	assert.Equal(t, sec.RoleAdmin, created.Role)
	assert.True(t, created.IsSuperuser)
	assert.Empty(t, created.ConfirmationHash)
}

func TestEnsureSuperuser_PromotesExistingAccount(t *testing.T) {
	service, users, _, _ := newTestService()
	users.users["root"] = &User{
		ID:       "u-1",
		Username: "root",
		Email:    "root@x.com",
		Role:     sec.RoleUser,
	}

	err := service.EnsureSuperuser(context.Background(), "root", "root@x.com")

	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, users.users["root"].Role)
	assert.True(t, users.users["root"].IsSuperuser)
}

func TestEnsureSuperuser_AlreadySuperuserIsNoOp(t *testing.T) {
	service, users, _, _ := newTestService()
	users.users["root"] = &User{
		ID:          "u-1",
		Username:    "root",
		Email:       "root@x.com",
		Role:        sec.RoleAdmin,
		IsSuperuser: true,
	}

	err := service.EnsureSuperuser(context.Background(), "root", "root@x.com")

	require.NoError(t, err)
	assert.Zero(t, users.promotions)
}

func TestEnsureSuperuser_RejectsInvalidPair(t *testing.T) {
	service, users, _, _ := newTestService()

	err := service.EnsureSuperuser(context.Background(), "root", "not-an-email")

	require.Error(t, err)
	assert.Empty(t, users.users)
}
