// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/sec"
	"github.com/taibuivan/kritika/internal/users/auth"
	"github.com/taibuivan/kritika/pkg/pagination"
	"github.com/taibuivan/kritika/pkg/pointer"
)

// # Test Doubles

type fakeRepository struct {
	users map[string]*auth.User // keyed by ID
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{users: map[string]*auth.User{}}
}

func (f *fakeRepository) List(_ context.Context, search string, params pagination.Params) ([]*auth.User, int, error) {
	var matched []*auth.User
	for _, user := range f.users {
		if search == "" || strings.Contains(strings.ToLower(user.Username), strings.ToLower(search)) {
			copied := *user
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	total := len(matched)
	offset := params.Offset()
	if offset > total {
		offset = total
	}
	end := offset + params.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := f.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (f *fakeRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (f *fakeRepository) Create(_ context.Context, user *auth.User) error {
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeRepository) Update(_ context.Context, user *auth.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperr.NotFound("User not found")
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return apperr.NotFound("User not found")
	}
	delete(f.users, id)
	return nil
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	return NewService(repo), repo
}

func seedUser(repo *fakeRepository, id, username string, role sec.UserRole) *auth.User {
	user := &auth.User{ID: id, Username: username, Email: username + "@example.com", Role: role}
	repo.users[id] = user
	return user
}

func claimsFor(user *auth.User) *sec.AuthClaims {
	return &sec.AuthClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}
}

// # Administration

func TestCreate_DefaultsToUserRole(t *testing.T) {
	service, repo := newTestService()

	user, err := service.Create(context.Background(), CreateInput{
		Username: "reader",
		Email:    "reader@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)
	assert.Len(t, repo.users, 1)
}

func TestCreate_RejectsUnknownRole(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Create(context.Background(), CreateInput{
		Username: "reader",
		Email:    "reader@example.com",
		Role:     "superhero",
	})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
	require.Len(t, appError.Details, 1)
	assert.Equal(t, auth.FieldRole, appError.Details[0].Field)
}

func TestCreate_RejectsReservedUsername(t *testing.T) {
	service, _ := newTestService()

	for _, username := range []string{"me", "ME", "Me"} {
		_, err := service.Create(context.Background(), CreateInput{
			Username: username,
			Email:    "someone@example.com",
		})

		var appError *apperr.AppError
		require.ErrorAs(t, err, &appError, "username %q should be rejected", username)
		assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
	}
}

func TestUpdate_PartialKeepsOmittedFields(t *testing.T) {
	service, repo := newTestService()
	seeded := seedUser(repo, "id-1", "reader", sec.RoleUser)
	seeded.Bio = "original bio"

	updated, err := service.Update(context.Background(), "reader", UpdateInput{
		FirstName: pointer.To("Ada"),
	})
	require.NoError(t, err)

	assert.Equal(t, "reader", updated.Username)
	assert.Equal(t, "reader@example.com", updated.Email)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, "original bio", updated.Bio)
}

func TestUpdate_AdminCanPromote(t *testing.T) {
	service, repo := newTestService()
	seedUser(repo, "id-1", "reader", sec.RoleUser)

	updated, err := service.Update(context.Background(), "reader", UpdateInput{
		Role: pointer.To(string(sec.RoleModerator)),
	})
	require.NoError(t, err)

	assert.Equal(t, sec.RoleModerator, updated.Role)
}

func TestUpdate_UnknownUsername(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Update(context.Background(), "ghost", UpdateInput{})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}

func TestList_FiltersByUsernameSubstring(t *testing.T) {
	service, repo := newTestService()
	seedUser(repo, "id-1", "alice", sec.RoleUser)
	seedUser(repo, "id-2", "malice", sec.RoleUser)
	seedUser(repo, "id-3", "bob", sec.RoleUser)

	users, total, err := service.List(context.Background(), "lice", pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "malice", users[1].Username)
}

func TestDelete_RemovesAccount(t *testing.T) {
	service, repo := newTestService()
	seedUser(repo, "id-1", "reader", sec.RoleUser)

	require.NoError(t, service.Delete(context.Background(), "reader"))
	assert.Empty(t, repo.users)
}

// # Self-Service

func TestUpdateMe_RejectsRoleChange(t *testing.T) {
	service, repo := newTestService()
	seeded := seedUser(repo, "id-1", "reader", sec.RoleUser)

	_, err := service.UpdateMe(context.Background(), claimsFor(seeded), UpdateInput{
		Role: pointer.To(string(sec.RoleAdmin)),
	})

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
	require.Len(t, appError.Details, 1)
	assert.Equal(t, auth.FieldRole, appError.Details[0].Field)

	// Role must be unchanged in storage.
	assert.Equal(t, sec.RoleUser, repo.users["id-1"].Role)
}

func TestUpdateMe_EditsOwnProfile(t *testing.T) {
	service, repo := newTestService()
	seeded := seedUser(repo, "id-1", "reader", sec.RoleUser)

	updated, err := service.UpdateMe(context.Background(), claimsFor(seeded), UpdateInput{
		Bio: pointer.To("Fond of long novels."),
	})
	require.NoError(t, err)

	assert.Equal(t, "Fond of long novels.", updated.Bio)
	assert.Equal(t, "reader", updated.Username)
}

func TestGetMe_RequiresClaims(t *testing.T) {
	service, _ := newTestService()

	_, err := service.GetMe(context.Background(), nil)

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusUnauthorized, appError.HTTPStatus)
}

func TestDeleteMe_AlwaysRefused(t *testing.T) {
	service, repo := newTestService()
	seeded := seedUser(repo, "id-1", "reader", sec.RoleUser)

	err := service.DeleteMe(context.Background(), claimsFor(seeded))

	var appError *apperr.AppError
	require.ErrorAs(t, err, &appError)
	assert.Equal(t, http.StatusMethodNotAllowed, appError.HTTPStatus)
	assert.Len(t, repo.users, 1)
}
