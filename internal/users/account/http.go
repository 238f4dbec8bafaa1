// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kritika/internal/platform/middleware"
	requestutil "github.com/taibuivan/kritika/internal/platform/request"
	"github.com/taibuivan/kritika/internal/platform/respond"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the user management HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with user management routes.
//
// # Endpoints
//
// Self-service (any authenticated caller):
//   - GET    /me : Own profile
//   - PATCH  /me : Partial own-profile update (role changes rejected)
//   - DELETE /me : Always 405 — accounts never delete themselves
//
// Administration (admin capability required):
//   - GET    /            : Paged roster, optional ?search= username filter
//   - POST   /            : Provision an account directly
//   - GET    /{username}  : Single account
//   - PATCH  /{username}  : Partial update, including role
//   - DELETE /{username}  : Remove account and its authored content
//
// The /me group is registered first so the literal path wins over the
// {username} parameter — "me" is a reserved username for the same reason.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireAuth)

		router.Get("/me", handler.getMe)
		router.Patch("/me", handler.updateMe)
		router.Delete("/me", handler.deleteMe)
	})

	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireAdmin)

		router.Get("/", handler.list)
		router.Post("/", handler.create)
		router.Get("/{username}", handler.get)
		router.Patch("/{username}", handler.update)
		router.Delete("/{username}", handler.delete)
	})

	return router
}

// # Request Payloads

type createRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
}

type updateRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Role      *string `json:"role"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
}

func (request updateRequest) toInput() UpdateInput {
	return UpdateInput{
		Username:  request.Username,
		Email:     request.Email,
		Role:      request.Role,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Bio:       request.Bio,
	}
}

// # Administration Handlers

// list handles GET /api/v1/users with pagination and an optional search filter.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := request.URL.Query().Get("search")

	users, total, err := handler.accountService.List(request.Context(), search, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

// create handles POST /api/v1/users.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.Create(request.Context(), CreateInput{
		Username:  input.Username,
		Email:     input.Email,
		Role:      input.Role,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

// get handles GET /api/v1/users/{username}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	username := chi.URLParam(request, "username")

	user, err := handler.accountService.Get(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// update handles PATCH /api/v1/users/{username}.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	username := chi.URLParam(request, "username")

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.Update(request.Context(), username, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// delete handles DELETE /api/v1/users/{username}.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	username := chi.URLParam(request, "username")

	if err := handler.accountService.Delete(request.Context(), username); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Self-Service Handlers

// getMe handles GET /api/v1/users/me.
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	claims := middleware.GetUser(request.Context())

	user, err := handler.accountService.GetMe(request.Context(), claims)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// updateMe handles PATCH /api/v1/users/me.
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	claims := middleware.GetUser(request.Context())

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	user, err := handler.accountService.UpdateMe(request.Context(), claims, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// deleteMe handles DELETE /api/v1/users/me, which is never allowed.
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	claims := middleware.GetUser(request.Context())

	if err := handler.accountService.DeleteMe(request.Context(), claims); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
