package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kritika/internal/platform/middleware"
	requestutil "github.com/taibuivan/kritika/internal/platform/request"
	"github.com/taibuivan/kritika/internal/platform/respond"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns comment routes to be mounted under
// /titles/{titleID}/reviews/{reviewID}/comments.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{commentID}", handler.get)

	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireAuth)

		router.Post("/", handler.create)
		router.Patch("/{commentID}", handler.update)
		router.Delete("/{commentID}", handler.delete)
	})

	return router
}

type createRequest struct {
	Text string `json:"text"`
}

type updateRequest struct {
	Text *string `json:"text"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	titleID := chi.URLParam(request, "titleID")
	reviewID := chi.URLParam(request, "reviewID")
	params := pagination.FromRequest(request)

	comments, total, err := handler.service.List(request.Context(), titleID, reviewID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	entity, err := handler.service.Get(request.Context(),
		chi.URLParam(request, "titleID"),
		chi.URLParam(request, "reviewID"),
		chi.URLParam(request, "commentID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	claims := middleware.GetUser(request.Context())

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entity, err := handler.service.Create(request.Context(),
		chi.URLParam(request, "titleID"),
		chi.URLParam(request, "reviewID"),
		claims, CreateInput{Text: input.Text})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	claims := middleware.GetUser(request.Context())

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entity, err := handler.service.Update(request.Context(),
		chi.URLParam(request, "titleID"),
		chi.URLParam(request, "reviewID"),
		chi.URLParam(request, "commentID"),
		claims, UpdateInput{Text: input.Text})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	claims := middleware.GetUser(request.Context())

	err := handler.service.Delete(request.Context(),
		chi.URLParam(request, "titleID"),
		chi.URLParam(request, "reviewID"),
		chi.URLParam(request, "commentID"),
		claims)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
