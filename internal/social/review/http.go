package review

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

// Routes returns review routes, mounted under /titles/{titleID}/reviews.
// Reads are public; writes require a caller — the ownership/moderation policy
// itself lives in the service. The comments router nests under each review.
func (handler *Handler) Routes(comments chi.Router) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)

	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireAuth)

		router.Post("/", handler.create)
	})

	router.Route("/{reviewID}", func(router chi.Router) {
		router.Get("/", handler.get)

		router.Group(func(router chi.Router) {
			router.Use(middleware.RequireAuth)

			router.Patch("/", handler.update)
			router.Delete("/", handler.delete)
		})

		router.Mount("/comments", comments)
	})

	return router
}

type createRequest struct {
	Score int    `json:"score"`
	Text  string `json:"text"`
}

type updateRequest struct {
	Score *int    `json:"score"`
	Text  *string `json:"text"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	titleID := chi.URLParam(request, "titleID")
	params := pagination.FromRequest(request)

	reviews, total, err := handler.service.List(request.Context(), titleID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	titleID := chi.URLParam(request, "titleID")
	reviewID := chi.URLParam(request, "reviewID")

	entity, err := handler.service.Get(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	titleID := chi.URLParam(request, "titleID")
	claims := middleware.GetUser(request.Context())

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entity, err := handler.service.Create(request.Context(), titleID, claims, CreateInput{
		Score: input.Score,
		Text:  input.Text,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	titleID := chi.URLParam(request, "titleID")
	reviewID := chi.URLParam(request, "reviewID")
	claims := middleware.GetUser(request.Context())

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entity, err := handler.service.Update(request.Context(), titleID, reviewID, claims, UpdateInput{
		Score: input.Score,
		Text:  input.Text,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	titleID := chi.URLParam(request, "titleID")
	reviewID := chi.URLParam(request, "reviewID")
	claims := middleware.GetUser(request.Context())

	if err := handler.service.Delete(request.Context(), titleID, reviewID, claims); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
