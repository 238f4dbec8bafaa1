package title

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

// Routes exposes reads publicly and gates mutations behind the admin guard.
// The reviews router is mounted under each title so review paths always carry
// the owning title's ID.
func (handler *Handler) Routes(reviews chi.Router) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)

	router.Group(func(router chi.Router) {
		router.Use(middleware.RequireAdmin)

		router.Post("/", handler.create)
	})

	router.Route("/{titleID}", func(router chi.Router) {
		router.Get("/", handler.get)

		router.Group(func(router chi.Router) {
			router.Use(middleware.RequireAdmin)

			router.Patch("/", handler.update)
			router.Delete("/", handler.delete)
		})

		router.Mount("/reviews", reviews)
	})

	return router
}

type createRequest struct {
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Description *string  `json:"description"`
	Genres      []string `json:"genre"`
	Category    *string  `json:"category"`
}

type updateRequest struct {
	Name        *string  `json:"name"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Genres      []string `json:"genre"`
	Category    *string  `json:"category"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	filter, err := FilterFromQuery(request.URL.Query())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	titles, total, err := handler.service.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "titleID")

	entity, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entity, err := handler.service.Create(request.Context(), CreateInput{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Genres:      input.Genres,
		Category:    input.Category,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "titleID")

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	entity, err := handler.service.Update(request.Context(), id, UpdateInput{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Genres:      input.Genres,
		Category:    input.Category,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "titleID")

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
