package title

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/taibuivan/kritika/internal/catalog/category"
	"github.com/taibuivan/kritika/internal/catalog/genre"
	"github.com/taibuivan/kritika/internal/platform/apperr"
	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/pagination"
	"github.com/taibuivan/kritika/pkg/pointer"
	"github.com/taibuivan/kritika/pkg/slice"
	"github.com/taibuivan/kritika/pkg/uuidv7"
)

type Service struct {
	repo       Repository
	genres     GenreFinder
	categories CategoryFinder
}

func NewService(repo Repository, genres GenreFinder, categories CategoryFinder) *Service {
	return &Service{repo: repo, genres: genres, categories: categories}
}

type CreateInput struct {
	Name        string
	Year        int
	Description *string
	Genres      []string // genre slugs, at least one
	Category    *string  // category slug
}

type UpdateInput struct {
	Name        *string
	Year        *int
	Description *string
	Genres      []string // nil keeps the current set; empty is rejected
	Category    *string
}

func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {
	return service.repo.List(context, filter, params)
}

func (service *Service) Get(context context.Context, id string) (*Title, error) {
	return service.repo.FindByID(context, id)
}

// Create validates and persists a new title. Genre and category slugs must
// resolve; a miss is reported as a validation error naming the slug, not as
// a bare 404, since the title itself is the resource being created.
func (service *Service) Create(context context.Context, input CreateInput) (*Title, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxLenName).
		Custom(FieldYear, input.Year > time.Now().Year(), "Year cannot be in the future").
		Custom(FieldGenres, len(input.Genres) == 0, "At least one genre is required")

	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, MaxLenDescription)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	genres, genreIDs, err := service.resolveGenres(context, input.Genres)
	if err != nil {
		return nil, err
	}

	resolvedCategory, categoryID, err := service.resolveCategory(context, input.Category)
	if err != nil {
		return nil, err
	}

	entity := &Title{
		ID:          uuidv7.New(),
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    resolvedCategory,
		Genres:      genres,
	}

	if err := service.repo.Create(context, entity, categoryID, genreIDs); err != nil {
		return nil, err
	}

	return entity, nil
}

// Update applies a partial update. Omitted fields keep their values; sending
// genres replaces the whole link set transactionally.
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Title, error) {
	entity, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	entity.Name = pointer.Fallback(input.Name, entity.Name)
	entity.Year = pointer.Fallback(input.Year, entity.Year)
	if input.Description != nil {
		entity.Description = input.Description
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, entity.Name).
		MaxLen(FieldName, entity.Name, MaxLenName).
		Custom(FieldYear, entity.Year > time.Now().Year(), "Year cannot be in the future").
		Custom(FieldGenres, input.Genres != nil && len(input.Genres) == 0, "At least one genre is required")

	if entity.Description != nil {
		validator.MaxLen(FieldDescription, *entity.Description, MaxLenDescription)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	var genreIDs []string
	if input.Genres != nil {
		genres, ids, err := service.resolveGenres(context, input.Genres)
		if err != nil {
			return nil, err
		}
		entity.Genres = genres
		genreIDs = ids
	}

	categoryID := currentCategoryID(entity)
	if input.Category != nil {
		resolvedCategory, id, err := service.resolveCategory(context, input.Category)
		if err != nil {
			return nil, err
		}
		entity.Category = resolvedCategory
		categoryID = id
	}

	if err := service.repo.Update(context, entity, categoryID, genreIDs); err != nil {
		return nil, err
	}

	return entity, nil
}

func (service *Service) Delete(context context.Context, id string) error {
	return service.repo.Delete(context, id)
}

// resolveGenres maps genre slugs to entities, failing on the first miss.
func (service *Service) resolveGenres(context context.Context, slugs []string) ([]genre.Genre, []string, error) {
	genres := make([]genre.Genre, 0, len(slugs))

	for _, slug := range slugs {
		resolved, err := service.genres.GetBySlug(context, slug)
		if err != nil {
			if appError := apperr.As(err); appError != nil && appError.HTTPStatus == http.StatusNotFound {
				return nil, nil, validate.RequiredError(FieldGenres, fmt.Sprintf("Unknown genre %q", slug))
			}
			return nil, nil, err
		}
		genres = append(genres, *resolved)
	}

	ids := slice.Map(genres, func(entity genre.Genre) string { return entity.ID })

	return genres, ids, nil
}

// resolveCategory maps an optional category slug to an entity.
func (service *Service) resolveCategory(context context.Context, slug *string) (*category.Category, *string, error) {
	if slug == nil || *slug == "" {
		return nil, nil, nil
	}

	resolved, err := service.categories.GetBySlug(context, *slug)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.HTTPStatus == http.StatusNotFound {
			return nil, nil, validate.RequiredError(FieldCategory, fmt.Sprintf("Unknown category %q", *slug))
		}
		return nil, nil, err
	}

	return resolved, &resolved.ID, nil
}

func currentCategoryID(entity *Title) *string {
	if entity.Category == nil {
		return nil
	}
	return &entity.Category.ID
}
