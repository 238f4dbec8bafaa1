package category

import (
	"context"

	"github.com/taibuivan/kritika/internal/platform/validate"
	"github.com/taibuivan/kritika/pkg/pagination"
	"github.com/taibuivan/kritika/pkg/slug"
	"github.com/taibuivan/kritika/pkg/uuidv7"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name string
	Slug string
}

func (service *Service) List(context context.Context, search string, params pagination.Params) ([]*Category, int, error) {
	return service.repo.List(context, search, params)
}

func (service *Service) Get(context context.Context, slugValue string) (*Category, error) {
	return service.repo.GetBySlug(context, slugValue)
}

// Create adds a category. An omitted slug is derived from the name.
func (service *Service) Create(context context.Context, input CreateInput) (*Category, error) {
	if input.Slug == "" {
		input.Slug = slug.From(input.Name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxLenName).
		Required(FieldSlug, input.Slug).
		Slug(FieldSlug, input.Slug).
		MaxLen(FieldSlug, input.Slug, MaxLenSlug)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	category := &Category{
		ID:   uuidv7.New(),
		Name: input.Name,
		Slug: input.Slug,
	}

	if err := service.repo.Create(context, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (service *Service) Delete(context context.Context, slugValue string) error {
	return service.repo.Delete(context, slugValue)
}
