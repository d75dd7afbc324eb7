package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/domain/stats"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/pagination"
	"github.com/sangkips/salon-api/pkg/utils"
)

// CategoryService handles category-related operations
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	serviceRepo  repository.ServiceRepository
}

// NewCategoryService creates a new category service
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	serviceRepo repository.ServiceRepository,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		serviceRepo:  serviceRepo,
	}
}

// CategoryInput represents the create/update category input
type CategoryInput struct {
	Name        string
	Type        enum.CategoryType
	Description string
}

func (in *CategoryInput) validate() error {
	v := &apperror.Validator{}
	v.Check(strings.TrimSpace(in.Name) != "", "name", "is required")
	v.Check(in.Type.IsValid(), "type", "must be product or service")
	return v.Err()
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, input *CategoryInput) (*entity.Category, error) {
	if _, ok := infraRepo.GetTenantID(ctx); !ok {
		return nil, apperror.ErrTenantRequired
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	slug := utils.Slugify(input.Name)
	if err := s.checkSlug(ctx, slug, ""); err != nil {
		return nil, err
	}

	category := &entity.Category{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		Type:        input.Type,
		Description: input.Description,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) checkSlug(ctx context.Context, slug, selfID string) error {
	existing, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return apperror.NewConflictError("Category with this name already exists")
	}
	return nil
}

// GetCategory retrieves a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	return category, nil
}

// ListCategories lists categories by name
func (s *CategoryService) ListCategories(ctx context.Context, params *repository.CategoryFilterParams) (*pagination.PaginatedResult[entity.Category], error) {
	categories, err := s.categoryRepo.List(ctx, repository.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}

	var page *pagination.PaginationParams
	if params != nil {
		page = params.Pagination
		categories = stats.Filter(categories,
			stats.Search(params.Search, func(c entity.Category) []string { return []string{c.Name, c.Description} }),
			stats.Equals(params.Type.String(), func(c entity.Category) string { return c.Type.String() }),
		)
	}
	return pagination.Paginate(categories, page), nil
}

// UpdateCategory updates a category. Renaming it changes the slug.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, input *CategoryInput) (*entity.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	slug := utils.Slugify(input.Name)
	if slug != category.Slug {
		if err := s.checkSlug(ctx, slug, category.ID); err != nil {
			return nil, err
		}
	}

	category.Name = strings.TrimSpace(input.Name)
	category.Slug = slug
	category.Type = input.Type
	category.Description = input.Description

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category that no product or service uses
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	products, err := s.productRepo.List(ctx, repository.OrderBy{})
	if err != nil {
		return err
	}
	services, err := s.serviceRepo.List(ctx, repository.OrderBy{})
	if err != nil {
		return err
	}
	inUse := len(stats.Filter(products, func(p entity.Product) bool { return p.CategoryID == id })) +
		len(stats.Filter(services, func(sv entity.Service) bool { return sv.CategoryID == id }))
	if inUse > 0 {
		return apperror.NewConflictError(fmt.Sprintf("Category %s is used by %d items", category.Name, inUse))
	}

	return s.categoryRepo.Delete(ctx, id)
}

// MenuService handles the bookable services offered by the salon
type MenuService struct {
	serviceRepo  repository.ServiceRepository
	categoryRepo repository.CategoryRepository
}

// NewMenuService creates a new menu service
func NewMenuService(serviceRepo repository.ServiceRepository, categoryRepo repository.CategoryRepository) *MenuService {
	return &MenuService{serviceRepo: serviceRepo, categoryRepo: categoryRepo}
}

// ServiceInput represents the create/update service input
type ServiceInput struct {
	CategoryID  string
	Name        string
	Description string
	Price       decimal.Decimal
	Duration    int
	Status      enum.RecordStatus
}

func (in *ServiceInput) validate() error {
	v := &apperror.Validator{}
	v.Check(strings.TrimSpace(in.Name) != "", "name", "is required")
	v.Check(!in.Price.IsNegative(), "price", "must not be negative")
	v.Check(in.Duration >= 0, "duration", "must not be negative")
	v.Check(in.Status == "" || in.Status.IsValid(), "status", "unknown status %q", in.Status)
	return v.Err()
}

func (in *ServiceInput) applyTo(sv *entity.Service) {
	sv.CategoryID = strings.TrimSpace(in.CategoryID)
	sv.Name = strings.TrimSpace(in.Name)
	sv.Description = in.Description
	sv.Price = in.Price
	sv.Duration = in.Duration
	if in.Status != "" {
		sv.Status = in.Status
	}
}

// CreateService adds a service to the menu
func (s *MenuService) CreateService(ctx context.Context, input *ServiceInput) (*entity.Service, error) {
	if _, ok := infraRepo.GetTenantID(ctx); !ok {
		return nil, apperror.ErrTenantRequired
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := checkCategory(ctx, s.categoryRepo, input.CategoryID, enum.CategoryTypeService); err != nil {
		return nil, err
	}

	sv := &entity.Service{Status: enum.RecordStatusActive}
	input.applyTo(sv)
	if err := s.serviceRepo.Create(ctx, sv); err != nil {
		return nil, err
	}
	return sv, nil
}

// GetService retrieves a menu service by ID
func (s *MenuService) GetService(ctx context.Context, id string) (*entity.Service, error) {
	sv, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sv == nil {
		return nil, apperror.NewNotFoundError("Service")
	}
	return sv, nil
}

// ListServices lists menu services by name
func (s *MenuService) ListServices(ctx context.Context, params *repository.ServiceFilterParams) (*pagination.PaginatedResult[entity.Service], error) {
	services, err := s.serviceRepo.List(ctx, repository.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}

	var page *pagination.PaginationParams
	if params != nil {
		page = params.Pagination
		services = stats.Filter(services,
			stats.Search(params.Search, func(sv entity.Service) []string { return []string{sv.Name, sv.Description} }),
			stats.Equals(params.CategoryID, func(sv entity.Service) string { return sv.CategoryID }),
			stats.Equals(params.Status.String(), func(sv entity.Service) string { return sv.Status.String() }),
		)
	}
	return pagination.Paginate(services, page), nil
}

// UpdateService updates a menu service
func (s *MenuService) UpdateService(ctx context.Context, id string, input *ServiceInput) (*entity.Service, error) {
	sv, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := checkCategory(ctx, s.categoryRepo, input.CategoryID, enum.CategoryTypeService); err != nil {
		return nil, err
	}
	input.applyTo(sv)

	if err := s.serviceRepo.Update(ctx, sv); err != nil {
		return nil, err
	}
	return sv, nil
}

// DeleteService removes a service from the menu
func (s *MenuService) DeleteService(ctx context.Context, id string) error {
	if _, err := s.GetService(ctx, id); err != nil {
		return err
	}
	return s.serviceRepo.Delete(ctx, id)
}
