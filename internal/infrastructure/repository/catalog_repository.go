package repository

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
)

const (
	productsCollection   = "products"
	servicesCollection   = "services"
	categoriesCollection = "categories"
)

type productRepository struct {
	*collection[entity.Product, *entity.Product]
}

// NewProductRepository creates a new product repository
func NewProductRepository(client *firestore.Client) domainRepo.ProductRepository {
	return &productRepository{
		collection: newCollection[entity.Product](client, productsCollection, mapper[entity.Product]{
			encode: encodeProduct,
			decode: decodeProduct,
		}),
	}
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.findOne(ctx, "sku", strings.TrimSpace(sku))
}

func encodeProduct(p *entity.Product) map[string]interface{} {
	return map[string]interface{}{
		"categoryId":        p.CategoryID,
		"name":              p.Name,
		"sku":               p.SKU,
		"description":       p.Description,
		"price":             money(p.Price),
		"cost":              money(p.Cost),
		"stock":             p.Stock,
		"lowStockThreshold": p.LowStockThreshold,
		"unitsSold":         p.UnitsSold,
		"status":            p.Status.String(),
	}
}

func decodeProduct(data map[string]interface{}) entity.Product {
	return entity.Product{
		CategoryID:        stringField(data, "categoryId"),
		Name:              stringField(data, "name"),
		SKU:               stringField(data, "sku"),
		Description:       stringField(data, "description"),
		Price:             decimalField(data, "price"),
		Cost:              decimalField(data, "cost"),
		Stock:             intField(data, "stock"),
		LowStockThreshold: intField(data, "lowStockThreshold"),
		UnitsSold:         intField(data, "unitsSold"),
		Status:            recordStatus(data),
	}
}

type serviceRepository struct {
	*collection[entity.Service, *entity.Service]
}

// NewServiceRepository creates a new service menu repository
func NewServiceRepository(client *firestore.Client) domainRepo.ServiceRepository {
	return &serviceRepository{
		collection: newCollection[entity.Service](client, servicesCollection, mapper[entity.Service]{
			encode: encodeService,
			decode: decodeService,
		}),
	}
}

func encodeService(s *entity.Service) map[string]interface{} {
	return map[string]interface{}{
		"categoryId":  s.CategoryID,
		"name":        s.Name,
		"description": s.Description,
		"price":       money(s.Price),
		"duration":    s.Duration,
		"status":      s.Status.String(),
	}
}

func decodeService(data map[string]interface{}) entity.Service {
	return entity.Service{
		CategoryID:  stringField(data, "categoryId"),
		Name:        stringField(data, "name"),
		Description: stringField(data, "description"),
		Price:       decimalField(data, "price"),
		Duration:    intField(data, "duration"),
		Status:      recordStatus(data),
	}
}

type categoryRepository struct {
	*collection[entity.Category, *entity.Category]
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(client *firestore.Client) domainRepo.CategoryRepository {
	return &categoryRepository{
		collection: newCollection[entity.Category](client, categoriesCollection, mapper[entity.Category]{
			encode: encodeCategory,
			decode: decodeCategory,
		}),
	}
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	return r.findOne(ctx, "slug", strings.TrimSpace(slug))
}

func encodeCategory(c *entity.Category) map[string]interface{} {
	return map[string]interface{}{
		"name":        c.Name,
		"slug":        c.Slug,
		"type":        c.Type.String(),
		"description": c.Description,
	}
}

func decodeCategory(data map[string]interface{}) entity.Category {
	return entity.Category{
		Name:        stringField(data, "name"),
		Slug:        stringField(data, "slug"),
		Type:        enum.CategoryType(strings.ToLower(stringField(data, "type"))),
		Description: stringField(data, "description"),
	}
}

// recordStatus reads the status field, falling back to the legacy
// "isActive" flag some documents carry instead.
func recordStatus(data map[string]interface{}) enum.RecordStatus {
	if s := stringField(data, "status"); s != "" {
		return enum.RecordStatus(strings.ToLower(s))
	}
	if active, ok := data["isActive"].(bool); ok {
		if active {
			return enum.RecordStatusActive
		}
		return enum.RecordStatusInactive
	}
	return ""
}
