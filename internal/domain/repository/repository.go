package repository

import (
	"context"
	"time"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/stats"
)

// OrderBy is the field a collection query is ordered by.
type OrderBy struct {
	Field string
	Desc  bool
}

// CrudRepository is the record store contract shared by every collection.
// Reads are scoped to the tenant carried by the context. GetByID returns
// nil, nil when the document does not exist.
type CrudRepository[T any] interface {
	Create(ctx context.Context, record *T) error
	GetByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, record *T) error
	Delete(ctx context.Context, id string) error
	// List returns the full current snapshot of the collection.
	List(ctx context.Context, order OrderBy) ([]T, error)
	// Watch delivers the full snapshot again on every change.
	Watch(ctx context.Context, order OrderBy) (*Subscription[T], error)
}

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	CrudRepository[entity.Invoice]
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
}

// FeedbackRepository defines the interface for feedback data operations
type FeedbackRepository interface {
	CrudRepository[entity.Feedback]
}

// BookingRepository defines the interface for booking data operations
type BookingRepository interface {
	CrudRepository[entity.Booking]
}

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	CrudRepository[entity.Product]
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
}

// ServiceRepository defines the interface for service menu operations
type ServiceRepository interface {
	CrudRepository[entity.Service]
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	CrudRepository[entity.Category]
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
}

// BranchRepository defines the interface for branch data operations
type BranchRepository interface {
	CrudRepository[entity.Branch]
}

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	CrudRepository[entity.Client]
}

// StatsCache stores computed aggregates per key.
type StatsCache[T any] interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, key string) (*stats.CachedAggregate[T], error)
	Set(ctx context.Context, key string, value stats.CachedAggregate[T]) error
	Delete(ctx context.Context, key string) error
}

// DateRange bounds a query on a timestamp field. Zero ends are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range, ends included.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// IsZero reports whether neither end is set.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}
