package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/repository"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/pkg/apperror"
)

type record[T any] interface {
	*T
	Meta() *entity.Base
}

// memRepo is an in-memory record store scoped by tenant like the Firestore
// one. Watchers get the full snapshot on every write.
type memRepo[T any, PT record[T]] struct {
	mu       sync.Mutex
	items    map[string]T
	order    []string
	seq      int
	watchers []chan struct{}
	listErr  error
}

func newMemRepo[T any, PT record[T]]() *memRepo[T, PT] {
	return &memRepo[T, PT]{items: make(map[string]T)}
}

func (r *memRepo[T, PT]) Create(ctx context.Context, rec *T) error {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return apperror.ErrTenantRequired
	}
	r.mu.Lock()
	meta := PT(rec).Meta()
	if meta.ID == "" {
		r.seq++
		meta.ID = fmt.Sprintf("id-%d", r.seq)
	}
	meta.TenantID = tenantID
	meta.CreatedAt = time.Date(2026, 1, 1, 0, 0, r.seq, 0, time.UTC)
	meta.UpdatedAt = meta.CreatedAt
	r.items[meta.ID] = *rec
	r.order = append(r.order, meta.ID)
	r.mu.Unlock()
	r.notify()
	return nil
}

func (r *memRepo[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.items[id]
	if !ok || !r.visible(ctx, &rec) {
		return nil, nil
	}
	return &rec, nil
}

func (r *memRepo[T, PT]) Update(ctx context.Context, rec *T) error {
	r.mu.Lock()
	meta := PT(rec).Meta()
	stored, ok := r.items[meta.ID]
	if !ok || !r.visible(ctx, &stored) {
		r.mu.Unlock()
		return apperror.NewNotFoundError("record")
	}
	meta.TenantID = PT(&stored).Meta().TenantID
	r.items[meta.ID] = *rec
	r.mu.Unlock()
	r.notify()
	return nil
}

func (r *memRepo[T, PT]) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	stored, ok := r.items[id]
	if !ok || !r.visible(ctx, &stored) {
		r.mu.Unlock()
		return apperror.NewNotFoundError("record")
	}
	delete(r.items, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.mu.Unlock()
	r.notify()
	return nil
}

func (r *memRepo[T, PT]) List(ctx context.Context, order repository.OrderBy) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.snapshot(ctx, order), nil
}

func (r *memRepo[T, PT]) snapshot(ctx context.Context, order repository.OrderBy) []T {
	out := []T{}
	for _, id := range r.order {
		rec := r.items[id]
		if r.visible(ctx, &rec) {
			out = append(out, rec)
		}
	}
	if order.Field == "createdAt" && order.Desc {
		sort.SliceStable(out, func(i, j int) bool {
			return PT(&out[i]).Meta().CreatedAt.After(PT(&out[j]).Meta().CreatedAt)
		})
	}
	return out
}

func (r *memRepo[T, PT]) visible(ctx context.Context, rec *T) bool {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	return ok && PT(rec).Meta().TenantID == tenantID
}

func (r *memRepo[T, PT]) Watch(ctx context.Context, order repository.OrderBy) (*repository.Subscription[T], error) {
	changed := make(chan struct{}, 1)
	r.mu.Lock()
	r.watchers = append(r.watchers, changed)
	r.mu.Unlock()

	return repository.NewSubscription(ctx, func(ctx context.Context, emit func([]T) bool) error {
		for {
			r.mu.Lock()
			snap := r.snapshot(ctx, order)
			r.mu.Unlock()
			if !emit(snap) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			case <-changed:
			}
		}
	}), nil
}

func (r *memRepo[T, PT]) notify() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.watchers {
		select {
		case w <- struct{}{}:
		default:
		}
	}
}

func (r *memRepo[T, PT]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type invoiceStore struct {
	*memRepo[entity.Invoice, *entity.Invoice]
}

func (s invoiceStore) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	invoices, _ := s.List(ctx, repository.OrderBy{})
	for i := range invoices {
		if invoices[i].InvoiceNumber == number {
			return &invoices[i], nil
		}
	}
	return nil, nil
}

type productStore struct {
	*memRepo[entity.Product, *entity.Product]
}

func (s productStore) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	products, _ := s.List(ctx, repository.OrderBy{})
	for i := range products {
		if products[i].SKU == sku {
			return &products[i], nil
		}
	}
	return nil, nil
}

type categoryStore struct {
	*memRepo[entity.Category, *entity.Category]
}

func (s categoryStore) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	categories, _ := s.List(ctx, repository.OrderBy{})
	for i := range categories {
		if categories[i].Slug == slug {
			return &categories[i], nil
		}
	}
	return nil, nil
}

type stores struct {
	invoices   invoiceStore
	feedbacks  *memRepo[entity.Feedback, *entity.Feedback]
	bookings   *memRepo[entity.Booking, *entity.Booking]
	products   productStore
	services   *memRepo[entity.Service, *entity.Service]
	categories categoryStore
	clients    *memRepo[entity.Client, *entity.Client]
	branches   *memRepo[entity.Branch, *entity.Branch]
}

func newStores() *stores {
	return &stores{
		invoices:   invoiceStore{newMemRepo[entity.Invoice]()},
		feedbacks:  newMemRepo[entity.Feedback](),
		bookings:   newMemRepo[entity.Booking](),
		products:   productStore{newMemRepo[entity.Product]()},
		services:   newMemRepo[entity.Service](),
		categories: categoryStore{newMemRepo[entity.Category]()},
		clients:    newMemRepo[entity.Client](),
		branches:   newMemRepo[entity.Branch](),
	}
}

func (s *stores) dashboardRepos() DashboardRepositories {
	return DashboardRepositories{
		Invoices:  s.invoices,
		Feedbacks: s.feedbacks,
		Bookings:  s.bookings,
		Products:  s.products,
		Services:  s.services,
		Clients:   s.clients,
		Branches:  s.branches,
	}
}

func tenantCtx() context.Context {
	return infraRepo.WithTenant(context.Background(), "salon-1")
}
