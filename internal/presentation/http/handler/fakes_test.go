package handler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/repository"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
)

type record[T any] interface {
	*T
	Meta() *entity.Base
}

// memStore keeps records of the tenant in the request context.
type memStore[T any, PT record[T]] struct {
	mu      sync.Mutex
	items   []T
	seq     int
	listErr error
}

func (s *memStore[T, PT]) Create(ctx context.Context, rec *T) error {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return errors.New("no tenant")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	meta := PT(rec).Meta()
	meta.ID = fmt.Sprintf("id-%d", s.seq)
	meta.TenantID = tenantID
	s.items = append(s.items, *rec)
	return nil
}

func (s *memStore[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	return s.find(ctx, func(rec *T) bool { return PT(rec).Meta().ID == id })
}

func (s *memStore[T, PT]) find(ctx context.Context, match func(*T) bool) (*T, error) {
	recs, _ := s.List(ctx, repository.OrderBy{})
	for i := range recs {
		if match(&recs[i]) {
			return &recs[i], nil
		}
	}
	return nil, nil
}

func (s *memStore[T, PT]) Update(_ context.Context, rec *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if PT(&s.items[i]).Meta().ID == PT(rec).Meta().ID {
			s.items[i] = *rec
			return nil
		}
	}
	return errors.New("not found")
}

func (s *memStore[T, PT]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if PT(&s.items[i]).Meta().ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (s *memStore[T, PT]) List(ctx context.Context, _ repository.OrderBy) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	tenantID, _ := infraRepo.GetTenantID(ctx)
	out := []T{}
	for _, rec := range s.items {
		if PT(&rec).Meta().TenantID == tenantID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memStore[T, PT]) Watch(context.Context, repository.OrderBy) (*repository.Subscription[T], error) {
	return nil, errors.New("watch not supported")
}

type productStore struct {
	memStore[entity.Product, *entity.Product]
}

func (s *productStore) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return s.find(ctx, func(p *entity.Product) bool { return p.SKU == sku })
}

type categoryStore struct {
	memStore[entity.Category, *entity.Category]
}

func (s *categoryStore) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	return s.find(ctx, func(c *entity.Category) bool { return c.Slug == slug })
}

type (
	clientStore  = memStore[entity.Client, *entity.Client]
	branchStore  = memStore[entity.Branch, *entity.Branch]
	serviceStore = memStore[entity.Service, *entity.Service]
)
