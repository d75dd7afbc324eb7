package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sangkips/salon-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/pkg/apperror"
)

// document is a pointer to an entity embedding entity.Base.
type document[T any] interface {
	*T
	Meta() *entity.Base
}

// mapper converts between an entity and its Firestore fields. The base
// fields (tenantId, createdAt, updatedAt) are handled by the collection.
type mapper[T any] struct {
	encode func(*T) map[string]interface{}
	decode func(data map[string]interface{}) T
}

// collection implements the record store operations for one Firestore
// collection. Every read and write is scoped to the tenant in the context.
type collection[T any, PT document[T]] struct {
	client *firestore.Client
	name   string
	mapper mapper[T]
	now    func() time.Time
}

func newCollection[T any, PT document[T]](client *firestore.Client, name string, m mapper[T]) *collection[T, PT] {
	return &collection[T, PT]{
		client: client,
		name:   name,
		mapper: m,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (c *collection[T, PT]) col() *firestore.CollectionRef {
	return c.client.Collection(c.name)
}

func (c *collection[T, PT]) Create(ctx context.Context, record *T) error {
	meta := PT(record).Meta()

	tenantID, ok := GetTenantID(ctx)
	if !ok {
		if meta.TenantID == "" || !skipScope(ctx) {
			return apperror.ErrTenantRequired
		}
		tenantID = meta.TenantID
	}
	meta.TenantID = tenantID

	var ref *firestore.DocumentRef
	if strings.TrimSpace(meta.ID) == "" {
		ref = c.col().NewDoc()
		meta.ID = ref.ID
	} else {
		ref = c.col().Doc(meta.ID)
	}

	now := c.now()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if _, err := ref.Create(ctx, c.toData(record)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return apperror.NewConflictError(fmt.Sprintf("%s %s already exists", c.name, meta.ID))
		}
		return fmt.Errorf("%s: create %s: %w", c.name, meta.ID, err)
	}
	return nil
}

func (c *collection[T, PT]) GetByID(ctx context.Context, id string) (*T, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}

	snap, err := c.col().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: get %s: %w", c.name, id, err)
	}

	record := c.fromSnapshot(snap)
	if !tenantAllows(ctx, PT(&record).Meta().TenantID) {
		return nil, nil
	}
	return &record, nil
}

// Update replaces the stored document. The owner and creation time of the
// stored copy are kept.
func (c *collection[T, PT]) Update(ctx context.Context, record *T) error {
	meta := PT(record).Meta()

	existing, err := c.GetByID(ctx, meta.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NewNotFoundError(c.name)
	}

	stored := PT(existing).Meta()
	meta.TenantID = stored.TenantID
	meta.CreatedAt = stored.CreatedAt
	meta.UpdatedAt = c.now()

	if _, err := c.col().Doc(meta.ID).Set(ctx, c.toData(record)); err != nil {
		return fmt.Errorf("%s: update %s: %w", c.name, meta.ID, err)
	}
	return nil
}

func (c *collection[T, PT]) Delete(ctx context.Context, id string) error {
	existing, err := c.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NewNotFoundError(c.name)
	}

	if _, err := c.col().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("%s: delete %s: %w", c.name, id, err)
	}
	return nil
}

func (c *collection[T, PT]) List(ctx context.Context, order domainRepo.OrderBy) ([]T, error) {
	q, ok := TenantScope(ctx, c.col().Query)
	if !ok {
		return []T{}, nil
	}

	it := ordered(q, order).Documents(ctx)
	defer it.Stop()

	records := []T{}
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: list: %w", c.name, err)
		}
		records = append(records, c.fromSnapshot(doc))
	}
	return records, nil
}

// findOne returns the first document whose field equals value.
func (c *collection[T, PT]) findOne(ctx context.Context, field string, value interface{}) (*T, error) {
	q, ok := TenantScope(ctx, c.col().Query)
	if !ok {
		return nil, nil
	}

	it := q.Where(field, "==", value).Limit(1).Documents(ctx)
	defer it.Stop()

	doc, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: find by %s: %w", c.name, field, err)
	}

	record := c.fromSnapshot(doc)
	return &record, nil
}

// Watch listens to the query and emits the full result set on every change.
// Without a tenant it emits one empty snapshot and waits for cancellation.
func (c *collection[T, PT]) Watch(ctx context.Context, order domainRepo.OrderBy) (*domainRepo.Subscription[T], error) {
	q, ok := TenantScope(ctx, c.col().Query)
	if !ok {
		return domainRepo.NewSubscription(ctx, func(ctx context.Context, emit func([]T) bool) error {
			emit([]T{})
			<-ctx.Done()
			return nil
		}), nil
	}
	q = ordered(q, order)

	return domainRepo.NewSubscription(ctx, func(ctx context.Context, emit func([]T) bool) error {
		it := q.Snapshots(ctx)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() != nil || status.Code(err) == codes.Canceled {
					return nil
				}
				return fmt.Errorf("%s: watch: %w", c.name, err)
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				return fmt.Errorf("%s: watch: read snapshot: %w", c.name, err)
			}

			records := make([]T, 0, len(docs))
			for _, doc := range docs {
				records = append(records, c.fromSnapshot(doc))
			}
			if !emit(records) {
				return nil
			}
		}
	}), nil
}

func (c *collection[T, PT]) toData(record *T) map[string]interface{} {
	data := c.mapper.encode(record)
	meta := PT(record).Meta()
	data[tenantField] = meta.TenantID
	data["createdAt"] = meta.CreatedAt
	data["updatedAt"] = meta.UpdatedAt
	return data
}

func (c *collection[T, PT]) fromSnapshot(doc *firestore.DocumentSnapshot) T {
	return decodeDocument[T, PT](doc.Ref.ID, doc.Data(), c.mapper)
}

// decodeDocument builds a record from raw document fields.
func decodeDocument[T any, PT document[T]](id string, data map[string]interface{}, m mapper[T]) T {
	if data == nil {
		data = map[string]interface{}{}
	}
	record := m.decode(data)
	meta := PT(&record).Meta()
	meta.ID = id
	meta.TenantID = stringField(data, tenantField)
	meta.CreatedAt = timeField(data, "createdAt")
	meta.UpdatedAt = timeField(data, "updatedAt")
	return record
}

func ordered(q firestore.Query, order domainRepo.OrderBy) firestore.Query {
	if order.Field == "" {
		return q
	}
	dir := firestore.Asc
	if order.Desc {
		dir = firestore.Desc
	}
	return q.OrderBy(order.Field, dir)
}
