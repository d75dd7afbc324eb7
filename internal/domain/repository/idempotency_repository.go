package repository

import (
	"context"

	"github.com/sangkips/salon-api/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey returns nil, nil when the key is unknown or expired. Keys are
	// scoped to the caller and the salon.
	GetByKey(ctx context.Context, key, userID, tenantID string) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
}
