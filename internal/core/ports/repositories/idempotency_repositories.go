package repositories

import (
	"context"

	"github.com/openbooks-app/openbooks/internal/core/domain"
)

// IdempotencyReader defines read operations for idempotency records
type IdempotencyReader interface {
	// FindByScopeKey retrieves the cached record for (organization, scope key),
	// or ErrNotFound when the key has never been seen.
	FindByScopeKey(ctx context.Context, organizationID string, scopeKey string) (*domain.IdempotencyKey, error)
}

// IdempotencyWriter defines write operations for idempotency records
type IdempotencyWriter interface {
	// SaveIdempotencyKey inserts a record. The store's uniqueness constraint
	// on (organization, scope key) is the serialization point for concurrent
	// requests carrying the same key; the loser receives ErrDuplicate.
	SaveIdempotencyKey(ctx context.Context, key domain.IdempotencyKey) error
}

// IdempotencyRepositoryFacade combines the idempotency repository interfaces.
type IdempotencyRepositoryFacade interface {
	IdempotencyReader
	IdempotencyWriter
}
