package services

import (
	"context"

	"github.com/openbooks-app/openbooks/internal/core/domain"
)

// IdempotencySvc mediates at-most-once execution of mutating operations.
//
// The scope key binds a client-supplied token to a fixed operation name and
// the acting user, so the same token cannot be replayed across different
// operations or actors.
type IdempotencySvc interface {
	// ScopeKey derives the composite scope key.
	ScopeKey(operation string, clientToken string, actorID string) string

	// HashPayload computes the stable hash of a request payload.
	HashPayload(payload any) (string, error)

	// Resolve looks up the scope key. It returns (nil, nil) on first sight,
	// the cached record when the stored hash matches requestHash, and a
	// conflict error when the key was reused with a different payload.
	Resolve(ctx context.Context, organizationID string, scopeKey string, requestHash string) (*domain.IdempotencyKey, error)

	// Record builds the cache row persisted alongside the operation's own
	// write, in the same transaction.
	Record(organizationID string, scopeKey string, requestHash string, response any, statusCode int, actorID string) (*domain.IdempotencyKey, error)
}
