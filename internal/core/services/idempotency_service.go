package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openbooks-app/openbooks/internal/apperrors"
	"github.com/openbooks-app/openbooks/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks/internal/core/ports/repositories"
	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
)

// idempotencyService mediates at-most-once execution for mutating operations
// that carry a client token. The cache row is persisted in the same database
// transaction as the operation's own write, so a crash between the two can
// never leave a recorded key without its effect (or vice versa).
type idempotencyService struct {
	BaseService
	idempotencyRepo portsrepo.IdempotencyRepositoryFacade
}

// NewIdempotencyService creates the idempotency mediator.
func NewIdempotencyService(idempotencyRepo portsrepo.IdempotencyRepositoryFacade) portssvc.IdempotencySvc {
	return &idempotencyService{idempotencyRepo: idempotencyRepo}
}

var _ portssvc.IdempotencySvc = (*idempotencyService)(nil)

// ScopeKey binds the client token to the operation and the acting user. The
// same token replayed against a different operation or by a different actor
// resolves to a different key and therefore a fresh execution.
func (s *idempotencyService) ScopeKey(operation string, clientToken string, actorID string) string {
	return operation + ":" + clientToken + ":" + actorID
}

// HashPayload hashes the canonical JSON encoding of the payload.
func (s *idempotencyService) HashPayload(payload any) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload for hashing: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// Resolve looks up the scope key for the organization.
//
// First sight returns (nil, nil): the caller should execute and Record. A hit
// with a matching request hash returns the cached record for verbatim replay.
// A hit with a different hash is a key reuse and fails with a conflict.
func (s *idempotencyService) Resolve(ctx context.Context, organizationID string, scopeKey string, requestHash string) (*domain.IdempotencyKey, error) {
	record, err := s.idempotencyRepo.FindByScopeKey(ctx, organizationID, scopeKey)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to look up idempotency key",
			slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to resolve idempotency key: %w", err)
	}

	if record.RequestHash != requestHash {
		return nil, apperrors.NewConflictError("idempotency key was already used with a different request payload")
	}

	s.LogInfo(ctx, "Idempotent replay detected",
		slog.String("organization_id", organizationID),
		slog.Int("cached_status", record.StatusCode))
	return record, nil
}

// Record builds the cache row for the caller to persist alongside its own
// write. The response is stored verbatim so replays return byte-identical
// bodies.
func (s *idempotencyService) Record(organizationID string, scopeKey string, requestHash string, response any, statusCode int, actorID string) (*domain.IdempotencyKey, error) {
	body, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response for idempotency record: %w", err)
	}
	return &domain.IdempotencyKey{
		OrganizationID: organizationID,
		ScopeKey:       scopeKey,
		RequestHash:    requestHash,
		Response:       body,
		StatusCode:     statusCode,
		CreatedAt:      time.Now().UTC(),
		CreatedBy:      actorID,
	}, nil
}
