package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks-app/openbooks/internal/apperrors"
	"github.com/openbooks-app/openbooks/internal/core/domain"
	portsrepo "github.com/openbooks-app/openbooks/internal/core/ports/repositories"
	"github.com/openbooks-app/openbooks/internal/models"
	"github.com/openbooks-app/openbooks/internal/utils/mapping"
)

type PgxIdempotencyRepository struct {
	baseRepository
}

// newPgxIdempotencyRepository creates a new repository for idempotency records.
func newPgxIdempotencyRepository(pool *pgxpool.Pool) portsrepo.IdempotencyRepositoryFacade {
	return &PgxIdempotencyRepository{baseRepository: baseRepository{Pool: pool}}
}

// Ensure PgxIdempotencyRepository implements portsrepo.IdempotencyRepositoryFacade
var _ portsrepo.IdempotencyRepositoryFacade = (*PgxIdempotencyRepository)(nil)

// FindByScopeKey retrieves the cached record for (organization, scope key).
func (r *PgxIdempotencyRepository) FindByScopeKey(ctx context.Context, organizationID string, scopeKey string) (*domain.IdempotencyKey, error) {
	query := `
		SELECT organization_id, scope_key, request_hash, response, status_code, created_at, created_by
		FROM idempotency_keys
		WHERE organization_id = $1 AND scope_key = $2;
	`
	var m models.IdempotencyKey
	err := r.Pool.QueryRow(ctx, query, organizationID, scopeKey).Scan(
		&m.OrganizationID,
		&m.ScopeKey,
		&m.RequestHash,
		&m.Response,
		&m.StatusCode,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find idempotency record for scope "+scopeKey, err)
	}

	record := mapping.ToDomainIdempotencyKey(m)
	return &record, nil
}

// SaveIdempotencyKey inserts a record outside of any posting transaction.
// Used by mutations that do not write ledger rows themselves.
func (r *PgxIdempotencyRepository) SaveIdempotencyKey(ctx context.Context, key domain.IdempotencyKey) error {
	m := mapping.ToModelIdempotencyKey(key)

	query := `
		INSERT INTO idempotency_keys (organization_id, scope_key, request_hash, response, status_code, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.OrganizationID,
		m.ScopeKey,
		m.RequestHash,
		m.Response,
		m.StatusCode,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: idempotency key already recorded for scope %s", apperrors.ErrDuplicate, m.ScopeKey)
		}
		return apperrors.NewAppError(500, "failed to save idempotency record for scope "+m.ScopeKey, err)
	}
	return nil
}
