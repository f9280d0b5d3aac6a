package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openbooks-app/openbooks/internal/apperrors"
)

// baseRepository carries the shared connection pool and the transaction
// helper every pgsql repository builds on.
type baseRepository struct {
	Pool *pgxpool.Pool
}

// inTx runs fn inside a single database transaction. The transaction commits
// when fn returns nil and rolls back otherwise; fn's error passes through
// unchanged so unique-violation mapping done inside it survives.
func (r *baseRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer func() {
		// Rollback after a successful commit is a no-op.
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}
