package pgsql

import (
	"context"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository holds the pool shared by the pgx repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// WithTx runs fn inside a transaction and commits when fn returns nil.
// Any error from fn rolls the transaction back and is returned unchanged.
func (r *BaseRepository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	// no-op after a successful commit
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}
