package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxRunner is implemented by repositories that can run several statements atomically.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
