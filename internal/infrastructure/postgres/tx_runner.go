package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/payloop-api/internal/application/ledger"
	"github.com/jhoicas/payloop-api/internal/domain"
	"github.com/jhoicas/payloop-api/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunLedger inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	blobs repository.BlobRepository,
	audit repository.AuditRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewBlobRepository(tx), NewAuditRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("commit transaction: %w: %v", domain.ErrConflict, err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
