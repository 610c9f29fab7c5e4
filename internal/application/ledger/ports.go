package ledger

import (
	"context"

	"github.com/jhoicas/payloop-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de almacenamiento con los repos atados a ella.
// Si fn retorna error el runner hace rollback y nada queda escrito.
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(
		blobs repository.BlobRepository,
		audit repository.AuditRepository,
	) error) error
}
