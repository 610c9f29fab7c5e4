package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhoicas/payloop-api/internal/application/ledger"
	"github.com/jhoicas/payloop-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción de sesión de MongoDB.
type TxRunner struct {
	client *Client
}

// NewTxRunner construye el runner sobre el cliente conectado.
func NewTxRunner(client *Client) *TxRunner {
	return &TxRunner{client: client}
}

// RunLedger abre una sesión, ejecuta fn en WithTransaction y confirma; si fn falla se aborta.
// El driver puede reintentar fn ante errores transitorios.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	blobs repository.BlobRepository,
	audit repository.AuditRepository,
) error) error {
	sess, err := r.client.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(_ mongo.SessionContext) (interface{}, error) {
		blobs := NewBlobRepository(r.client.db, sess)
		audit := NewAuditRepository(r.client.db, sess)
		return nil, fn(blobs, audit)
	})
	if err != nil {
		return fmt.Errorf("mongo transaction: %w", err)
	}
	return nil
}
