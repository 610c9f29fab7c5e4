package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/payloop-api/internal/domain/repository"
)

var _ repository.BlobRepository = (*BlobRepo)(nil)

// BlobRepo blobs del ledger en la tabla ledger_blobs (JSONB).
type BlobRepo struct {
	q Querier
}

// NewBlobRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBlobRepository(q Querier) *BlobRepo {
	return &BlobRepo{q: q}
}

// Get devuelve nil, nil si la clave no existe.
func (r *BlobRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.q.QueryRow(ctx, `SELECT value FROM ledger_blobs WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get blob %s: %w", key, err)
	}
	return value, nil
}

// Put inserta o reemplaza el blob completo.
func (r *BlobRepo) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO ledger_blobs (key, value, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("put blob %s: %w", key, err)
	}
	return nil
}
