// Package memory implementa el almacenamiento del ledger en memoria del proceso
// (STORAGE_DRIVER=memory y tests). Las escrituras de una transacción se aplican solo al confirmar.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/payloop-api/internal/domain/entity"
	"github.com/jhoicas/payloop-api/internal/domain/repository"
)

// Store blobs y diario de auditoría protegidos por un mutex.
type Store struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	audits []*entity.SettlementAudit
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{blobs: map[string][]byte{}}
}

// RunLedger ejecuta fn sobre una vista transaccional. Si fn falla no se aplica ninguna escritura.
func (s *Store) RunLedger(ctx context.Context, fn func(
	blobs repository.BlobRepository,
	audit repository.AuditRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txView{store: s, staged: map[string][]byte{}}
	if err := fn(tx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for k, v := range tx.staged {
		s.blobs[k] = v
	}
	s.audits = append(s.audits, tx.audits...)
	return nil
}

// Blob devuelve una copia del blob guardado (nil si no existe).
func (s *Store) Blob(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.blobs[key])
}

// Audits asientos confirmados en orden de inserción.
func (s *Store) Audits() []*entity.SettlementAudit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.SettlementAudit, len(s.audits))
	copy(out, s.audits)
	return out
}

// txView implementa los puertos dentro de una transacción; lee sus propias escrituras.
type txView struct {
	store  *Store
	staged map[string][]byte
	audits []*entity.SettlementAudit
}

func (t *txView) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := t.staged[key]; ok {
		return clone(v), nil
	}
	return clone(t.store.blobs[key]), nil
}

func (t *txView) Put(_ context.Context, key string, value []byte) error {
	t.staged[key] = clone(value)
	return nil
}

func (t *txView) Append(_ context.Context, rec *entity.SettlementAudit) error {
	cp := *rec
	t.audits = append(t.audits, &cp)
	return nil
}

func (t *txView) ListByMobile(_ context.Context, mobile string, limit int) ([]*entity.SettlementAudit, error) {
	all := append(append([]*entity.SettlementAudit{}, t.store.audits...), t.audits...)
	out := make([]*entity.SettlementAudit, 0)
	for _, a := range all {
		if a.Mobile == mobile {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
