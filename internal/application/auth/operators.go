package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/payloop-api/internal/application/ledger"
	"github.com/jhoicas/payloop-api/internal/domain"
	"github.com/jhoicas/payloop-api/internal/domain/entity"
	"github.com/jhoicas/payloop-api/internal/domain/repository"
)

var _ repository.OperatorRepository = (*OperatorDirectory)(nil)

// OperatorDirectory guarda los operadores como un blob JSON más (loyaltyOperators)
// en el mismo almacenamiento que el ledger, así funciona con cualquier driver.
type OperatorDirectory struct {
	tx ledger.TxRunner
}

// NewOperatorDirectory construye el directorio sobre el runner de almacenamiento.
func NewOperatorDirectory(tx ledger.TxRunner) *OperatorDirectory {
	return &OperatorDirectory{tx: tx}
}

// FindByUsername busca sin distinguir mayúsculas.
func (d *OperatorDirectory) FindByUsername(ctx context.Context, username string) (*entity.Operator, error) {
	var found *entity.Operator
	err := d.tx.RunLedger(ctx, func(blobs repository.BlobRepository, _ repository.AuditRepository) error {
		list, err := loadOperators(ctx, blobs)
		if err != nil {
			return err
		}
		for _, op := range list {
			if strings.EqualFold(op.Username, username) {
				found = op
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// Create agrega el operador en la misma transacción en que verifica que el username esté libre.
func (d *OperatorDirectory) Create(ctx context.Context, op *entity.Operator) error {
	return d.tx.RunLedger(ctx, func(blobs repository.BlobRepository, _ repository.AuditRepository) error {
		list, err := loadOperators(ctx, blobs)
		if err != nil {
			return err
		}
		for _, existing := range list {
			if strings.EqualFold(existing.Username, op.Username) {
				return domain.ErrUsernameTaken
			}
		}
		raw, err := json.Marshal(append(list, op))
		if err != nil {
			return fmt.Errorf("encode loyaltyOperators: %w", err)
		}
		return blobs.Put(ctx, repository.KeyOperators, raw)
	})
}

func loadOperators(ctx context.Context, blobs repository.BlobRepository) ([]*entity.Operator, error) {
	raw, err := blobs.Get(ctx, repository.KeyOperators)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var list []*entity.Operator
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode loyaltyOperators: %w", err)
	}
	return list, nil
}
