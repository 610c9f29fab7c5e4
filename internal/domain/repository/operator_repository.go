package repository

import (
	"context"

	"github.com/jhoicas/payloop-api/internal/domain/entity"
)

// OperatorRepository operadores registrados del panel.
type OperatorRepository interface {
	// FindByUsername devuelve nil, nil si no existe.
	FindByUsername(ctx context.Context, username string) (*entity.Operator, error)
	// Create retorna domain.ErrUsernameTaken si el username ya existe.
	Create(ctx context.Context, op *entity.Operator) error
}
