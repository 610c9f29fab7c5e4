package ports

import (
	"context"
	"time"

	"github.com/jhoicas/payloop-api/internal/domain/entity"
)

// StatementGenerator genera el estado de cuenta de un cliente (puntos, niveles e historial).
type StatementGenerator interface {
	GenerateStatementPDF(ctx context.Context, customer *entity.Customer, effectiveTier entity.Tier, generatedAt time.Time) ([]byte, error)
}
