package repository

import (
	"context"

	"github.com/jhoicas/payloop-api/internal/domain/entity"
)

// AuditRepository diario de auditoría de liquidaciones (solo se agregan asientos).
type AuditRepository interface {
	Append(ctx context.Context, rec *entity.SettlementAudit) error
	ListByMobile(ctx context.Context, mobile string, limit int) ([]*entity.SettlementAudit, error)
}
