package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/payloop-api/internal/domain"
	"github.com/jhoicas/payloop-api/internal/domain/entity"
	"github.com/jhoicas/payloop-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo diario de liquidaciones en settlement_audit. Los montos van como NUMERIC (pgxdecimal).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append inserta un asiento. Un id repetido o un valor que la columna no admite
// devuelven *domain.AuditRejectedError (el primero además envuelve domain.ErrDuplicate).
func (r *AuditRepo) Append(ctx context.Context, a *entity.SettlementAudit) error {
	query := `
		INSERT INTO settlement_audit (
			id, mobile, new_customer, bill_amount, amount_tendered, redeem_points, effective_tier,
			discount_percent, tier_discount, points_redeemed, final_bill, net_points, points_after,
			ledger_version, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Mobile, a.NewCustomer, a.BillAmount, a.AmountTendered, a.RedeemPoints, string(a.EffectiveTier),
		a.DiscountPercent, a.TierDiscount, a.PointsRedeemed, a.FinalBill, a.NetPoints, a.PointsAfter,
		int64(a.LedgerVersion), a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewAuditRejectedError(a.ID, domain.ErrDuplicate)
		}
		if isDataException(err) {
			return domain.NewAuditRejectedError(a.ID, err)
		}
		return fmt.Errorf("insert settlement_audit: %w", err)
	}
	return nil
}

// ListByMobile asientos del cliente, más reciente primero.
func (r *AuditRepo) ListByMobile(ctx context.Context, mobile string, limit int) ([]*entity.SettlementAudit, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, mobile, new_customer, bill_amount, amount_tendered, redeem_points, effective_tier,
		       discount_percent, tier_discount, points_redeemed, final_bill, net_points, points_after,
		       ledger_version, created_at
		FROM settlement_audit
		WHERE mobile = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, mobile, limit)
	if err != nil {
		return nil, fmt.Errorf("list settlement_audit: %w", err)
	}
	defer rows.Close()

	var list []*entity.SettlementAudit
	for rows.Next() {
		var a entity.SettlementAudit
		var tier string
		var version int64
		if err := rows.Scan(
			&a.ID, &a.Mobile, &a.NewCustomer, &a.BillAmount, &a.AmountTendered, &a.RedeemPoints, &tier,
			&a.DiscountPercent, &a.TierDiscount, &a.PointsRedeemed, &a.FinalBill, &a.NetPoints, &a.PointsAfter,
			&version, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan settlement_audit: %w", err)
		}
		a.EffectiveTier = entity.Tier(tier)
		a.LedgerVersion = uint64(version)
		list = append(list, &a)
	}
	return list, rows.Err()
}
