package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementAudit asiento del diario de auditoría; uno por liquidación aceptada.
type SettlementAudit struct {
	ID              string
	Mobile          string
	NewCustomer     bool
	BillAmount      decimal.Decimal
	AmountTendered  decimal.Decimal
	RedeemPoints    bool
	EffectiveTier   Tier
	DiscountPercent decimal.Decimal
	TierDiscount    decimal.Decimal
	PointsRedeemed  decimal.Decimal
	FinalBill       decimal.Decimal
	NetPoints       int64
	PointsAfter     int64
	LedgerVersion   uint64
	CreatedAt       time.Time
}
