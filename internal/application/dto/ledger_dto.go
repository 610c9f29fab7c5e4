package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettleRequest venta a liquidar. Name solo es obligatorio para clientes nuevos.
type SettleRequest struct {
	Mobile         string          `json:"mobile" validate:"required,min=10"`
	Name           string          `json:"name"`
	PIN            string          `json:"pin"`
	BillAmount     decimal.Decimal `json:"bill_amount"`
	AmountTendered decimal.Decimal `json:"amount_tendered"`
	RedeemPoints   bool            `json:"redeem_points"`
}

// SettlementBreakdown desglose de la liquidación (también usado por la vista previa).
type SettlementBreakdown struct {
	NewCustomer           bool            `json:"new_customer"`
	EffectiveTier         string          `json:"effective_tier"`
	DiscountPercent       decimal.Decimal `json:"discount_percent"`
	TierDiscount          decimal.Decimal `json:"tier_discount"`
	BillAfterTierDiscount decimal.Decimal `json:"bill_after_tier_discount"`
	PointsRedeemed        decimal.Decimal `json:"points_redeemed"`
	FinalBill             decimal.Decimal `json:"final_bill"`
	PointsEarned          decimal.Decimal `json:"points_earned"`
	NetPointsChange       int64           `json:"net_points_change"`
	EntryType             string          `json:"entry_type"`
}

// SettleResponse liquidación aceptada.
type SettleResponse struct {
	Breakdown    SettlementBreakdown `json:"breakdown"`
	Customer     CustomerResponse    `json:"customer"`
	Notification NotificationDTO     `json:"notification"`
	Version      uint64              `json:"version"`
	Persisted    bool                `json:"persisted"`
	PersistError string              `json:"persist_error,omitempty"`
}

// VerifyPINRequest PIN del cliente existente.
type VerifyPINRequest struct {
	PIN string `json:"pin"`
}

// VerifyPINResponse indica si el móvil ya es cliente (y, si lo es, el PIN fue correcto).
type VerifyPINResponse struct {
	Exists   bool              `json:"exists"`
	Customer *CustomerResponse `json:"customer,omitempty"`
}

// HistoryEntryDTO movimiento del historial.
type HistoryEntryDTO struct {
	ID              string          `json:"id,omitempty"`
	Date            time.Time       `json:"date"`
	Bill            decimal.Decimal `json:"bill"`
	OriginalBill    decimal.Decimal `json:"original_bill"`
	Points          int64           `json:"points"`
	Type            string          `json:"type"`
	DiscountApplied decimal.Decimal `json:"discount_applied"`
	Mobile          string          `json:"mobile,omitempty"`
	Name            string          `json:"name,omitempty"`
}

// CustomerResponse cliente sin PIN.
type CustomerResponse struct {
	Mobile        string            `json:"mobile"`
	Name          string            `json:"name"`
	Points        int64             `json:"points"`
	TotalSpent    decimal.Decimal   `json:"total_spent"`
	SpendingTier  string            `json:"spending_tier"`
	PointsTier    string            `json:"points_tier"`
	EffectiveTier string            `json:"effective_tier"`
	Transactions  int               `json:"transactions"`
	History       []HistoryEntryDTO `json:"history,omitempty"`
}

// NotificationDTO SMS registrado.
type NotificationDTO struct {
	ID              string    `json:"id,omitempty"`
	Date            time.Time `json:"date"`
	RecipientName   string    `json:"recipient_name"`
	RecipientMobile string    `json:"recipient_mobile"`
	Message         string    `json:"message"`
	Status          string    `json:"status"`
}

// TierTableDTO umbrales o porcentajes por nivel.
type TierTableDTO struct {
	Platinum decimal.Decimal `json:"platinum"`
	Gold     decimal.Decimal `json:"gold"`
	Silver   decimal.Decimal `json:"silver"`
	Bronze   decimal.Decimal `json:"bronze"`
}

// SettingsDTO configuración de niveles.
type SettingsDTO struct {
	SpendingTiers TierTableDTO `json:"spending_tiers"`
	PointsTiers   TierTableDTO `json:"points_tiers"`
	Discounts     TierTableDTO `json:"discounts"`
}

// UpdateSettingsResponse configuración aplicada.
type UpdateSettingsResponse struct {
	Settings     SettingsDTO `json:"settings"`
	Version      uint64      `json:"version"`
	Persisted    bool        `json:"persisted"`
	PersistError string      `json:"persist_error,omitempty"`
}

// AuditEntryDTO asiento del diario de auditoría.
type AuditEntryDTO struct {
	ID              string          `json:"id"`
	NewCustomer     bool            `json:"new_customer"`
	BillAmount      decimal.Decimal `json:"bill_amount"`
	AmountTendered  decimal.Decimal `json:"amount_tendered"`
	RedeemPoints    bool            `json:"redeem_points"`
	EffectiveTier   string          `json:"effective_tier"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TierDiscount    decimal.Decimal `json:"tier_discount"`
	PointsRedeemed  decimal.Decimal `json:"points_redeemed"`
	FinalBill       decimal.Decimal `json:"final_bill"`
	NetPoints       int64           `json:"net_points"`
	PointsAfter     int64           `json:"points_after"`
	LedgerVersion   uint64          `json:"ledger_version"`
	CreatedAt       time.Time       `json:"created_at"`
}
