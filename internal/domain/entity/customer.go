package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType tipo de movimiento del historial, derivado del signo del delta neto de puntos.
type EntryType string

const (
	EntryEarn   EntryType = "earn"
	EntryRedeem EntryType = "redeem"
)

// EntryTypeFor devuelve earn si delta ≥ 0, redeem en otro caso.
func EntryTypeFor(delta int64) EntryType {
	if delta >= 0 {
		return EntryEarn
	}
	return EntryRedeem
}

// HistoryEntry movimiento inmutable de una liquidación.
// Bill es el monto cobrado (después de descuentos); DiscountApplied suma descuento de nivel y puntos canjeados.
type HistoryEntry struct {
	ID              string          `json:"id,omitempty"`
	Date            time.Time       `json:"date"`
	Bill            decimal.Decimal `json:"bill"`
	Points          int64           `json:"points"`
	Type            EntryType       `json:"type"`
	DiscountApplied decimal.Decimal `json:"discountApplied"`
}

// OriginalBill monto antes de descuentos.
func (h HistoryEntry) OriginalBill() decimal.Decimal {
	return h.Bill.Add(h.DiscountApplied)
}

// Customer cliente del programa. Mobile es la identidad única e inmutable.
// SpendingTier y PointsTier se derivan siempre de TotalSpent y Points.
type Customer struct {
	Mobile       string          `json:"mobile"`
	Name         string          `json:"name"`
	PIN          string          `json:"pin"`
	Points       int64           `json:"points"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	SpendingTier Tier            `json:"spendingTier"`
	PointsTier   Tier            `json:"pointsTier"`
	History      []HistoryEntry  `json:"history"`
}

// Clone copia profunda (el historial no se comparte entre instantáneas).
func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	out := *c
	out.History = make([]HistoryEntry, len(c.History))
	copy(out.History, c.History)
	return &out
}

// Transactions número de movimientos en el historial.
func (c *Customer) Transactions() int { return len(c.History) }
