package entity

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/payloop-api/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Settings tablas paralelas de niveles: gasto mínimo, puntos mínimos y % de descuento.
type Settings struct {
	SpendingTiers TierTable `json:"spendingTiers"`
	PointsTiers   TierTable `json:"pointsTiers"`
	Discounts     TierTable `json:"discounts"`
}

// DefaultSettings configuración con la que arranca un almacenamiento vacío.
func DefaultSettings() Settings {
	return Settings{
		SpendingTiers: NewTierTable(50000, 10000, 2000, 0),
		PointsTiers:   NewTierTable(5000, 1000, 200, 0),
		Discounts:     NewTierTable(15, 10, 5, 0),
	}
}

// Validate exige umbrales no negativos y monótonos (Bronze ≤ Silver ≤ Gold ≤ Platinum)
// y descuentos entre 0 y 100.
func (s Settings) Validate() error {
	if err := validateThresholds("spendingTiers", s.SpendingTiers); err != nil {
		return err
	}
	if err := validateThresholds("pointsTiers", s.PointsTiers); err != nil {
		return err
	}
	for _, tier := range TiersAscending {
		v, _ := s.Discounts.Get(tier)
		if v.IsNegative() || v.GreaterThan(hundred) {
			return &domain.SettingsError{Table: "discounts", Reason: string(tier) + " debe estar entre 0 y 100"}
		}
	}
	return nil
}

func validateThresholds(name string, t TierTable) error {
	prev := decimal.Zero
	for i, tier := range TiersAscending {
		v, _ := t.Get(tier)
		if v.IsNegative() {
			return &domain.SettingsError{Table: name, Reason: string(tier) + " no puede ser negativo"}
		}
		if i > 0 && v.LessThan(prev) {
			return &domain.SettingsError{Table: name, Reason: string(tier) + " debe ser mayor o igual a " + string(TiersAscending[i-1])}
		}
		prev = v
	}
	return nil
}
