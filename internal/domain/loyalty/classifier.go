// Package loyalty contiene el motor de liquidación del programa de fidelización:
// clasificación de niveles, resolución de descuento y cálculo de puntos.
// Todas las funciones son puras; no acceden a persistencia.
package loyalty

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/payloop-api/internal/domain/entity"
)

// ClassifyTier devuelve el nivel más alto cuyo umbral value alcanza, evaluando Platinum → Bronze.
// Bronze es el nivel por defecto (valores negativos incluidos).
func ClassifyTier(value decimal.Decimal, thresholds entity.TierTable) entity.Tier {
	for _, tier := range entity.TiersDescending[:len(entity.TiersDescending)-1] {
		min, _ := thresholds.Get(tier)
		if value.GreaterThanOrEqual(min) {
			return tier
		}
	}
	return entity.TierBronze
}

// ClassifyPoints clasifica un saldo entero de puntos.
func ClassifyPoints(points int64, thresholds entity.TierTable) entity.Tier {
	return ClassifyTier(decimal.NewFromInt(points), thresholds)
}

// ResolveEffectiveTier el mayor de los dos niveles según el orden total.
func ResolveEffectiveTier(spendingTier, pointsTier entity.Tier) entity.Tier {
	if pointsTier.Rank() > spendingTier.Rank() {
		return pointsTier
	}
	if !spendingTier.Valid() {
		return entity.TierBronze
	}
	return spendingTier
}

// ResolveDiscountPercent busca el % de descuento del nivel; 0 si el nivel no está en la tabla.
func ResolveDiscountPercent(tier entity.Tier, discounts entity.TierTable) decimal.Decimal {
	pct, ok := discounts.Get(tier)
	if !ok {
		return decimal.Zero
	}
	return pct
}

// Reclassify recalcula ambos niveles del cliente a partir de TotalSpent y Points.
func Reclassify(c *entity.Customer, settings entity.Settings) {
	c.SpendingTier = ClassifyTier(c.TotalSpent, settings.SpendingTiers)
	c.PointsTier = ClassifyPoints(c.Points, settings.PointsTiers)
}
