package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Tier nivel del programa de fidelización.
type Tier string

const (
	TierBronze   Tier = "Bronze"
	TierSilver   Tier = "Silver"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
)

// TiersDescending orden de evaluación del clasificador (mayor a menor).
var TiersDescending = []Tier{TierPlatinum, TierGold, TierSilver, TierBronze}

// TiersAscending orden total Bronze < Silver < Gold < Platinum.
var TiersAscending = []Tier{TierBronze, TierSilver, TierGold, TierPlatinum}

// Rank posición del nivel en el orden total (Bronze=0 ... Platinum=3). -1 si no es un nivel conocido.
func (t Tier) Rank() int {
	switch t {
	case TierBronze:
		return 0
	case TierSilver:
		return 1
	case TierGold:
		return 2
	case TierPlatinum:
		return 3
	default:
		return -1
	}
}

// Valid indica si t es uno de los cuatro niveles.
func (t Tier) Valid() bool { return t.Rank() >= 0 }

// TierFromRank devuelve el nivel para un rank; rangos fuera de [0,3] se acotan.
func TierFromRank(rank int) Tier {
	if rank < 0 {
		rank = 0
	}
	if rank >= len(TiersAscending) {
		rank = len(TiersAscending) - 1
	}
	return TiersAscending[rank]
}

// ParseTier convierte un texto en Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("nivel desconocido: %q", s)
	}
	return t, nil
}

// TierTable valores por nivel: umbral mínimo de gasto, umbral mínimo de puntos o % de descuento.
// El JSON conserva las claves Platinum/Gold/Silver/Bronze del formato almacenado.
type TierTable struct {
	Platinum decimal.Decimal `json:"Platinum"`
	Gold     decimal.Decimal `json:"Gold"`
	Silver   decimal.Decimal `json:"Silver"`
	Bronze   decimal.Decimal `json:"Bronze"`
}

// NewTierTable construye la tabla desde enteros (orden Platinum, Gold, Silver, Bronze).
func NewTierTable(platinum, gold, silver, bronze int64) TierTable {
	return TierTable{
		Platinum: decimal.NewFromInt(platinum),
		Gold:     decimal.NewFromInt(gold),
		Silver:   decimal.NewFromInt(silver),
		Bronze:   decimal.NewFromInt(bronze),
	}
}

// Get devuelve el valor del nivel; ok=false si el nivel no existe.
func (t TierTable) Get(tier Tier) (decimal.Decimal, bool) {
	switch tier {
	case TierPlatinum:
		return t.Platinum, true
	case TierGold:
		return t.Gold, true
	case TierSilver:
		return t.Silver, true
	case TierBronze:
		return t.Bronze, true
	default:
		return decimal.Zero, false
	}
}
