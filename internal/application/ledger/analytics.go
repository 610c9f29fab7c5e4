package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/payloop-api/internal/domain/entity"
	"github.com/jhoicas/payloop-api/internal/domain/loyalty"
)

// Umbrales de gasto de los segmentos del tablero.
var (
	segmentVIPFloor     = decimal.NewFromInt(10000)
	segmentRegularFloor = decimal.NewFromInt(2000)
)

const topCustomersLimit = 5

// Stats totales del tablero.
type Stats struct {
	TotalCustomers int
	TotalRevenue   decimal.Decimal
	ActivePoints   int64
}

// Segment cantidad de clientes por rango de gasto.
type Segment struct {
	Name  string
	Count int
}

// Summary métricas de la vista de analítica.
type Summary struct {
	Stats
	AverageOrderValue decimal.Decimal
	TotalTransactions int
	TopCustomers      []*entity.Customer
	Segments          []Segment
	TierDistribution  map[entity.Tier]int
}

// ComputeStats suma clientes, ingresos (gasto acumulado) y puntos activos.
func ComputeStats(customers []*entity.Customer) Stats {
	st := Stats{TotalCustomers: len(customers), TotalRevenue: decimal.Zero}
	for _, c := range customers {
		st.TotalRevenue = st.TotalRevenue.Add(c.TotalSpent)
		st.ActivePoints += c.Points
	}
	return st
}

// Summarize calcula ticket promedio redondeado al entero, top 5 por gasto, segmentos
// VIP (>10000), Regular (>2000) y New, y distribución por nivel efectivo.
func Summarize(customers []*entity.Customer) Summary {
	sum := Summary{
		Stats:             ComputeStats(customers),
		AverageOrderValue: decimal.Zero,
		TierDistribution:  map[entity.Tier]int{},
	}
	var vip, regular, fresh int
	for _, c := range customers {
		sum.TotalTransactions += c.Transactions()
		switch {
		case c.TotalSpent.GreaterThan(segmentVIPFloor):
			vip++
		case c.TotalSpent.GreaterThan(segmentRegularFloor):
			regular++
		default:
			fresh++
		}
		sum.TierDistribution[loyalty.ResolveEffectiveTier(c.SpendingTier, c.PointsTier)]++
	}
	if sum.TotalTransactions > 0 {
		sum.AverageOrderValue = sum.TotalRevenue.Div(decimal.NewFromInt(int64(sum.TotalTransactions))).Round(0)
	}
	sum.Segments = []Segment{
		{Name: "VIP (>10k)", Count: vip},
		{Name: "Regular (>2k)", Count: regular},
		{Name: "New", Count: fresh},
	}

	ranked := make([]*entity.Customer, len(customers))
	copy(ranked, customers)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].TotalSpent.GreaterThan(ranked[j].TotalSpent) })
	if len(ranked) > topCustomersLimit {
		ranked = ranked[:topCustomersLimit]
	}
	sum.TopCustomers = ranked
	return sum
}
