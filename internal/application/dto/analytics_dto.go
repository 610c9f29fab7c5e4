package dto

import "github.com/shopspring/decimal"

// StatsResponse totales del tablero.
type StatsResponse struct {
	TotalCustomers int             `json:"total_customers"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	ActivePoints   int64           `json:"active_points"`
}

// SegmentDTO clientes por rango de gasto.
type SegmentDTO struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AnalyticsSummaryResponse vista de analítica.
type AnalyticsSummaryResponse struct {
	StatsResponse
	AverageOrderValue decimal.Decimal    `json:"average_order_value"`
	TotalTransactions int                `json:"total_transactions"`
	TopCustomers      []CustomerResponse `json:"top_customers"`
	Segments          []SegmentDTO       `json:"segments"`
	TierDistribution  map[string]int     `json:"tier_distribution"`
}

// AIAnalyzeRequest pregunta libre sobre los clientes.
type AIAnalyzeRequest struct {
	Question string `json:"question" validate:"required"`
}

// AIAnalyzeResponse análisis devuelto por el modelo (markdown).
type AIAnalyzeResponse struct {
	Answer   string `json:"answer"`
	Provider string `json:"provider"`
}
