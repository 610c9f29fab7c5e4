package http

import (
	"bytes"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/payloop-api/internal/application/dto"
	"github.com/jhoicas/payloop-api/internal/application/ledger"
)

// AnalyticsHandler totales del tablero, analítica de clientes y exportación CSV.
type AnalyticsHandler struct {
	svc *ledger.Service
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(svc *ledger.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Stats godoc
// @Summary      Totales del tablero
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Router       /api/analytics/stats [get]
func (h *AnalyticsHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(toStatsResponse(ledger.ComputeStats(h.svc.Customers())))
}

// Summary godoc
// @Summary      Analítica de clientes
// @Description  Ticket promedio, top 5 por gasto, segmentos por gasto y distribución por nivel efectivo.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AnalyticsSummaryResponse
// @Router       /api/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	s := ledger.Summarize(h.svc.Customers())
	segments := make([]dto.SegmentDTO, 0, len(s.Segments))
	for _, seg := range s.Segments {
		segments = append(segments, dto.SegmentDTO{Name: seg.Name, Count: seg.Count})
	}
	dist := make(map[string]int, len(s.TierDistribution))
	for tier, n := range s.TierDistribution {
		dist[string(tier)] = n
	}
	return c.JSON(dto.AnalyticsSummaryResponse{
		StatsResponse:     toStatsResponse(s.Stats),
		AverageOrderValue: s.AverageOrderValue,
		TotalTransactions: s.TotalTransactions,
		TopCustomers:      toCustomerList(s.TopCustomers),
		Segments:          segments,
		TierDistribution:  dist,
	})
}

// ExportCSV godoc
// @Summary      Exportar clientes a CSV
// @Tags         analytics
// @Security     Bearer
// @Produce      text/csv
// @Success      200
// @Router       /api/export/customers.csv [get]
func (h *AnalyticsHandler) ExportCSV(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := ledger.WriteCustomersCSV(&buf, h.svc.Customers()); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="customers.csv"`)
	return c.Send(buf.Bytes())
}

func toStatsResponse(s ledger.Stats) dto.StatsResponse {
	return dto.StatsResponse{
		TotalCustomers: s.TotalCustomers,
		TotalRevenue:   s.TotalRevenue,
		ActivePoints:   s.ActivePoints,
	}
}
