package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/payloop-api/internal/application/dto"
	"github.com/jhoicas/payloop-api/internal/application/ledger"
	"github.com/jhoicas/payloop-api/internal/application/ports"
	"github.com/jhoicas/payloop-api/internal/domain/loyalty"
)

// CustomerHandler consulta de clientes, verificación de PIN y estado de cuenta.
type CustomerHandler struct {
	svc        *ledger.Service
	statements ports.StatementGenerator
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(svc *ledger.Service, statements ports.StatementGenerator) *CustomerHandler {
	return &CustomerHandler{svc: svc, statements: statements}
}

// List godoc
// @Summary      Listar clientes
// @Description  Sin parámetros devuelve todos los clientes; q filtra por móvil (coincidencia parcial).
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "Fragmento del móvil"
// @Success      200  {array}   dto.CustomerResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	return c.JSON(toCustomerList(h.svc.Search(c.Query("q"))))
}

// Get godoc
// @Summary      Detalle de cliente con historial
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        mobile  path  string  true  "Móvil del cliente"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{mobile} [get]
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	cust, err := h.svc.Customer(c.Params("mobile"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toCustomerResponse(cust, true))
}

// VerifyPIN godoc
// @Summary      Verificar PIN del cliente
// @Description  exists=false indica un cliente nuevo (se pedirá nombre y PIN en la liquidación).
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        mobile  path  string                true  "Móvil del cliente"
// @Param        body    body  dto.VerifyPINRequest  true  "pin"
// @Success      200  {object}  dto.VerifyPINResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/customers/{mobile}/verify-pin [post]
func (h *CustomerHandler) VerifyPIN(c *fiber.Ctx) error {
	var in dto.VerifyPINRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	mobile := c.Params("mobile")
	exists, err := h.svc.VerifyPIN(mobile, in.PIN)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.VerifyPINResponse{Exists: exists}
	if exists {
		cust, err := h.svc.Customer(mobile)
		if err != nil {
			return writeError(c, err)
		}
		resp := toCustomerResponse(cust, false)
		out.Customer = &resp
	}
	return c.JSON(out)
}

// Audit godoc
// @Summary      Diario de auditoría del cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        mobile  path   string  true   "Móvil del cliente"
// @Param        limit   query  int     false  "Máx. asientos (default 50, max 100)"
// @Success      200  {array}   dto.AuditEntryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/customers/{mobile}/audit [get]
func (h *CustomerHandler) Audit(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	list, err := h.svc.Audits(c.UserContext(), c.Params("mobile"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAuditList(list))
}

// Statement godoc
// @Summary      Estado de cuenta en PDF
// @Tags         customers
// @Security     Bearer
// @Produce      application/pdf
// @Param        mobile  path  string  true  "Móvil del cliente"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/customers/{mobile}/statement.pdf [get]
func (h *CustomerHandler) Statement(c *fiber.Ctx) error {
	cust, err := h.svc.Customer(c.Params("mobile"))
	if err != nil {
		return writeError(c, err)
	}
	tier := loyalty.ResolveEffectiveTier(cust.SpendingTier, cust.PointsTier)
	pdf, err := h.statements.GenerateStatementPDF(c.UserContext(), cust, tier, time.Now())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="estado-`+cust.Mobile+`.pdf"`)
	return c.Send(pdf)
}
