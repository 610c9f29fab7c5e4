package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/payloop-api/internal/application/dto"
	"github.com/jhoicas/payloop-api/internal/application/ledger"
	"github.com/jhoicas/payloop-api/internal/domain"
	"github.com/jhoicas/payloop-api/pkg/logger"
)

// TransactionHandler liquidación de ventas y vista previa de la factura.
type TransactionHandler struct {
	svc *ledger.Service
	log *logger.Logger
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(svc *ledger.Service, log *logger.Logger) *TransactionHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &TransactionHandler{svc: svc, log: log.Named("http.transactions")}
}

// Settle godoc
// @Summary      Liquidar una venta
// @Description  Aplica descuento de nivel y canje de puntos, acredita el cambio como puntos,
//               actualiza el cliente (o lo crea) y registra el SMS. persisted=false indica que
//               el commit falló y se reintentará en segundo plano.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettleRequest  true  "mobile, pin, name (solo clientes nuevos), montos y canje"
// @Success      201   {object}  dto.SettleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.InsufficientTenderResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Settle(c *fiber.Ctx) error {
	var in dto.SettleRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, domain.ErrMalformedInput)
	}
	out, err := h.svc.Settle(c.UserContext(), toSettlementInput(in))
	if err != nil {
		return writeError(c, err)
	}
	if !out.Persisted {
		h.log.Warn().Str("mobile", out.Customer.Mobile).Str("operator", GetUsername(c)).Msg("liquidación aceptada sin persistir")
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SettleResponse{
		Breakdown:    toBreakdown(out.Result),
		Customer:     toCustomerResponse(out.Customer, false),
		Notification: toNotificationDTO(out.Notification),
		Version:      out.Version,
		Persisted:    out.Persisted,
		PersistError: out.PersistError,
	})
}

// Quote godoc
// @Summary      Vista previa de la liquidación
// @Description  Calcula el desglose sin modificar el ledger.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettleRequest  true  "mismos campos que la liquidación"
// @Success      200   {object}  dto.SettlementBreakdown
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.InsufficientTenderResponse
// @Router       /api/transactions/quote [post]
func (h *TransactionHandler) Quote(c *fiber.Ctx) error {
	var in dto.SettleRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, domain.ErrMalformedInput)
	}
	res, err := h.svc.Quote(toSettlementInput(in))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toBreakdown(res))
}
