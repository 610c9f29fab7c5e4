package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/payloop-api/internal/application/dto"
	"github.com/jhoicas/payloop-api/internal/application/ledger"
	"github.com/jhoicas/payloop-api/pkg/logger"
)

// LedgerHandler historial global, log de SMS, configuración de niveles y administración.
type LedgerHandler struct {
	svc *ledger.Service
	log *logger.Logger
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(svc *ledger.Service, log *logger.Logger) *LedgerHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &LedgerHandler{svc: svc, log: log.Named("http.ledger")}
}

// History godoc
// @Summary      Historial de todas las transacciones
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.HistoryEntryDTO
// @Router       /api/history [get]
func (h *LedgerHandler) History(c *fiber.Ctx) error {
	return c.JSON(toGlobalHistory(h.svc.History()))
}

// Notifications godoc
// @Summary      Log de SMS
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.NotificationDTO
// @Router       /api/notifications [get]
func (h *LedgerHandler) Notifications(c *fiber.Ctx) error {
	logs := h.svc.Notifications()
	out := make([]dto.NotificationDTO, 0, len(logs))
	for _, n := range logs {
		out = append(out, toNotificationDTO(n))
	}
	return c.JSON(out)
}

// GetSettings godoc
// @Summary      Configuración de niveles
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SettingsDTO
// @Router       /api/settings [get]
func (h *LedgerHandler) GetSettings(c *fiber.Ctx) error {
	return c.JSON(toSettingsDTO(h.svc.Settings()))
}

// UpdateSettings godoc
// @Summary      Actualizar configuración de niveles
// @Description  Recalcula ambos niveles de todos los clientes. El historial no se modifica. Solo admin.
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettingsDTO  true  "umbrales de gasto, umbrales de puntos y % de descuento"
// @Success      200  {object}  dto.UpdateSettingsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/settings [put]
func (h *LedgerHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.SettingsDTO
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.UpdateSettings(c.UserContext(), fromSettingsDTO(in))
	if err != nil {
		return writeError(c, err)
	}
	if !out.Persisted {
		h.log.Warn().Str("operator", GetUsername(c)).Str("persist_error", out.PersistError).Msg("configuración aplicada sin persistir")
	} else {
		h.log.Info().Str("operator", GetUsername(c)).Uint64("version", out.Version).Msg("configuración actualizada")
	}
	return c.JSON(dto.UpdateSettingsResponse{
		Settings:     toSettingsDTO(h.svc.Settings()),
		Version:      out.Version,
		Persisted:    out.Persisted,
		PersistError: out.PersistError,
	})
}

// ResetDemo godoc
// @Summary      Reiniciar con datos de demostración
// @Description  Reemplaza clientes, configuración y log de SMS. Solo admin.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/admin/reset-demo [post]
func (h *LedgerHandler) ResetDemo(c *fiber.Ctx) error {
	if err := h.svc.ResetDemo(c.UserContext()); err != nil {
		h.log.Error().Err(err).Str("operator", GetUsername(c)).Msg("reinicio de demostración sin persistir")
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "version": h.svc.Version(), "customers": len(h.svc.Customers())})
}
