package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/payloop-api/internal/application/dto"
	"github.com/jhoicas/payloop-api/internal/application/ports"
	"github.com/jhoicas/payloop-api/internal/domain"
)

// writeError traduce errores de dominio a la respuesta HTTP correspondiente.
func writeError(c *fiber.Ctx, err error) error {
	var tender *domain.InsufficientTenderError
	if errors.As(err, &tender) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.InsufficientTenderResponse{
			ErrorResponse: dto.ErrorResponse{Code: "INSUFFICIENT_TENDER", Message: tender.Error()},
			FinalBill:     tender.FinalBill.StringFixed(2),
			Tendered:      tender.Tendered.StringFixed(2),
			Shortfall:     tender.Shortfall.StringFixed(2),
		})
	}

	switch {
	case errors.Is(err, domain.ErrPinMismatch):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "PIN_MISMATCH", Message: err.Error()})
	case errors.Is(err, domain.ErrMalformedInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MALFORMED", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidSettings):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrUsernameTaken):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "USERNAME_TAKEN", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: "el servicio de IA tardó demasiado; intenta de nuevo"})
	case errors.Is(err, ports.ErrLLMUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "AI_UNAVAILABLE", Message: "el servicio de análisis IA no está disponible"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo de la petición inválido"})
}
