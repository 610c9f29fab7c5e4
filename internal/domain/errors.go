package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio.
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrUserNotFound    = errors.New("usuario no encontrado")
	ErrUsernameTaken   = errors.New("el usuario ya está registrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrMalformedInput  = errors.New("monto inválido: debe ser numérico y no negativo")
	ErrPinMismatch     = errors.New("PIN incorrecto para el cliente existente")
	ErrInvalidSettings = errors.New("configuración de niveles inválida")
	ErrAuditRejected   = errors.New("asiento de auditoría rechazado por el almacenamiento")

	// ErrInsufficientTender el monto entregado no cubre el total a pagar.
	// Se devuelve envuelto en *InsufficientTenderError con el faltante exacto.
	ErrInsufficientTender = errors.New("monto entregado insuficiente")
)

// InsufficientTenderError rechazo de una liquidación: lo entregado es menor al total final.
type InsufficientTenderError struct {
	FinalBill decimal.Decimal
	Tendered  decimal.Decimal
	Shortfall decimal.Decimal
}

// NewInsufficientTenderError calcula el faltante (finalBill - tendered).
func NewInsufficientTenderError(finalBill, tendered decimal.Decimal) *InsufficientTenderError {
	return &InsufficientTenderError{
		FinalBill: finalBill,
		Tendered:  tendered,
		Shortfall: finalBill.Sub(tendered),
	}
}

func (e *InsufficientTenderError) Error() string {
	return fmt.Sprintf("%s: total %s, entregado %s, faltan %s",
		ErrInsufficientTender.Error(), e.FinalBill.StringFixed(2), e.Tendered.StringFixed(2), e.Shortfall.StringFixed(2))
}

func (e *InsufficientTenderError) Unwrap() error { return ErrInsufficientTender }

// SettingsError detalla por qué una tabla de niveles no es válida.
type SettingsError struct {
	Table  string
	Reason string
}

func (e *SettingsError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidSettings.Error(), e.Table, e.Reason)
}

func (e *SettingsError) Unwrap() error { return ErrInvalidSettings }

// AuditRejectedError el almacenamiento no acepta un asiento concreto (id repetido o valores fuera de rango).
// Reintentarlo no cambia el resultado.
type AuditRejectedError struct {
	ID  string
	Err error
}

// NewAuditRejectedError envuelve la causa del rechazo del asiento id.
func NewAuditRejectedError(id string, err error) *AuditRejectedError {
	return &AuditRejectedError{ID: id, Err: err}
}

func (e *AuditRejectedError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrAuditRejected.Error(), e.ID, e.Err)
}

func (e *AuditRejectedError) Unwrap() []error { return []error{ErrAuditRejected, e.Err} }
