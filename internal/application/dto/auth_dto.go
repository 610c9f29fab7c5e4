package dto

import "time"

// LoginRequest credenciales del panel.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT y operador autenticado.
type LoginResponse struct {
	Token    string           `json:"token"`
	Operator OperatorResponse `json:"operator"`
}

// RegisterRequest alta de un operador de caja.
type RegisterRequest struct {
	BusinessName    string `json:"business_name" validate:"required"`
	Username        string `json:"username" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// OperatorResponse operador sin hash de password.
type OperatorResponse struct {
	ID           string    `json:"id,omitempty"`
	BusinessName string    `json:"business_name,omitempty"`
	Username     string    `json:"username"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}
