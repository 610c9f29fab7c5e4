package entity

import "time"

// Roles de operador del panel.
const (
	RoleAdmin  = "admin"
	RoleCajero = "cajero"
)

// Operator usuario registrado que opera la caja.
type Operator struct {
	ID           string    `json:"id"`
	BusinessName string    `json:"businessName"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
