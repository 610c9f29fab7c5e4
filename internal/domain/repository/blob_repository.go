package repository

import "context"

// Claves lógicas fijas del almacenamiento de blobs.
const (
	KeyCustomers     = "loyaltyDB"
	KeySettings      = "loyaltySettings"
	KeyNotifications = "smsLogs"
	KeyOperators     = "loyaltyOperators"
)

// BlobRepository puerto de persistencia clave → blob serializado (opaco para la infraestructura).
type BlobRepository interface {
	// Get devuelve nil, nil si la clave no existe.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
