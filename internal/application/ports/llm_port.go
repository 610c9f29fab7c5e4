package ports

import (
	"context"
	"errors"
)

// ErrLLMUnavailable el proveedor de IA no está configurado o falló. Nunca afecta al ledger.
var ErrLLMUnavailable = errors.New("AI: servicio de análisis no disponible")

// LLMService define el puerto de salida para los servicios de inteligencia artificial.
// Cualquier adaptador (Gemini, Anthropic, mock) debe implementar esta interfaz;
// la aplicación solo conoce este contrato, no la implementación concreta.
type LLMService interface {
	// AnswerLoyaltyQuestion recibe el conjunto de clientes serializado en JSON y una pregunta
	// libre, y devuelve el análisis en prosa (markdown).
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	AnswerLoyaltyQuestion(ctx context.Context, customersJSON, question string) (string, error)
}
