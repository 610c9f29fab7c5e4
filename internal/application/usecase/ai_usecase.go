package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/payloop-api/internal/application/dto"
	"github.com/jhoicas/payloop-api/internal/application/ports"
	"github.com/jhoicas/payloop-api/internal/domain"
	"github.com/jhoicas/payloop-api/internal/domain/entity"
)

const defaultAITimeout = 20 * time.Second

// CustomerSource entrega instantáneas de los clientes del ledger.
type CustomerSource interface {
	Customers() []*entity.Customer
}

// AIUseCase orquesta el análisis en lenguaje natural sobre los clientes.
// Es consultivo: lee instantáneas y nunca toca el estado del ledger.
type AIUseCase struct {
	llm       ports.LLMService
	customers CustomerSource
	provider  string
	timeout   time.Duration
}

// NewAIUseCase construye el caso de uso inyectando el puerto LLMService.
func NewAIUseCase(llm ports.LLMService, customers CustomerSource, provider string, timeout time.Duration) *AIUseCase {
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	return &AIUseCase{llm: llm, customers: customers, provider: provider, timeout: timeout}
}

// aiCustomer vista enviada al modelo; el PIN nunca sale del servicio.
type aiCustomer struct {
	Name         string          `json:"name"`
	Mobile       string          `json:"mobile"`
	Points       int64           `json:"points"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	SpendingTier entity.Tier     `json:"spendingTier"`
	PointsTier   entity.Tier     `json:"pointsTier"`
	History      []aiEntry       `json:"history"`
}

type aiEntry struct {
	Date            string           `json:"date"`
	Bill            decimal.Decimal  `json:"bill"`
	Points          int64            `json:"points"`
	Type            entity.EntryType `json:"type"`
	DiscountApplied decimal.Decimal  `json:"discountApplied"`
}

// Analyze valida la pregunta, serializa los clientes y delega al LLM con timeout.
func (uc *AIUseCase) Analyze(ctx context.Context, req dto.AIAnalyzeRequest) (*dto.AIAnalyzeResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question es obligatorio", domain.ErrInvalidInput)
	}

	payload, err := customersJSON(uc.customers.Customers())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	answer, err := uc.llm.AnswerLoyaltyQuestion(ctx, payload, question)
	if err != nil {
		return nil, fmt.Errorf("análisis IA: %w", err)
	}
	return &dto.AIAnalyzeResponse{Answer: answer, Provider: uc.provider}, nil
}

func customersJSON(list []*entity.Customer) (string, error) {
	view := make([]aiCustomer, 0, len(list))
	for _, c := range list {
		entries := make([]aiEntry, 0, len(c.History))
		for _, h := range c.History {
			entries = append(entries, aiEntry{
				Date:            h.Date.Format(time.DateOnly),
				Bill:            h.Bill,
				Points:          h.Points,
				Type:            h.Type,
				DiscountApplied: h.DiscountApplied,
			})
		}
		view = append(view, aiCustomer{
			Name:         c.Name,
			Mobile:       c.Mobile,
			Points:       c.Points,
			TotalSpent:   c.TotalSpent,
			SpendingTier: c.SpendingTier,
			PointsTier:   c.PointsTier,
			History:      entries,
		})
	}
	raw, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serializar clientes: %w", err)
	}
	return string(raw), nil
}
