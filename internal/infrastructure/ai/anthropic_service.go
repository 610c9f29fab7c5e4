package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/payloop-api/internal/application/ports"
)

// Verificar en tiempo de compilación que AnthropicService implementa LLMService.
var _ ports.LLMService = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
)

// AnthropicService adaptador que implementa LLMService usando la API REST de Anthropic (Claude).
// Usa net/http de la librería estándar de Go; no requiere el SDK oficial.
type AnthropicService struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

// NewAnthropicService construye el adaptador.
// model suele ser "claude-3-5-haiku-20241022".
func NewAnthropicService(apiKey, model string) *AnthropicService {
	return &AnthropicService{
		apiKey: apiKey,
		model:  model,
		url:    anthropicMessagesURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithURL reemplaza el endpoint de Messages (servidor de pruebas).
func (s *AnthropicService) WithURL(url string) *AnthropicService {
	s.url = url
	return s
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// AnswerLoyaltyQuestion envía los clientes y la pregunta a Claude y concatena los bloques de texto.
func (s *AnthropicService) AnswerLoyaltyQuestion(ctx context.Context, customersJSON, question string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("%w: ANTHROPIC_API_KEY no configurado", ports.ErrLLMUnavailable)
	}

	payload := anthropicRequest{
		Model:     s.model,
		MaxTokens: 1024,
		System:    loyaltyPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: userMessage(customersJSON, question)},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("%w: llamada HTTP fallida: %v", ports.ErrLLMUnavailable, err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("%w: Anthropic error (%s): %s", ports.ErrLLMUnavailable, errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("%w: Anthropic HTTP %d", ports.ErrLLMUnavailable, resp.StatusCode)
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Anthropic: %w", err)
	}

	var sb strings.Builder
	for _, block := range anthResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	answer := strings.TrimSpace(sb.String())
	if answer == "" {
		return "", fmt.Errorf("%w: Claude devolvió respuesta vacía", ports.ErrLLMUnavailable)
	}
	return answer, nil
}
