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

// Verificar en tiempo de compilación que GeminiService implementa LLMService.
var _ ports.LLMService = (*GeminiService)(nil)

const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiService adaptador que implementa LLMService llamando a la API REST de Google Gemini.
type GeminiService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiService construye el adaptador. model suele ser "gemini-1.5-flash".
// Si apiKey está vacío, las llamadas devuelven ErrLLMUnavailable en lugar de fallar en producción.
func NewGeminiService(apiKey, model string) *GeminiService {
	return &GeminiService{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiDefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second, // timeout de red; el caller también pone WithTimeout
		},
	}
}

// WithBaseURL apunta el adaptador a otro endpoint (proxy o servidor de pruebas).
func (s *GeminiService) WithBaseURL(baseURL string) *GeminiService {
	s.baseURL = strings.TrimRight(baseURL, "/")
	return s
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// AnswerLoyaltyQuestion envía los clientes y la pregunta a Gemini y devuelve el texto generado.
func (s *GeminiService) AnswerLoyaltyQuestion(ctx context.Context, customersJSON, question string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("%w: GEMINI_API_KEY no configurado", ports.ErrLLMUnavailable)
	}

	payload := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: loyaltyPrompt}}},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userMessage(customersJSON, question)}}},
		},
		GenerationConfig: genConfig{
			Temperature:     0.4,
			MaxOutputTokens: 1024,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

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
		var errResp geminiResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("%w: Gemini error %d: %s", ports.ErrLLMUnavailable, errResp.Error.Code, errResp.Error.Message)
		}
		return "", fmt.Errorf("%w: Gemini HTTP %d", ports.ErrLLMUnavailable, resp.StatusCode)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Gemini: %w", err)
	}
	if len(gemResp.Candidates) == 0 {
		return "", fmt.Errorf("%w: Gemini devolvió respuesta vacía", ports.ErrLLMUnavailable)
	}

	var sb strings.Builder
	for _, p := range gemResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	answer := strings.TrimSpace(sb.String())
	if answer == "" {
		return "", fmt.Errorf("%w: Gemini devolvió respuesta vacía", ports.ErrLLMUnavailable)
	}
	return answer, nil
}
