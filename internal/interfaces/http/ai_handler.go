package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/payloop-api/internal/application/dto"
	"github.com/jhoicas/payloop-api/internal/application/usecase"
)

// AIHandler análisis en lenguaje natural sobre los clientes.
type AIHandler struct {
	uc *usecase.AIUseCase
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.AIUseCase) *AIHandler {
	return &AIHandler{uc: uc}
}

// Analyze godoc
// @Summary      Preguntar a la IA sobre los clientes
// @Description  Envía los clientes (sin PIN) y la pregunta al proveedor configurado y devuelve
//               el análisis en markdown. Nunca modifica el ledger.
// @Tags         ai
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AIAnalyzeRequest  true  "question (obligatorio)"
// @Success      200   {object}  dto.AIAnalyzeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      408   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/ai/analyze [post]
func (h *AIHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AIAnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Analyze(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
