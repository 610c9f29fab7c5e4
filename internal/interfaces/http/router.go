package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/payloop-api/internal/application/auth"
	"github.com/jhoicas/payloop-api/internal/application/ledger"
	"github.com/jhoicas/payloop-api/internal/application/ports"
	"github.com/jhoicas/payloop-api/internal/application/usecase"
	"github.com/jhoicas/payloop-api/internal/domain/entity"
	"github.com/jhoicas/payloop-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger        *ledger.Service
	AuthUC        *auth.AuthUseCase
	AIUC          *usecase.AIUseCase
	Statements    ports.StatementGenerator
	JWTSecret     string
	StorageDriver string
	Log           *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"storage": deps.StorageDriver,
			"version": deps.Ledger.Version(),
			"dirty":   deps.Ledger.Dirty(),
		})
	})

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token); admin y cajero operan la caja
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin, entity.RoleCajero))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Transactions
	txHandler := NewTransactionHandler(deps.Ledger, deps.Log)
	protected.Post("/transactions", txHandler.Settle)
	protected.Post("/transactions/quote", txHandler.Quote)

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.Ledger, deps.Statements)
	customers.Get("/", customerHandler.List)
	customers.Get("/:mobile", customerHandler.Get)
	customers.Get("/:mobile/audit", customerHandler.Audit)
	customers.Get("/:mobile/statement.pdf", customerHandler.Statement)
	customers.Post("/:mobile/verify-pin", customerHandler.VerifyPIN)

	// Ledger
	ledgerHandler := NewLedgerHandler(deps.Ledger, deps.Log)
	protected.Get("/history", ledgerHandler.History)
	protected.Get("/notifications", ledgerHandler.Notifications)
	protected.Get("/settings", ledgerHandler.GetSettings)
	protected.Put("/settings", adminOnly, ledgerHandler.UpdateSettings)
	protected.Post("/admin/reset-demo", adminOnly, ledgerHandler.ResetDemo)

	// Analytics
	analyticsHandler := NewAnalyticsHandler(deps.Ledger)
	protected.Get("/analytics/stats", analyticsHandler.Stats)
	protected.Get("/analytics/summary", analyticsHandler.Summary)
	protected.Get("/export/customers.csv", analyticsHandler.ExportCSV)

	// AI
	if deps.AIUC != nil {
		aiHandler := NewAIHandler(deps.AIUC)
		protected.Post("/ai/analyze", aiHandler.Analyze)
	}
}
