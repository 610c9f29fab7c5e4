package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/payloop-api/internal/application/auth"
	"github.com/jhoicas/payloop-api/internal/application/ledger"
	"github.com/jhoicas/payloop-api/internal/application/ports"
	"github.com/jhoicas/payloop-api/internal/application/usecase"
	infraai "github.com/jhoicas/payloop-api/internal/infrastructure/ai"
	infrapdf "github.com/jhoicas/payloop-api/internal/infrastructure/pdf"
	"github.com/jhoicas/payloop-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/payloop-api/internal/interfaces/http"
	"github.com/jhoicas/payloop-api/internal/jobs"
	"github.com/jhoicas/payloop-api/pkg/config"
	"github.com/jhoicas/payloop-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento del ledger")
	}
	defer backend.Close(context.Background())

	ledgerSvc := ledger.NewService(backend.Runner, ledger.NewNotifier(cfg.Notification, log), log)
	if err := ledgerSvc.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargar ledger")
	}

	scheduler := jobs.NewScheduler(ledgerSvc, cfg.Jobs.FlushSpec, log)
	if err := scheduler.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("iniciar tareas programadas")
	}

	authUC, err := auth.NewAuthUseCase(auth.NewOperatorDirectory(backend.Runner),
		auth.AdminCredential{
			Username:     cfg.Admin.Username,
			Password:     cfg.Admin.Password,
			PasswordHash: cfg.Admin.PasswordHash,
		},
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar autenticación")
	}

	var llm ports.LLMService
	switch cfg.AI.Provider {
	case "anthropic":
		llm = infraai.NewAnthropicService(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	default:
		llm = infraai.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	}
	aiUC := usecase.NewAIUseCase(llm, ledgerSvc, cfg.AI.Provider, cfg.AI.Timeout)

	// PDF: estado de cuenta del cliente
	statements := infrapdf.NewStatementGenerator(cfg.Notification.BrandName, cfg.Notification.CurrencySymbol)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.AI.Timeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PayLoop API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:        ledgerSvc,
		AuthUC:        authUC,
		AIUC:          aiUC,
		Statements:    statements,
		JWTSecret:     cfg.JWT.Secret,
		StorageDriver: backend.Driver,
		Log:           log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	scheduler.Stop()
	if ledgerSvc.Dirty() {
		if err := ledgerSvc.Flush(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("ledger sin persistir al apagar")
		}
	}
	stop()

	log.Info().Msg("aplicación detenida")
}
