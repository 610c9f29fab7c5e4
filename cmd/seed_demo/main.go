// seed_demo reemplaza el contenido del almacenamiento configurado por el conjunto de demostración
// (cinco clientes, configuración de fábrica y log de SMS vacío).
//
// Uso: go run ./cmd/seed_demo
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/payloop-api/internal/application/ledger"
	"github.com/jhoicas/payloop-api/internal/infrastructure/storage"
	"github.com/jhoicas/payloop-api/pkg/config"
	"github.com/jhoicas/payloop-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir almacenamiento: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close(context.Background())

	svc := ledger.NewService(backend.Runner, ledger.NewNotifier(cfg.Notification, log), log)
	if err := svc.ResetDemo(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Sembrar datos de demostración: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK: %d clientes de demostración escritos en %s\n", len(svc.Customers()), backend.Driver)
}
