// Package storage selecciona el backend del ledger según STORAGE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/payloop-api/internal/application/ledger"
	"github.com/jhoicas/payloop-api/internal/infrastructure/memory"
	"github.com/jhoicas/payloop-api/internal/infrastructure/mongodb"
	"github.com/jhoicas/payloop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/payloop-api/pkg/config"
	"github.com/jhoicas/payloop-api/pkg/logger"
)

// Backend runner transaccional del ledger y cierre de la conexión subyacente.
type Backend struct {
	Driver string
	Runner ledger.TxRunner
	Close  func(ctx context.Context)
}

// Open conecta el driver configurado. Para postgres aplica el esquema; para mongo crea los índices.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Backend, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Str("driver", cfg.Storage.Driver).Msg("almacenamiento listo")
		return &Backend{
			Driver: cfg.Storage.Driver,
			Runner: postgres.NewTxRunner(pool),
			Close:  func(context.Context) { pool.Close() },
		}, nil

	case config.StorageMongo:
		client, err := mongodb.Connect(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("conexión a MongoDB: %w", err)
		}
		if err := client.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("driver", cfg.Storage.Driver).Str("database", cfg.Storage.MongoDatabase).Msg("almacenamiento listo")
		return &Backend{
			Driver: cfg.Storage.Driver,
			Runner: mongodb.NewTxRunner(client),
			Close: func(ctx context.Context) {
				if err := client.Disconnect(ctx); err != nil {
					log.Error().Err(err).Msg("cerrar MongoDB")
				}
			},
		}, nil

	case config.StorageMemory:
		log.Warn().Msg("almacenamiento en memoria: el ledger se pierde al reiniciar")
		return &Backend{
			Driver: cfg.Storage.Driver,
			Runner: memory.NewStore(),
			Close:  func(context.Context) {},
		}, nil
	}
	return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Storage.Driver)
}
