package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/payloop-api/internal/infrastructure/memory"
	"github.com/jhoicas/payloop-api/pkg/config"
	"github.com/jhoicas/payloop-api/pkg/logger"
)

func TestOpen_Memoria(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageMemory}}
	b, err := Open(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer b.Close(context.Background())

	assert.Equal(t, config.StorageMemory, b.Driver)
	assert.IsType(t, &memory.Store{}, b.Runner)
}

func TestOpen_DriverDesconocido(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "sqlite"}}
	_, err := Open(context.Background(), cfg, logger.NewNop())
	assert.Error(t, err)
}
