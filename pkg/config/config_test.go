package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 20*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "@every 1m", cfg.Jobs.FlushSpec)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("HTTP_PORT", "9090")
	v.Set("AI_PROVIDER", "anthropic")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "sqlite")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ProduccionSinSecret(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss/word", DBName: "payloop", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@db:5432/payloop?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
