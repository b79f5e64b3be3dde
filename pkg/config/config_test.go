package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SALES_API_KEY", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "ventas-api", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, config.StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.Storage.TxMaxAttempts)
	assert.Equal(t, 24*time.Hour, cfg.Redis.SaleTTL)
	assert.Equal(t, "ventas.registradas", cfg.Kafka.SalesTopic)
	assert.Equal(t, "transferencias.cambios", cfg.RabbitMQ.TransferQueue)
	assert.Equal(t, 30*time.Second, cfg.Breaker.Timeout)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoad_LeeVariables(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("TX_MAX_ATTEMPTS", "3")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REDIS_SALE_TTL", "2h")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Storage.TxMaxAttempts)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Hour, cfg.Redis.SaleTTL)
}

func TestLoad_ProduccionExigeAPIKey(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SALES_API_KEY", "  ")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SALES_API_KEY")

	t.Setenv("SALES_API_KEY", "secreto")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "secreto", cfg.Auth.SalesAPIKey)
}

func TestValidate_DriverInvalido(t *testing.T) {
	cfg := &config.Config{
		HTTP:    config.HTTPConfig{Port: 8080},
		Storage: config.StorageConfig{Driver: "mongo", TxMaxAttempts: 5},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "ventas", Password: "p@ss:w", DBName: "ventas", SSLMode: "disable"}
	assert.Equal(t, "postgres://ventas:p%40ss%3Aw@db:5432/ventas?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
