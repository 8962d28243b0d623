package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("DB_SSLMODE", "")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("BASE_CURRENCY", "")
	t.Setenv("FOREIGN_CURRENCIES", "")
	t.Setenv("DEFAULT_EXCHANGE_RATE", "")
	t.Setenv("HSCODE_CACHE_TTL", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "postgres://postgres:secret@db:5432/postgres?sslmode=disable", cfg.DatabaseURL)
	require.Equal(t, "IDR", cfg.BaseCurrency)
	require.Equal(t, []string{"USD"}, cfg.ForeignCurrencies)
	require.Equal(t, "15000", cfg.DefaultExchange.String())
	require.Equal(t, 10*time.Minute, cfg.HSCodeCacheTTL)
	require.NotEmpty(t, cfg.JWTSecret)
	require.NotEmpty(t, cfg.CORSAllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("PORT", ":9090")
	t.Setenv("DATABASE_URL", "postgres://u:p@h:1/x")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("BASE_CURRENCY", "sgd")
	t.Setenv("FOREIGN_CURRENCIES", "usd, eur ,")
	t.Setenv("DEFAULT_EXCHANGE_RATE", "1.35")
	t.Setenv("HSCODE_CACHE_TTL", "bogus")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, "postgres://u:p@h:1/x", cfg.DatabaseURL)
	require.Equal(t, "SGD", cfg.BaseCurrency)
	require.Equal(t, []string{"USD", "EUR"}, cfg.ForeignCurrencies)
	require.Equal(t, "1.35", cfg.DefaultExchange.String())
	require.Equal(t, 10*time.Minute, cfg.HSCodeCacheTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadRejectsMissingSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DEFAULT_EXCHANGE_RATE", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNonPositiveRate(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DEFAULT_EXCHANGE_RATE", "-1")

	_, err := Load()
	require.Error(t, err)
}
