package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	HSCodeCacheTTL     time.Duration
	JWTSecret          string
	CORSAllowedOrigins []string
	BaseCurrency       string
	ForeignCurrencies  []string
	DefaultExchange    decimal.Decimal
	LogLevel           string
	LogFormat          string
}

// Load reads configuration from environment variables and an optional
// configs/.env file.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		HSCodeCacheTTL:     parseDuration(k.String("HSCODE_CACHE_TTL"), "10m"),
		JWTSecret:          k.String("JWT_SECRET"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		BaseCurrency:       strings.ToUpper(valueOrDefault(k.String("BASE_CURRENCY"), "IDR")),
		ForeignCurrencies:  splitAndTrim(strings.ToUpper(valueOrDefault(k.String("FOREIGN_CURRENCIES"), "USD"))),
		LogLevel:           valueOrDefault(k.String("LOG_LEVEL"), "info"),
		LogFormat:          valueOrDefault(k.String("LOG_FORMAT"), "json"),
	}

	rate, err := parseDecimal(k.String("DEFAULT_EXCHANGE_RATE"), "15000")
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_EXCHANGE_RATE: %w", err)
	}
	cfg.DefaultExchange = rate

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = buildDSN(k)
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "default_super_secret_key"
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// buildDSN assembles a postgres URL from the discrete DB_* variables.
func buildDSN(k *koanf.Koanf) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(valueOrDefault(k.String("DB_USER"), "postgres"), valueOrDefault(k.String("DB_PASSWORD"), "postgres")),
		Host:     valueOrDefault(k.String("DB_HOST"), "localhost") + ":" + valueOrDefault(k.String("DB_PORT"), "5432"),
		Path:     "/" + valueOrDefault(k.String("DB_NAME"), "postgres"),
		RawQuery: "sslmode=" + valueOrDefault(k.String("DB_SSLMODE"), "disable"),
	}
	return u.String()
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseDecimal(value, fallback string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(valueOrDefault(value, fallback))
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, errors.New("must be positive")
	}
	return d, nil
}
