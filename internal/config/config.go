package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type AppConfig struct {
	Port      string
	RateLimit string // limiter formatted rate, e.g. "60-M"
}

type PostgresConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// FeesConfig holds the two delivery-fee tiers. The dichotomy is fixed;
// only the amounts are configurable.
type FeesConfig struct {
	SameZone  decimal.Decimal
	CrossZone decimal.Decimal
}

type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Fees     FeesConfig
}

// Load reads configuration from the environment, optionally seeded from a
// .env file at path. Postgres connection settings are required; everything
// else falls back to defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}

	cfg.App.Port = getEnv("APP_PORT", "8080")
	cfg.App.RateLimit = getEnv("APP_RATE_LIMIT", "60-M")

	cfg.Postgres.Host = os.Getenv("DB_HOST")
	cfg.Postgres.Port = os.Getenv("DB_PORT")
	cfg.Postgres.User = os.Getenv("DB_USER")
	cfg.Postgres.Password = os.Getenv("DB_PASSWORD")
	cfg.Postgres.DBName = os.Getenv("DB_NAME")
	cfg.Postgres.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Postgres.MigrationsPath = getEnv("DB_MIGRATIONS_PATH", "migrations")

	for name, value := range map[string]string{
		"DB_HOST":     cfg.Postgres.Host,
		"DB_PORT":     cfg.Postgres.Port,
		"DB_USER":     cfg.Postgres.User,
		"DB_PASSWORD": cfg.Postgres.Password,
		"DB_NAME":     cfg.Postgres.DBName,
	} {
		if value == "" {
			return nil, fmt.Errorf("%s is required", name)
		}
	}

	cfg.Redis.Host = os.Getenv("REDIS_HOST")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB must be an integer: %w", err)
	}
	cfg.Redis.DB = redisDB

	cfg.Fees.SameZone, err = decimalEnv("FEE_SAME_ZONE", "2500")
	if err != nil {
		return nil, err
	}
	cfg.Fees.CrossZone, err = decimalEnv("FEE_CROSS_ZONE", "5000")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// RedisEnabled reports whether a Redis host was configured. The service
// falls back to in-memory rate limiting without one.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func decimalEnv(key, fallback string) (decimal.Decimal, error) {
	raw := getEnv(key, fallback)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal amount: %w", key, err)
	}
	return d, nil
}
