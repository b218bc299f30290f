package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingTokenKey = errors.New("TOKEN_KEY environment variable is not set")

type Config struct {
	HTTP struct {
		Addr    string
		TLSCert string
		TLSKey  string
	}

	DatabaseURL string

	Redis struct {
		Addr     string
		Password string
		DB       int
		TTL      time.Duration
	}

	TokenKey string

	RateLimit struct {
		RPS   float64
		Burst int
	}

	Log struct {
		Level  string
		Format string
	}

	// RefdataDir overrides the embedded weighting and pathogen tables.
	RefdataDir string
}

func (c *Config) TLS() bool {
	return c.HTTP.TLSCert != "" && c.HTTP.TLSKey != ""
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{}

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8443")
	cfg.HTTP.TLSCert = getEnv("TLS_CERT", "")
	cfg.HTTP.TLSKey = getEnv("TLS_KEY", "")

	cfg.DatabaseURL = getEnv("DATABASE_URL", "")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	var err error
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	ttl, err := getEnvInt("CACHE_TTL_SECONDS", 3600)
	if err != nil {
		return nil, err
	}
	cfg.Redis.TTL = time.Duration(ttl) * time.Second

	cfg.TokenKey = getEnv("TOKEN_KEY", "")
	if cfg.TokenKey == "" {
		return nil, ErrMissingTokenKey
	}

	if cfg.RateLimit.RPS, err = getEnvFloat("RATE_LIMIT_RPS", 1); err != nil {
		return nil, err
	}
	if cfg.RateLimit.Burst, err = getEnvInt("RATE_LIMIT_BURST", 3); err != nil {
		return nil, err
	}

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.RefdataDir = getEnv("REFDATA_DIR", "")
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s: invalid value %q", key, raw)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s: invalid value %q", key, raw)
	}
	return v, nil
}
