package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"cricket-score/internal/scoring"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

type Config struct {
	DBPath     string
	ServerPort string
	LogLevel   string
	CORSOrigin string

	AdminUser string
	AdminPass string
	JWTSecret string
	TokenTTL  time.Duration

	// optional live sinks
	RedisURL   string
	WebhookURL string

	DefaultMaxOvers int
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:     getEnv("DB_PATH", "cricket.db"),
		ServerPort: getEnv("SERVER_PORT", "4000"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),
		AdminUser:  getEnv("ADMIN_USER", "admin"),
		AdminPass:  getEnv("ADMIN_PASS", ""),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		RedisURL:   getEnv("REDIS_URL", ""),
		WebhookURL: getEnv("WEBHOOK_URL", ""),
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "168h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive")
	}
	cfg.TokenTTL = ttl

	overs, err := strconv.Atoi(getEnv("DEFAULT_MAX_OVERS", strconv.Itoa(scoring.DefaultMaxOvers)))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_MAX_OVERS: %w", err)
	}
	if !scoring.AllowedOvers[overs] {
		return nil, fmt.Errorf("DEFAULT_MAX_OVERS must be one of 6, 8, 10 or 20, got %d", overs)
	}
	cfg.DefaultMaxOvers = overs

	if cfg.AdminPass == "" {
		return nil, fmt.Errorf("ADMIN_PASS is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
