package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("ADMIN_PASS", "secret")
	t.Setenv("JWT_SECRET", "signing-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"DB_PATH", "SERVER_PORT", "LOG_LEVEL", "CORS_ORIGIN", "ADMIN_USER", "TOKEN_TTL", "REDIS_URL", "WEBHOOK_URL", "DEFAULT_MAX_OVERS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "cricket.db", cfg.DBPath)
	assert.Equal(t, "4000", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:5173", cfg.CORSOrigin)
	assert.Equal(t, "admin", cfg.AdminUser)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 6, cfg.DefaultMaxOvers)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.WebhookURL)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing password", map[string]string{"ADMIN_PASS": ""}, "ADMIN_PASS"},
		{"missing secret", map[string]string{"JWT_SECRET": ""}, "JWT_SECRET"},
		{"bad ttl", map[string]string{"TOKEN_TTL": "soon"}, "TOKEN_TTL"},
		{"negative ttl", map[string]string{"TOKEN_TTL": "-1h"}, "TOKEN_TTL"},
		{"unsupported overs", map[string]string{"DEFAULT_MAX_OVERS": "7"}, "DEFAULT_MAX_OVERS"},
		{"non numeric overs", map[string]string{"DEFAULT_MAX_OVERS": "six"}, "DEFAULT_MAX_OVERS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv("TOKEN_TTL", "")
			t.Setenv("DEFAULT_MAX_OVERS", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("DEFAULT_MAX_OVERS", "20")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 20, cfg.DefaultMaxOvers)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}
