package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("PORT", "3001")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("ENCRYPTION_SECRET", "env-pass")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "env-jwt")
	t.Setenv("SESSION_TOKEN_TTL", "2h")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":3001", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://env", cfg.DatabaseDSN)
	assert.Equal(t, "env-pass", cfg.EncryptionSecret)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "env-jwt", cfg.SecretKey)
	assert.Equal(t, 2*time.Hour, cfg.SessionTokenValidityDuration)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.True(t, cfg.TracingEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"database_dsn":      "postgres://json",
		"encryption_secret": "json-pass",
		"redis_addr":        "json-redis:6379",
	})
	t.Setenv("ENCRYPTION_SECRET", "env-pass")
	t.Setenv("REDIS_ADDR", "env-redis:6379")
	os.Args = []string{"testbin", "-c", path, "-r", "flag-redis:6379"}

	cfg := LoadConfig()

	assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
	assert.Equal(t, "env-pass", cfg.EncryptionSecret)
	assert.Equal(t, "flag-redis:6379", cfg.RedisAddr)
}
