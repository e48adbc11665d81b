package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":              ":7000",
		"database_dsn":                    "postgres://json",
		"encryption_secret":               "from-json",
		"session_token_validity_duration": "15m",
		"history_limit":                   20,
		"tracing_enabled":                 true,
		"s3_bucket":                       "exports",
		"cors_allowed_origins":            []string{"https://app.example"},
	})

	t.Run("overlays present keys only", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}
		cfg := &Config{}
		cfg.LoadDefaults()

		parseJson(cfg)

		assert.Equal(t, ":7000", cfg.EndpointAddrHTTP)
		assert.Equal(t, ":50051", cfg.EndpointAddrGRPC)
		assert.Equal(t, "postgres://json", cfg.DatabaseDSN)
		assert.Equal(t, "from-json", cfg.EncryptionSecret)
		assert.Equal(t, 15*time.Minute, cfg.SessionTokenValidityDuration)
		assert.Equal(t, 20, cfg.HistoryLimit)
		assert.True(t, cfg.TracingEnabled)
		assert.True(t, cfg.ExportEnabled())
		assert.Equal(t, []string{"https://app.example"}, cfg.CORSAllowedOrigins)
		assert.Equal(t, "us-east-1", cfg.S3Region)
	})

	t.Run("no config flag", func(t *testing.T) {
		os.Args = []string{"testbin"}
		cfg := &Config{}
		cfg.LoadDefaults()
		want := *cfg

		parseJson(cfg)
		assert.Equal(t, want, *cfg)
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "absent.json")}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("invalid json panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		os.Args = []string{"testbin", "-c", bad}
		assert.Panics(t, func() { parseJson(&Config{}) })
	})
}
