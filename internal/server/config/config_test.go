package config

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/nihongo/internal/logging"
)

func newBufferLogger() (logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil))), &buf
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Empty(t, c.DatabaseDSN)
	assert.Empty(t, c.EncryptionSecret)
	assert.Equal(t, EnvDevelopment, c.Environment)
	assert.Equal(t, 24*time.Hour, c.SessionTokenValidityDuration)
	assert.Equal(t, 50, c.HistoryLimit)
	assert.Equal(t, "json", c.LogFormat)
	assert.False(t, c.ExportEnabled())
	assert.False(t, c.IsProduction())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
		check   func(t *testing.T, c *Config, logs string)
	}{
		{
			name:   "development falls back to demo secrets",
			mutate: func(c *Config) {},
			check: func(t *testing.T, c *Config, logs string) {
				assert.Equal(t, DevEncryptionSecret, c.EncryptionSecret)
				assert.Equal(t, DevSecretKey, c.SecretKey)
				assert.Contains(t, logs, "ENCRYPTION_SECRET not set")
				assert.Contains(t, logs, "JWT_SECRET not set")
			},
		},
		{
			name: "production without passphrase is fatal",
			mutate: func(c *Config) {
				c.Environment = EnvProduction
				c.SecretKey = "jwt"
			},
			wantErr: ErrMissingEncryptionSecret,
		},
		{
			name: "production without jwt secret is fatal",
			mutate: func(c *Config) {
				c.Environment = EnvProduction
				c.EncryptionSecret = "pass"
			},
			wantErr: ErrMissingSecretKey,
		},
		{
			name: "production with both secrets",
			mutate: func(c *Config) {
				c.Environment = EnvProduction
				c.EncryptionSecret = "pass"
				c.SecretKey = "jwt"
			},
			check: func(t *testing.T, c *Config, logs string) {
				assert.Equal(t, "pass", c.EncryptionSecret)
				assert.NotContains(t, logs, "level=WARN")
			},
		},
		{
			name:   "history limit is capped",
			mutate: func(c *Config) { c.HistoryLimit = 500 },
			check: func(t *testing.T, c *Config, logs string) {
				assert.Equal(t, 50, c.HistoryLimit)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			log, buf := newBufferLogger()

			err := c.Validate(context.Background(), log)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, &c, buf.String())
			}
		})
	}
}

func TestValidate_UnknownEnvironment(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.Environment = "staging"
	log, _ := newBufferLogger()

	assert.Error(t, c.Validate(context.Background(), log))
}
