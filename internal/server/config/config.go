// Package config handles configuration for the server component: defaults,
// a JSON overlay, environment variables and command-line flags, applied in
// that order.
package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nihongo/internal/common"
	"github.com/dmitrijs2005/nihongo/internal/logging"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// Fallback secrets used only outside production.
	DevEncryptionSecret = "nihongo-development-passphrase"
	DevSecretKey        = "nihongo-development-jwt-key"
)

var (
	ErrMissingEncryptionSecret = errors.New("encryption secret is required in production")
	ErrMissingSecretKey        = errors.New("jwt secret is required in production")
)

// Config holds runtime settings for the server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses for the JSON API and the gRPC health endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory store.
//   - EncryptionSecret: passphrase the stored API keys are encrypted under.
//   - Environment: "development" or "production".
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - SessionTokenValidityDuration: lifetime of a session token.
//   - HistoryLimit: max rows returned by GET /history.
//   - RedisAddr: revoked-token store; empty keeps revocations in memory.
//   - S3*: history export target; an empty bucket disables export.
type Config struct {
	EndpointAddrHTTP             string
	EndpointAddrGRPC             string
	DatabaseDSN                  string
	EncryptionSecret             string
	Environment                  string
	SecretKey                    string
	SessionTokenValidityDuration time.Duration
	HistoryLimit                 int
	LogFormat                    string
	RedisAddr                    string
	TracingEnabled               bool
	OTLPEndpoint                 string
	S3RootUser                   string
	S3RootPassword               string
	S3Bucket                     string
	S3Region                     string
	S3BaseEndpoint               string
	CORSAllowedOrigins           []string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.EncryptionSecret = ""
	c.Environment = EnvDevelopment
	c.SecretKey = ""
	c.SessionTokenValidityDuration = 24 * time.Hour
	c.HistoryLimit = common.HistoryLimit
	c.LogFormat = "json"
	c.RedisAddr = ""
	c.TracingEnabled = false
	c.OTLPEndpoint = ""
	c.S3RootUser = ""
	c.S3RootPassword = ""
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.CORSAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
}

// IsProduction reports whether the server runs with production rules.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// ExportEnabled reports whether a bucket is configured for history export.
func (c *Config) ExportEnabled() bool {
	return c.S3Bucket != ""
}

// Validate checks the loaded values. In production a missing encryption
// secret or JWT secret is fatal; elsewhere fixed development values are
// substituted and a warning is logged for each.
func (c *Config) Validate(ctx context.Context, log logging.Logger) error {
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}

	if c.EncryptionSecret == "" {
		if c.IsProduction() {
			return ErrMissingEncryptionSecret
		}
		c.EncryptionSecret = DevEncryptionSecret
		log.Warn(ctx, "ENCRYPTION_SECRET not set, using development passphrase")
	}

	if c.SecretKey == "" {
		if c.IsProduction() {
			return ErrMissingSecretKey
		}
		c.SecretKey = DevSecretKey
		log.Warn(ctx, "JWT_SECRET not set, using development key")
	}

	if c.SessionTokenValidityDuration <= 0 {
		return errors.New("session token validity must be positive")
	}

	if c.HistoryLimit <= 0 || c.HistoryLimit > common.HistoryLimit {
		c.HistoryLimit = common.HistoryLimit
	}

	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
