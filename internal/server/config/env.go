package config

import (
	"os"
	"strconv"

	"github.com/dmitrijs2005/nihongo/internal/flagx"
)

// parseEnv overlays values from the process environment. Variable names
// follow the deployment conventions (ENCRYPTION_SECRET, DATABASE_URL, ...).
func parseEnv(config *Config) {
	flagx.EnvString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err == nil {
			config.EndpointAddrHTTP = ":" + port
		}
	}
	flagx.EnvString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	flagx.EnvString(&config.DatabaseDSN, "DATABASE_URL")
	flagx.EnvString(&config.EncryptionSecret, "ENCRYPTION_SECRET")
	flagx.EnvString(&config.Environment, "APP_ENV")
	flagx.EnvString(&config.SecretKey, "JWT_SECRET")
	flagx.EnvDuration(&config.SessionTokenValidityDuration, "SESSION_TOKEN_TTL")
	flagx.EnvString(&config.LogFormat, "LOG_FORMAT")
	flagx.EnvString(&config.RedisAddr, "REDIS_ADDR")
	flagx.EnvBool(&config.TracingEnabled, "OTEL_ENABLED")
	flagx.EnvString(&config.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	flagx.EnvString(&config.S3RootUser, "S3_ACCESS_KEY_ID")
	flagx.EnvString(&config.S3RootPassword, "S3_SECRET_ACCESS_KEY")
	flagx.EnvString(&config.S3Bucket, "S3_BUCKET")
	flagx.EnvString(&config.S3Region, "S3_REGION")
	flagx.EnvString(&config.S3BaseEndpoint, "S3_ENDPOINT")
	flagx.EnvList(&config.CORSAllowedOrigins, "CORS_ALLOWED_ORIGINS")
}
