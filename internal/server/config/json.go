package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/nihongo/internal/flagx"
	"github.com/dmitrijs2005/nihongo/internal/timex"
)

// JsonConfig is the on-disk shape of the server config file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
// Absent keys leave the current value untouched.
type JsonConfig struct {
	EndpointAddrHTTP             *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC             *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	EncryptionSecret             *string         `json:"encryption_secret"`
	Environment                  *string         `json:"environment"`
	SecretKey                    *string         `json:"secret_key"`
	SessionTokenValidityDuration *timex.Duration `json:"session_token_validity_duration"`
	HistoryLimit                 *int            `json:"history_limit"`
	LogFormat                    *string         `json:"log_format"`
	RedisAddr                    *string         `json:"redis_addr"`
	TracingEnabled               *bool           `json:"tracing_enabled"`
	OTLPEndpoint                 *string         `json:"otlp_endpoint"`
	S3RootUser                   *string         `json:"s3_root_user"`
	S3RootPassword               *string         `json:"s3_root_password"`
	S3Bucket                     *string         `json:"s3_bucket"`
	S3Region                     *string         `json:"s3_region"`
	S3BaseEndpoint               *string         `json:"s3_base_endpoint"`
	CORSAllowedOrigins           []string        `json:"cors_allowed_origins"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// It panics when the file cannot be read or parsed.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.EncryptionSecret, c.EncryptionSecret)
	setString(&config.Environment, c.Environment)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionTokenValidityDuration != nil {
		config.SessionTokenValidityDuration = c.SessionTokenValidityDuration.Duration
	}
	if c.HistoryLimit != nil {
		config.HistoryLimit = *c.HistoryLimit
	}
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.RedisAddr, c.RedisAddr)
	if c.TracingEnabled != nil {
		config.TracingEnabled = *c.TracingEnabled
	}
	setString(&config.OTLPEndpoint, c.OTLPEndpoint)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
