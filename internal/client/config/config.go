// Package config loads settings for the nihongo terminal client.
package config

import (
	"time"

	"github.com/dmitrijs2005/nihongo/internal/content"
)

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the HTTP API.
//   - DataFile: sqlite file holding the persisted session.
//   - RequestTimeout: per-request deadline for API calls.
//   - GeminiModel: model used for generated study content.
//   - LogFormat: "text", "json" or "zap"; client logs go to stderr.
type Config struct {
	ServerEndpointAddr string
	DataFile           string
	RequestTimeout     time.Duration
	GeminiModel        string
	LogFormat          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.DataFile = "nihongo.db"
	c.RequestTimeout = 10 * time.Second
	c.GeminiModel = content.DefaultModel
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
