package config

import "github.com/dmitrijs2005/nihongo/internal/flagx"

func parseEnv(cfg *Config) {
	flagx.EnvString(&cfg.ServerEndpointAddr, "NIHONGO_SERVER")
	flagx.EnvString(&cfg.DataFile, "NIHONGO_DATA_FILE")
	flagx.EnvDuration(&cfg.RequestTimeout, "NIHONGO_REQUEST_TIMEOUT")
	flagx.EnvString(&cfg.GeminiModel, "GEMINI_MODEL")
	flagx.EnvString(&cfg.LogFormat, "LOG_FORMAT")
}
