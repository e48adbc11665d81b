package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/nihongo/internal/flagx"
	"github.com/dmitrijs2005/nihongo/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the corresponding Config field untouched.
type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	DataFile           *string         `json:"data_file"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	GeminiModel        *string         `json:"gemini_model"`
	LogFormat          *string         `json:"log_format"`
}

// parseJson overlays Config with values from the file named by -c/-config.
// It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.DataFile != nil {
		cfg.DataFile = *jc.DataFile
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.GeminiModel != nil {
		cfg.GeminiModel = *jc.GeminiModel
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
}
