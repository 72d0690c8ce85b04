package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/avachat/avachat/internal/flagx"
	"github.com/avachat/avachat/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify timeouts either as strings like "10s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JSONConfig struct {
	Context         string         `json:"context"`
	Debug           *bool          `json:"debug"`
	DatabasePath    string         `json:"database_path"`
	ProviderBaseURL string         `json:"provider_base_url"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
}

// parseJSON overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when absent, nothing is loaded.
// Fields left empty in the file keep their current values. Read or unmarshal
// errors panic, matching startup-is-fatal semantics.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JSONConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Context != "" {
		cfg.Context = AppContext(jc.Context)
	}
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.ProviderBaseURL != "" {
		cfg.ProviderBaseURL = jc.ProviderBaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
}
