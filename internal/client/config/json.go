package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/apetrukhin/blogctl/internal/flagx"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Timeouts are
// expressed in whole seconds; after parsing, values are copied into the
// runtime Config (which uses time.Duration).
type jsonConfig struct {
	ServerBaseURL  *string `json:"server_base_url"`
	RequestTimeout *int    `json:"request_timeout"`
	DatabasePath   *string `json:"database_path"`
	Logger         *string `json:"logger"`
}

// parseJSON overlays Config with values loaded from a JSON file.
//
// The file path is resolved from the -c/-config flags via
// flagx.JSONConfigFlags; when no path was given, nothing is loaded. Fields
// absent from the file keep their prior values. Read or unmarshal errors
// panic; intended usage is defaults -> parseJSON -> parseEnv -> parseFlags,
// where later stages override earlier ones.
func parseJSON(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc jsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != nil {
		cfg.ServerBaseURL = *jc.ServerBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(*jc.RequestTimeout) * time.Second
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.Logger != nil {
		cfg.Logger = *jc.Logger
	}
}
