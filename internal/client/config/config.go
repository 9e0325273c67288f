package config

import "time"

// Config holds runtime settings for the blogctl client.
//
// Fields:
//   - ServerBaseURL: base URL of the blog platform API, without trailing slash.
//   - RequestTimeout: per-request HTTP timeout.
//   - DatabasePath: path of the local sqlite file holding preferences
//     (stored token, theme).
//   - Logger: which logging backend to use, "slog" or "zap".
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	DatabasePath   string
	Logger         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8080"
	c.RequestTimeout = 10 * time.Second
	c.DatabasePath = "blogctl.db"
	c.Logger = "slog"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if a config file was given), environment variables, and command-line
// flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
