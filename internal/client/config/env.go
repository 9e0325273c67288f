package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from environment variables, loading a
// local .env file first when one exists. Recognized variables:
//
//	BLOGCTL_SERVER_URL      base URL of the blog platform API
//	BLOGCTL_TIMEOUT_SECONDS request timeout in seconds
//	BLOGCTL_DATABASE        path of the local preferences database
//	BLOGCTL_LOGGER          logging backend (slog or zap)
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("BLOGCTL_SERVER_URL"); ok {
		cfg.ServerBaseURL = v
	}
	if v, ok := os.LookupEnv("BLOGCTL_TIMEOUT_SECONDS"); ok {
		if seconds, err := strconv.Atoi(v); err == nil {
			cfg.RequestTimeout = time.Duration(seconds) * time.Second
		}
	}
	if v, ok := os.LookupEnv("BLOGCTL_DATABASE"); ok {
		cfg.DatabasePath = v
	}
	if v, ok := os.LookupEnv("BLOGCTL_LOGGER"); ok {
		cfg.Logger = v
	}
}
