package config

import (
	"flag"
	"os"
	"time"

	"github.com/apetrukhin/blogctl/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the blog platform API (default from Config)
//	-t int      request timeout in seconds (default from Config)
//	-d string   path of the local preferences database
//	-l string   logging backend, "slog" or "zap"
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so it does not interfere with flags owned by
// other components (e.g. the -c/-config flag of the JSON step or cobra's
// own arguments).
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the blog platform API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local preferences database")
	fs.StringVar(&cfg.Logger, "l", cfg.Logger, "logging backend (slog or zap)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
