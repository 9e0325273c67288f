package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/apetrukhin/blogctl/internal/client/cli"
	"github.com/apetrukhin/blogctl/internal/client/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "blogctl",
	Short: "Terminal client for the blog platform",
	Long: `blogctl is an interactive terminal client for the blog platform:
browse and read articles, publish Markdown posts, and manage your profile.

Configuration is layered: built-in defaults, then a JSON file (-c),
then BLOGCTL_* environment variables, then flags:

  -a  server base URL
  -t  request timeout in seconds
  -d  sqlite database path
  -l  logger backend (slog or zap)`,
	// Config owns flag parsing (defaults -> json -> env -> flags), so cobra
	// must pass the raw arguments through untouched.
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		app, err := cli.NewApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		app.Run(cmd.Context())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the blogctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("blogctl", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
