// Package cli implements the interactive terminal client: a REPL dispatching
// blog commands against the session store and the API gateway.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/apetrukhin/blogctl/internal/client/api"
	"github.com/apetrukhin/blogctl/internal/client/config"
	"github.com/apetrukhin/blogctl/internal/client/repositories/prefs"
	"github.com/apetrukhin/blogctl/internal/client/session"
	"github.com/apetrukhin/blogctl/internal/client/storage"
	"github.com/apetrukhin/blogctl/internal/logging"

	_ "modernc.org/sqlite"
)

// ThemeKey is the durable preferences key holding the display theme. It must
// never share a key with the stored token (session.TokenKey).
const ThemeKey = "blog::theme"

const defaultTheme = "dark"

type App struct {
	config  *config.Config
	api     api.Client
	session *session.Store
	prefs   prefs.Repository
	log     logging.Logger

	theme  string
	reader *bufio.Reader
	out    io.Writer

	closeDB func() error
}

// NewApp wires storage, gateway, and session store together from config.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := newLogger(cfg.Logger)
	if err != nil {
		return nil, err
	}

	repos, err := storage.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient := api.NewHTTPClient(cfg.ServerBaseURL, &http.Client{Timeout: cfg.RequestTimeout}, log)

	store, err := session.NewStore(ctx, apiClient, repos.Prefs, log)
	if err != nil {
		_ = repos.DB.Close()
		return nil, err
	}

	theme, err := repos.Prefs.Get(ctx, ThemeKey)
	if err != nil {
		log.Warn(ctx, "failed to read theme preference", "error", err)
	}
	if theme != "light" && theme != "dark" {
		theme = defaultTheme
	}

	return &App{
		config:  cfg,
		api:     apiClient,
		session: store,
		prefs:   repos.Prefs,
		log:     log,
		theme:   theme,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		closeDB: repos.DB.Close,
	}, nil
}

func newLogger(backend string) (logging.Logger, error) {
	switch backend {
	case "zap":
		zl, err := zap.NewProduction()
		if err != nil {
			return nil, err
		}
		return logging.NewZapLogger(zl), nil
	default:
		return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))), nil
	}
}

// Run resolves any stored token into a profile and enters the REPL.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.closeDB(); err != nil {
			a.log.Warn(ctx, "failed to close database", "error", err)
		}
	}()

	// A stored token means auth state is unknown until the profile resolves.
	if a.session.State().Token != "" {
		if err := a.session.RefreshProfile(ctx); err != nil {
			fmt.Fprintf(a.out, "Stored session is no longer valid: %s\n", err)
		}
	}

	a.Repl(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session.State().LoggedIn()
}
