package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/vitalis-health/vitalis-go/internal/api"
	"github.com/vitalis-health/vitalis-go/internal/cli/config"
	"github.com/vitalis-health/vitalis-go/internal/cli/output"
	"github.com/vitalis-health/vitalis-go/internal/reports"
	"github.com/vitalis-health/vitalis-go/internal/session"
	"github.com/vitalis-health/vitalis-go/internal/telemetry/logger"
)

// Env carries the wired dependencies every command action uses.
type Env struct {
	Config   *config.CLIConfig
	Logger   *slog.Logger
	Nav      *session.MemoryNavigator
	Sessions *session.Controller
	Guard    *session.Guard
	Client   *api.Client

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	in      *bufio.Reader
	cache   *reports.Cache
	reports *reports.Service
}

// In returns the shared buffered reader over Stdin. Sharing one reader
// keeps input typed ahead of a prompt from being lost between reads.
func (e *Env) In() *bufio.Reader {
	if e.in == nil {
		e.in = bufio.NewReader(e.Stdin)
	}
	return e.in
}

// issuerRef defers client wiring: the controller needs the client as its
// token issuer while the client's pipeline reads tokens from the
// controller.
type issuerRef struct {
	client *api.Client
}

func (r *issuerRef) ObtainToken(ctx context.Context, username, password string) (api.TokenPair, error) {
	if r.client == nil {
		return api.TokenPair{}, fmt.Errorf("client not wired")
	}
	return r.client.ObtainToken(ctx, username, password)
}

// NewEnv builds the shared environment from resolved configuration.
func NewEnv(cfg *config.CLIConfig, stdin io.Reader, stdout, stderr io.Writer) (*Env, error) {
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: stderr,
	})

	store, err := session.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	nav := session.NewMemoryNavigator(session.ViewLogin)
	ref := &issuerRef{}
	ctrl := session.NewController(store, ref, nav, log)

	client := api.New(api.Options{
		BaseURL:           cfg.Server,
		Tokens:            ctrl,
		OnUnauthorized:    ctrl.HandleUnauthorized,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            log,
	})
	ref.client = client

	if ctrl.State() == session.Authenticated {
		nav.NavigateTo(session.ViewDashboard, "")
	}

	return &Env{
		Config:   cfg,
		Logger:   log,
		Nav:      nav,
		Sessions: ctrl,
		Guard:    session.NewGuard(ctrl),
		Client:   client,
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
	}, nil
}

// Reports opens the badger-backed cache on first use. Commands that
// never touch reports keep startup free of a database open.
func (e *Env) Reports() *reports.Service {
	if e.reports != nil {
		return e.reports
	}

	cache, err := reports.OpenCache(filepath.Join(e.Config.DataDir, "cache"), e.Logger)
	if err != nil {
		e.Logger.Warn("report cache unavailable, running remote-only", "err", err)
		cache = nil
	}
	e.cache = cache
	e.reports = reports.NewService(e.Client, cache, e.Logger)
	return e.reports
}

// Close releases resources opened on demand.
func (e *Env) Close() error {
	if e.cache == nil {
		return nil
	}
	err := e.cache.Close()
	e.cache = nil
	e.reports = nil
	return err
}

// Formatter builds the output formatter from flags and config.
func (e *Env) Formatter(c *cli.Context) (output.Formatter, error) {
	name := e.Config.Output
	if c.IsSet("output") {
		name = c.String("output")
	}
	format, err := output.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return output.NewFormatter(format, c.Bool("wide")), nil
}

// RequireView routes through the access guard the way the full client
// does before rendering a protected view. It returns an error telling
// the user to log in when the guard redirects.
func (e *Env) RequireView(dest session.View) error {
	decision := e.Guard.Check(dest)
	if decision.Allowed {
		e.Nav.NavigateTo(dest, "")
		return nil
	}
	e.Nav.NavigateTo(decision.RedirectTo, decision.Notice)
	return fmt.Errorf("%s", decision.Notice)
}

const envKey = "vitalis.env"

// FromContext retrieves the Env placed in app metadata by Before.
func FromContext(c *cli.Context) (*Env, error) {
	if env, ok := c.App.Metadata[envKey].(*Env); ok {
		return env, nil
	}
	return nil, fmt.Errorf("environment not initialized")
}

// PrintError writes an error line to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
