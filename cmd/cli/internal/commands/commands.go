package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/asknalyze/internal/client"
	"github.com/wolfeidau/asknalyze/internal/navigation"
	"github.com/wolfeidau/asknalyze/internal/session"
	"github.com/wolfeidau/asknalyze/internal/storage"
	"github.com/wolfeidau/asknalyze/internal/telemetry"
)

var (
	ErrNotSignedIn    = errors.New("not signed in, run 'asknalyze-cli login'")
	ErrSessionExpired = errors.New("session expired, run 'asknalyze-cli login'")
)

type Globals struct {
	Debug   bool
	Version string

	// Stdout receives command output; nil means os.Stdout.
	Stdout io.Writer
}

func (g *Globals) out() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// StateFlags locate the local session state.
type StateFlags struct {
	StateDir string `help:"Session state directory (default: ~/.asknalyze/)" env:"ASKNALYZE_STATE_DIR"`
}

// APIFlags configure access to the asknalyze API.
type APIFlags struct {
	State StateFlags `embed:""`

	Server   string        `help:"Asknalyze API URL" default:"http://localhost:9091" env:"ASKNALYZE_SERVER"`
	CacheDir string        `help:"Directory for cached API responses (default: in memory)" env:"ASKNALYZE_CACHE_DIR"`
	Timeout  time.Duration `help:"API request timeout" default:"30s"`
	Tracing  bool          `help:"Export traces and metrics over OTLP" env:"ASKNALYZE_TRACING"`
}

// env is what a command works with: the stored session, the page the
// command stands in for, and the API client when one is needed.
type env struct {
	store    *storage.File
	location *navigation.Location
	session  *session.Manager
	router   *navigation.Router
	client   *client.Client
	shutdown func(context.Context) error
}

func (f StateFlags) open() (*env, error) {
	store, err := storage.NewFile(f.StateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open session state: %w", err)
	}

	location := navigation.NewLocation(navigation.PathRoot)
	sess := session.New(store, location,
		session.WithSignInPath(navigation.PathSignIn),
		session.WithPublicPaths(navigation.PublicPaths()...),
	)

	return &env{
		store:    store,
		location: location,
		session:  sess,
		router:   navigation.NewRouter(sess, location),
	}, nil
}

func (f APIFlags) open(ctx context.Context, globals *Globals) (*env, error) {
	e, err := f.State.open()
	if err != nil {
		return nil, err
	}

	if f.Tracing {
		shutdown, err := telemetry.InitTelemetry(ctx, "asknalyze-cli", globals.Version)
		if err != nil {
			return nil, fmt.Errorf("failed to initialise telemetry: %w", err)
		}
		e.shutdown = shutdown
	}

	cfg := client.DefaultConfig()
	cfg.ServerURL = f.Server
	cfg.Timeout = f.Timeout
	cfg.CacheDir = f.CacheDir
	cfg.Tracing = f.Tracing

	e.client, err = client.New(cfg, e.session)
	if err != nil {
		e.close(ctx)
		return nil, err
	}

	return e, nil
}

func (e *env) close(ctx context.Context) {
	if e.shutdown == nil {
		return
	}
	if err := e.shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to flush telemetry")
	}
}

// enter moves to a protected page, failing when there is no valid session.
func (e *env) enter(path string) error {
	_, hadToken := e.session.Token()
	if d := e.router.Navigate(path); !d.Allowed() {
		if hadToken {
			return ErrSessionExpired
		}
		return ErrNotSignedIn
	}
	return nil
}

// apiError reports a 401 that ended the session as an expired session.
func (e *env) apiError(err error) error {
	if e.location.Redirected(navigation.PathSignIn) {
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	return err
}
