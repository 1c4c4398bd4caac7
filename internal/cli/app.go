package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/mhrs-booking/internal/apiclient"
	"github.com/wolfman30/mhrs-booking/internal/app/bootstrap"
	"github.com/wolfman30/mhrs-booking/internal/auth"
	appconfig "github.com/wolfman30/mhrs-booking/internal/config"
	"github.com/wolfman30/mhrs-booking/internal/console"
	"github.com/wolfman30/mhrs-booking/internal/domain"
	"github.com/wolfman30/mhrs-booking/internal/session"
	"github.com/wolfman30/mhrs-booking/pkg/logging"
)

// app carries what every command shares once the root pre-run has built it.
type app struct {
	env      Env
	apiURL   string
	logLevel string

	cfg        *appconfig.Config
	logger     *logging.Logger
	registry   *prometheus.Registry
	client     *apiclient.Client
	store      session.Store
	closeStore func() error
	auth       *auth.Service
	prompt     *console.Prompter
}

func (a *app) setup(ctx context.Context) error {
	var cfg appconfig.Config
	if a.env.Config != nil {
		cfg = *a.env.Config
	} else {
		cfg = *appconfig.Load()
	}
	if a.apiURL != "" {
		cfg.APIBaseURL = a.apiURL
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = &cfg

	a.logger = logging.NewWithOptions(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Writer: a.errOut()})
	a.registry = prometheus.NewRegistry()
	a.client = bootstrap.BuildAPIClient(a.cfg, a.logger, a.registry)

	if a.env.Store != nil {
		a.store = a.env.Store
		a.closeStore = func() error { return nil }
	} else {
		store, closeFn, err := bootstrap.BuildSessionStore(ctx, a.cfg, a.logger)
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		a.store = store
		a.closeStore = closeFn
	}

	a.auth = auth.NewService(a.client, a.store, a.logger)
	a.prompt = console.NewPrompter(a.env.In, a.out())
	return nil
}

func (a *app) close() error {
	if a.closeStore == nil {
		return nil
	}
	return a.closeStore()
}

func (a *app) out() io.Writer {
	if a.env.Out == nil {
		return io.Discard
	}
	return a.env.Out
}

func (a *app) errOut() io.Writer {
	if a.env.Err == nil {
		return io.Discard
	}
	return a.env.Err
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out(), format, args...)
}

// requireSession restores the saved session. A non-empty role must match
// the session's role.
func (a *app) requireSession(ctx context.Context, role domain.Role) (*session.Session, error) {
	sess, err := a.auth.Restore(ctx)
	switch {
	case errors.Is(err, session.ErrNoSession):
		return nil, errors.New("giriş yapılmamış; önce 'mhrs login' çalıştırın")
	case errors.Is(err, auth.ErrSessionExpired):
		return nil, errors.New("oturumun süresi doldu; tekrar 'mhrs login' çalıştırın")
	case err != nil:
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if role != "" && sess.Role != role {
		return nil, fmt.Errorf("bu komut %s oturumu gerektirir, açık oturum %s", role, sess.Role)
	}
	return sess, nil
}

// confirmer asks on the terminal unless yes is set.
func (a *app) confirmer(yes bool) confirmer {
	if yes {
		return alwaysYes{}
	}
	return a.prompt
}

type confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type alwaysYes struct{}

func (alwaysYes) Confirm(context.Context, string) (bool, error) { return true, nil }

// confirm runs question through c and maps a "no" to errDeclined.
func confirm(ctx context.Context, c confirmer, question string) error {
	ok, err := c.Confirm(ctx, question)
	if err != nil {
		return err
	}
	if !ok {
		return errDeclined
	}
	return nil
}

var errDeclined = errors.New("işlem iptal edildi")
