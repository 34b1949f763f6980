// Package app wires the identity adapter, the gateway and the profile
// context together. It is created once at the program root and torn down
// with Close.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/and161185/auto-marketplace/internal/api"
	"github.com/and161185/auto-marketplace/internal/config"
	"github.com/and161185/auto-marketplace/internal/form"
	"github.com/and161185/auto-marketplace/internal/gateway"
	"github.com/and161185/auto-marketplace/internal/i18n"
	"github.com/and161185/auto-marketplace/internal/identity"
	"github.com/and161185/auto-marketplace/internal/metrics"
	"github.com/and161185/auto-marketplace/internal/notify"
	"github.com/and161185/auto-marketplace/internal/profile"
)

// Options replace the defaults derived from the configuration.
type Options struct {
	Notifier  notify.Notifier   // default: notify.Discard
	Navigator profile.Navigator // may be nil
	Opener    identity.Opener   // browser launcher for popup sign-in
	Provider  identity.Provider // default: Firebase REST
	Store     identity.Store    // default: sealed file store in ConfigDir
	UserAgent string
}

// App owns every long-lived component.
type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Printer  *i18n.Printer
	Notifier notify.Notifier
	Registry *prometheus.Registry

	Identity *identity.Adapter
	Gateway  *gateway.Client
	Users    *api.Users
	Cars     *api.Cars
	Health   *api.Health
	Profile  *profile.Context
	Forms    *form.Submitter

	cancel context.CancelFunc
	done   chan error
}

// New builds the component graph. Nothing touches the network until Start.
func New(cfg *config.Config, log *zap.Logger, opts Options) (*App, error) {
	bundle, err := i18n.Default()
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	pr := bundle.Printer(cfg.Locale)

	n := opts.Notifier
	if n == nil {
		n = notify.Discard{}
	}
	n = notify.WithLog(n, log.Named("notify"))

	if missing := cfg.MissingFirebase(); len(missing) > 0 {
		log.Warn("identity provider not fully configured", zap.Strings("missing", missing))
	}

	provider := opts.Provider
	if provider == nil {
		provider = identity.NewFirebaseProvider(identity.FirebaseConfig{
			APIKey:     cfg.Firebase.APIKey,
			HTTPClient: &http.Client{Timeout: cfg.RequestTimeout},
		})
	}
	store := opts.Store
	if store == nil {
		dir := cfg.ConfigDir
		if dir == "" {
			dir = identity.DefaultDir()
		}
		store = identity.NewFileStore(dir)
	}

	var idOpts []identity.Option
	if cfg.PopupEnabled() && opts.Opener != nil {
		idOpts = append(idOpts, identity.WithPopup(
			identity.NewGoogleAuthorizer(cfg.Google.ClientID, cfg.Google.ClientSecret, opts.Opener, log.Named("popup"))))
	}
	adapter := identity.NewAdapter(provider, store, n, pr, log.Named("identity"), idOpts...)

	reg := prometheus.NewRegistry()
	gwOpts := []gateway.Option{gateway.WithCollector(metrics.NewProm(reg))}
	if opts.Navigator != nil {
		gwOpts = append(gwOpts, gateway.WithNavigator(opts.Navigator))
	}
	gw := gateway.New(gateway.Config{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.RequestTimeout,
		UserAgent: opts.UserAgent,
	}, adapter, n, pr, log.Named("gateway"), gwOpts...)

	users := api.NewUsers(gw)
	prof := profile.New(users, n, pr, opts.Navigator, log.Named("profile"))
	adapter.UseProfiles(users)
	adapter.UseObserver(prof)

	return &App{
		Config:   cfg,
		Log:      log,
		Printer:  pr,
		Notifier: n,
		Registry: reg,
		Identity: adapter,
		Gateway:  gw,
		Users:    users,
		Cars:     api.NewCars(gw),
		Health:   api.NewHealth(gw),
		Profile:  prof,
		Forms:    form.NewSubmitter(n, pr, log.Named("form")),
	}, nil
}

// Start restores the persisted session and starts profile synchronization.
// A session that cannot be restored is discarded and the app starts signed out.
func (a *App) Start(ctx context.Context) error {
	if a.cancel != nil {
		return errors.New("app already started")
	}
	if err := a.Identity.Restore(ctx); err != nil {
		a.Log.Warn("stored session discarded", zap.Error(err))
	}
	sub, err := a.Identity.Subscribe()
	if err != nil {
		return fmt.Errorf("subscribe to session: %w", err)
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a.cancel = cancel
	a.done = make(chan error, 1)
	go func() { a.done <- a.Profile.Run(runCtx, sub) }()
	return nil
}

// Close stops synchronization and releases the adapter. It is safe to call
// without Start.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
		if err := <-a.done; err != nil && !errors.Is(err, context.Canceled) {
			a.Log.Warn("profile sync stopped", zap.Error(err))
		}
		a.cancel = nil
	}
	a.Identity.Close()
	_ = a.Log.Sync()
}
