// Package julieth assembles the login, sign-up and dashboard service from its
// configuration.
package julieth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/ayomtuase/julieth/cache/ristretto"
	"github.com/ayomtuase/julieth/config"
	"github.com/ayomtuase/julieth/core"
	"github.com/ayomtuase/julieth/core/prerouter"
	"github.com/ayomtuase/julieth/identity"
	"github.com/ayomtuase/julieth/identity/google"
	"github.com/ayomtuase/julieth/identity/local"
	"github.com/ayomtuase/julieth/identity/toolkit"
	"github.com/ayomtuase/julieth/profile"
	"github.com/ayomtuase/julieth/router/httprouter"
	"github.com/ayomtuase/julieth/server"
	"github.com/ayomtuase/julieth/session"
)

// New loads the configuration at configPath and builds the App and the Server
// serving it. An empty path runs on the defaults and the environment. The
// stores are released when the server shuts down.
func New(ctx context.Context, configPath string, opts ...Option) (*core.App, *server.Server, error) {
	in := &initializer{}
	for _, opt := range opts {
		opt(in)
	}

	bootLogger := in.logger
	if bootLogger == nil {
		bootLogger = NewLogger(config.NewDefaultConfig().Log, in.logOutput)
	}
	cfg, err := config.Load(configPath, bootLogger)
	if err != nil {
		return nil, nil, err
	}
	configProvider := config.NewProvider(cfg)

	logger := in.logger
	if logger == nil {
		logger = NewLogger(cfg.Log, in.logOutput)
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// The sqlite pool is opened on first use: by the sqlite store or by the
	// local identity provider.
	var (
		pool     *sqlitex.Pool
		poolErr  error
		poolOnce sync.Once
	)
	sqlitePool := func() (*sqlitex.Pool, error) {
		poolOnce.Do(func() {
			pool, poolErr = NewZombiezenPool(ctx, cfg.Store.SqlitePath)
			if poolErr == nil {
				closers = append(closers, func() { _ = pool.Close() })
			}
		})
		return pool, poolErr
	}

	store := in.store
	if store == nil {
		s, closeStore, err := openStore(ctx, cfg.Store, sqlitePool)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("store %s: %w", cfg.Store.Driver, err)
		}
		closers = append(closers, closeStore)
		store = s
	}

	provider := in.provider
	if provider == nil {
		provider, err = newIdentityProvider(cfg, sqlitePool)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	federations, err := newFederations(ctx, cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	federations = append(federations, in.federations...)

	c, err := ristretto.New[any](cfg.Cache.Level)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, c.Close)

	rt := httprouter.New()
	rt.NotFound(http.HandlerFunc(core.NotFoundHandler))

	appOpts := []core.Option{
		core.WithConfigProvider(configProvider),
		core.WithLogger(logger),
		core.WithCache(c),
		core.WithRouter(rt, httprouter.NewParamGeter()),
		core.WithIdentityProvider(provider),
		core.WithProfileWriter(profile.NewWriter(store, logger)),
	}
	for _, f := range federations {
		appOpts = append(appOpts, core.WithFederation(f))
	}
	app, err := core.NewApp(appOpts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	route(app)

	reload := func() error {
		next, err := config.Load(cfg.Source, logger)
		if err != nil {
			return err
		}
		configProvider.Update(next)
		return nil
	}
	srv := server.NewServer(configProvider, Handler(app), logger, reload)
	srv.AddDaemon(session.NewSweeper(app.Hub(), cfg.Session.SweepInterval.Duration, logger, app.Forms()))
	srv.AddDaemon(&resources{release: cleanup})

	return app, srv, nil
}

// resources releases the stores once the server has drained.
type resources struct {
	release func()
}

func (r *resources) Name() string { return "resources" }

func (r *resources) Start() error { return nil }

func (r *resources) Stop(ctx context.Context) error {
	r.release()
	return nil
}

// Handler wraps the router of app with the middlewares that run on every
// request.
func Handler(app *core.App) http.Handler {
	var h http.Handler = app.Router()
	h = prerouter.NewTLSHeaderSTS(app).Execute(h)
	h = prerouter.NewRequestLog(app).Execute(h)
	return h
}

func newIdentityProvider(cfg *config.Config, sqlitePool func() (*sqlitex.Pool, error)) (identity.Provider, error) {
	switch cfg.Identity.Provider {
	case config.IdentityToolkit:
		return toolkit.New(cfg.Identity.ToolkitAPIKey,
			toolkit.WithEndpoint(cfg.Identity.ToolkitEndpoint),
			toolkit.WithHTTPClient(&http.Client{Timeout: cfg.Identity.RequestTimeout.Duration}),
			toolkit.WithRequestURI(cfg.Server.BaseURL()),
		)
	default:
		pool, err := sqlitePool()
		if err != nil {
			return nil, err
		}
		return local.New(pool, []byte(cfg.Identity.TokenSecret), cfg.Identity.TokenDuration.Duration)
	}
}

// newFederations builds the consent flows of the enabled oauth2 providers.
// Only google is known, other names are skipped.
func newFederations(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]identity.Federation, error) {
	var feds []identity.Federation
	for name, p := range cfg.OAuth2Providers {
		if !p.Enabled() {
			continue
		}
		if name != config.OAuth2ProviderGoogle {
			logger.Warn("oauth2: unsupported provider, skipped", "provider", name)
			continue
		}
		redirectURL := p.RedirectURL
		if redirectURL == "" {
			redirectURL = cfg.Server.BaseURL() + p.RedirectURLPath
		}
		g, err := google.New(ctx, google.Config{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RedirectURL:  redirectURL,
			Issuer:       p.Issuer,
			Scopes:       p.Scopes,
		})
		if err != nil {
			return nil, fmt.Errorf("oauth2 %s: %w", name, err)
		}
		feds = append(feds, g)
	}
	return feds, nil
}
