package core

import (
	"errors"
	"html/template"
	"log/slog"
	"sort"

	"github.com/ayomtuase/julieth/cache"
	"github.com/ayomtuase/julieth/config"
	"github.com/ayomtuase/julieth/flow"
	"github.com/ayomtuase/julieth/identity"
	"github.com/ayomtuase/julieth/router"
	"github.com/ayomtuase/julieth/session"
)

// App is the application wide context: the long lived objects the handlers
// and middlewares need. All handlers have App as receiver.
type App struct {
	router         router.Router
	params         router.ParamGeter
	cache          cache.Cache[string, any]
	configProvider *config.Provider
	logger         *slog.Logger

	provider    identity.Provider
	federations map[string]identity.Federation
	profiles    flow.ProfileWriter

	hub       *session.Hub
	cookies   *session.Cookies
	flow      *flow.Flow
	forms     *flow.Registry
	pages     *template.Template
	validator Validator
}

// NewApp applies opts and builds the session and flow components from them.
func NewApp(opts ...Option) (*App, error) {
	a := &App{federations: map[string]identity.Federation{}}
	for _, opt := range opts {
		opt(a)
	}

	switch {
	case a.configProvider == nil:
		return nil, errors.New("core: config provider is required (use WithConfigProvider)")
	case a.logger == nil:
		return nil, errors.New("core: logger is required (use WithLogger)")
	case a.cache == nil:
		return nil, errors.New("core: cache is required (use WithCache)")
	case a.provider == nil:
		return nil, errors.New("core: identity provider is required (use WithIdentityProvider)")
	case a.profiles == nil:
		return nil, errors.New("core: profile writer is required (use WithProfileWriter)")
	case a.router == nil || a.params == nil:
		return nil, errors.New("core: router is required (use WithRouter)")
	}

	cfg := a.Config()
	if a.hub == nil {
		a.hub = session.NewHub(cfg.Session.Lifetime.Duration)
	}
	a.cookies = session.NewCookies(cfg.Session.CookieName,
		[]byte(cfg.Session.HashKey), []byte(cfg.Session.BlockKey),
		cfg.Session.Secure, cfg.Session.Lifetime.Duration)
	a.flow = flow.New(a.provider, a.profiles, a.logger)
	a.forms = flow.NewRegistry(cfg.Forms.TTL.Duration)
	if a.validator == nil {
		a.validator = NewValidator()
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	a.pages = pages
	return a, nil
}

func (a *App) Router() router.Router {
	return a.router
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) Cache() cache.Cache[string, any] {
	return a.cache
}

func (a *App) Config() *config.Config {
	return a.configProvider.Get()
}

// Hub is the process wide session state.
func (a *App) Hub() *session.Hub {
	return a.hub
}

func (a *App) Forms() *flow.Registry {
	return a.forms
}

func (a *App) Validator() Validator {
	return a.validator
}

// Federation returns the consent flow registered under name.
func (a *App) Federation(name string) (identity.Federation, bool) {
	f, ok := a.federations[name]
	return f, ok
}

// FederationNames lists the registered federations, sorted.
func (a *App) FederationNames() []string {
	names := make([]string, 0, len(a.federations))
	for name := range a.federations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
