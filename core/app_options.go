package core

import (
	"log/slog"

	"github.com/ayomtuase/julieth/cache"
	"github.com/ayomtuase/julieth/config"
	"github.com/ayomtuase/julieth/flow"
	"github.com/ayomtuase/julieth/identity"
	"github.com/ayomtuase/julieth/router"
	"github.com/ayomtuase/julieth/session"
)

type Option func(*App)

// WithCache sets the cache used for the form registry and the ip block list.
func WithCache(c cache.Cache[string, any]) Option {
	return func(a *App) {
		a.cache = c
	}
}

// WithRouter sets the router and the reader of its path parameters.
func WithRouter(r router.Router, p router.ParamGeter) Option {
	return func(a *App) {
		a.router = r
		a.params = p
	}
}

// WithConfigProvider sets the application's configuration provider.
func WithConfigProvider(p *config.Provider) Option {
	return func(a *App) {
		a.configProvider = p
	}
}

// WithLogger sets the logger implementation
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

func WithIdentityProvider(p identity.Provider) Option {
	return func(a *App) {
		a.provider = p
	}
}

// WithFederation registers a consent flow under its name. Repeatable.
func WithFederation(f identity.Federation) Option {
	return func(a *App) {
		a.federations[f.Name()] = f
	}
}

func WithProfileWriter(w flow.ProfileWriter) Option {
	return func(a *App) {
		a.profiles = w
	}
}

// WithHub shares an existing session hub, mostly for tests.
func WithHub(h *session.Hub) Option {
	return func(a *App) {
		a.hub = h
	}
}

func WithValidator(v Validator) Option {
	return func(a *App) {
		a.validator = v
	}
}
