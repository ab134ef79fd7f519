package julieth

import (
	"io"
	"log/slog"
	"os"

	phuslog "github.com/phuslu/log"

	"github.com/ayomtuase/julieth/config"
	"github.com/ayomtuase/julieth/docstore"
	"github.com/ayomtuase/julieth/identity"
)

type Option func(*initializer)

// initializer collects what New builds unless an option already provided it.
type initializer struct {
	logger      *slog.Logger
	provider    identity.Provider
	store       docstore.Store
	federations []identity.Federation
	logOutput   io.Writer
}

// WithLogger replaces the logger built from the log section of the config.
func WithLogger(l *slog.Logger) Option {
	return func(i *initializer) {
		i.logger = l
	}
}

// WithIdentityProvider replaces the provider selected by identity.provider.
func WithIdentityProvider(p identity.Provider) Option {
	return func(i *initializer) {
		i.provider = p
	}
}

// WithStore replaces the document store selected by store.driver.
func WithStore(s docstore.Store) Option {
	return func(i *initializer) {
		i.store = s
	}
}

// WithFederation adds a consent flow next to the configured ones.
func WithFederation(f identity.Federation) Option {
	return func(i *initializer) {
		i.federations = append(i.federations, f)
	}
}

// WithLogOutput sets where the built logger writes, stderr by default.
func WithLogOutput(w io.Writer) Option {
	return func(i *initializer) {
		i.logOutput = w
	}
}

// LoggerOptions removes the time attribute, the collector adds its own.
func LoggerOptions(level slog.Leveler) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}
}

// NewLogger builds the logger of the log section: phuslu's JSON handler, or
// the standard text handler for local runs.
func NewLogger(cfg config.Log, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := LoggerOptions(cfg.Level.Level)
	if cfg.Format == config.LogFormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(phuslog.SlogNewJSONHandler(w, opts))
}
