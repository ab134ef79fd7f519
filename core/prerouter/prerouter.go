// Package prerouter holds the middlewares that run before routing.
package prerouter

import (
	"log/slog"

	"github.com/ayomtuase/julieth/cache"
	"github.com/ayomtuase/julieth/config"
)

// Env is the part of *core.App the middlewares read.
type Env interface {
	Config() *config.Config
	Logger() *slog.Logger
	Cache() cache.Cache[string, any]
}
