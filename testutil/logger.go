// Package testutil has helpers shared by package tests.
package testutil

import (
	"io"
	"log/slog"
)

// MakeNoopLogger returns a logger that discards everything.
func MakeNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
