package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayomtuase/julieth/config"
	"golang.org/x/sync/errgroup"
)

// Daemon is a background component started with the server and stopped on
// shutdown, like the session sweeper.
type Daemon interface {
	Name() string
	Start() error
	Stop(ctx context.Context) error
}

type Server struct {
	configProvider *config.Provider
	handler        http.Handler
	logger         *slog.Logger
	reloadFunc     func() error
	daemons        []Daemon
	exitFunc       func(int)

	// listening is closed once the listener is bound. Addr is valid then.
	listening chan struct{}
	addr      net.Addr
}

// NewServer builds a server for handler. reloadFunc runs on SIGHUP.
func NewServer(provider *config.Provider, handler http.Handler, logger *slog.Logger, reloadFunc func() error) *Server {
	return &Server{
		configProvider: provider,
		handler:        handler,
		logger:         logger,
		reloadFunc:     reloadFunc,
		exitFunc:       os.Exit,
		listening:      make(chan struct{}),
	}
}

func (s *Server) AddDaemon(d Daemon) {
	s.daemons = append(s.daemons, d)
}

// Addr blocks until the server listens and returns its address.
func (s *Server) Addr() net.Addr {
	<-s.listening
	return s.addr
}

// Run starts the daemons and the HTTP server and blocks until SIGINT or
// SIGQUIT, then shuts everything down within the graceful timeout and exits.
func (s *Server) Run() {
	cfg := s.configProvider.Get().Server

	s.logger.Info("Server configuration",
		"addr", cfg.Addr,
		"tls", cfg.EnableTLS,
		"read_timeout", cfg.ReadTimeout,
		"read_header_timeout", cfg.ReadHeaderTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownGracefulTimeout,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadTimeout:       cfg.ReadTimeout.Duration,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout.Duration,
		WriteTimeout:      cfg.WriteTimeout.Duration,
		IdleTimeout:       cfg.IdleTimeout.Duration,
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals,
		syscall.SIGHUP,  // kill -SIGHUP XXXX
		syscall.SIGINT,  // kill -SIGINT XXXX or Ctrl+c
		syscall.SIGQUIT, // kill -SIGQUIT XXXX
	)
	defer signal.Stop(signals)

	started := make([]Daemon, 0, len(s.daemons))
	for _, d := range s.daemons {
		s.logger.Info("Starting daemon", "name", d.Name())
		if err := d.Start(); err != nil {
			s.logger.Error("Daemon start failed", "name", d.Name(), "err", err)
			s.stopDaemons(cfg, started)
			s.exitFunc(1)
			return
		}
		started = append(started, d)
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		s.logger.Error("Listen error", "addr", cfg.Addr, "err", err)
		s.stopDaemons(cfg, started)
		s.exitFunc(1)
		return
	}
	s.addr = ln.Addr()
	close(s.listening)

	serverError := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", "addr", s.addr.String())
		var err error
		if cfg.EnableTLS {
			err = srv.ServeTLS(ln, cfg.CertFile, cfg.KeyFile)
		} else {
			err = srv.Serve(ln)
		}
		if !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Serve error", "err", err)
			serverError <- err
		}
	}()

wait:
	for {
		select {
		case sig := <-signals:
			if sig == syscall.SIGHUP {
				s.logger.Info("Received SIGHUP - reloading configuration")
				if err := s.reloadFunc(); err != nil {
					s.logger.Error("Reload failed, keeping current configuration", "err", err)
				}
				continue
			}
			s.logger.Info("Received shutdown signal - gracefully shutting down", "signal", sig.String())
			break wait
		case err := <-serverError:
			s.logger.Error("Server error - initiating shutdown", "err", err)
			break wait
		}
	}

	gracefulCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownGracefulTimeout.Duration)
	defer cancelShutdown()

	// Daemons stop once the HTTP server has drained, the last requests may
	// still need them.
	s.logger.Info("Shutting down HTTP server")
	httpErr := srv.Shutdown(gracefulCtx)
	if httpErr != nil {
		s.logger.Error("HTTP server shutdown error", "err", httpErr)
	} else {
		s.logger.Info("HTTP server stopped gracefully")
	}

	shutdownGroup, _ := errgroup.WithContext(gracefulCtx)
	for _, d := range started {
		shutdownGroup.Go(func() error {
			return s.stopDaemon(gracefulCtx, d)
		})
	}

	if err := shutdownGroup.Wait(); err != nil || httpErr != nil {
		s.logger.Error("Error during shutdown", "err", errors.Join(httpErr, err))
		s.exitFunc(1)
		return
	}

	s.logger.Info("All systems stopped gracefully")
	s.exitFunc(0)
}

func (s *Server) stopDaemons(cfg config.Server, daemons []Daemon) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracefulTimeout.Duration)
	defer cancel()
	for _, d := range daemons {
		_ = s.stopDaemon(ctx, d)
	}
}

func (s *Server) stopDaemon(ctx context.Context, d Daemon) error {
	s.logger.Info("Stopping daemon", "name", d.Name())
	if err := d.Stop(ctx); err != nil {
		s.logger.Error("Daemon stop error", "name", d.Name(), "err", err)
		return fmt.Errorf("daemon %s: %w", d.Name(), err)
	}
	s.logger.Info("Daemon stopped", "name", d.Name())
	return nil
}
