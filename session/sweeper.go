package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sweepable drops state that outlived its lifetime and returns how much went.
type Sweepable interface {
	Sweep() int
}

// Sweeper sweeps the hub, so expired sessions get their subscribers told,
// and any other per-session state on a ticker. It is started and stopped with
// the server.
type Sweeper struct {
	interval time.Duration
	logger   *slog.Logger
	targets  []Sweepable

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(hub *Hub, interval time.Duration, logger *slog.Logger, more ...Sweepable) *Sweeper {
	return &Sweeper{
		interval: interval,
		logger:   logger,
		targets:  append([]Sweepable{hub}, more...),
	}
}

func (s *Sweeper) Name() string {
	return "session-sweeper"
}

func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
	s.logger.Debug("session: sweeper started", "interval", s.interval, "targets", len(s.targets))
	return nil
}

func (s *Sweeper) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	total := 0
	for _, t := range s.targets {
		total += t.Sweep()
	}
	if total > 0 {
		s.logger.Debug("session: swept", "count", total)
	}
}

func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
