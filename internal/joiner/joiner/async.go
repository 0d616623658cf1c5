package joiner

import (
	"context"
	"log/slog"
	"time"

	"github.com/Vodeneev/statjoin/internal/pkg/sources"
)

// Start refreshes every configured sport on reconcile.refresh_interval until
// ctx is done. With no interval it only waits for ctx.
func (s *Service) Start(ctx context.Context) error {
	interval := s.cfg.Reconcile.RefreshInterval
	if interval <= 0 {
		slog.Info("joiner: background refresh disabled, running in on-demand mode")
		<-ctx.Done()
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s.asyncMu.Lock()
	s.asyncCancel = cancel
	s.asyncMu.Unlock()
	defer s.Stop()

	slog.Info("joiner: starting background refresh", "interval", interval, "sports", s.cfg.SportNames())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start
	s.refreshAll(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("joiner: stopping background refresh")
			return nil
		case <-ticker.C:
			s.refreshAll(ctx)
		}
	}
}

// Stop cancels a running Start loop.
func (s *Service) Stop() {
	s.asyncMu.Lock()
	defer s.asyncMu.Unlock()
	if s.asyncCancel != nil {
		s.asyncCancel()
		s.asyncCancel = nil
	}
}

func (s *Service) refreshAll(ctx context.Context) {
	for _, name := range s.cfg.SportNames() {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.Refresh(ctx, name, sources.Filter{}); err != nil {
			slog.Error("joiner: refresh failed", "sport", name, "error", err)
		}
	}
}
