package core

// scheduler.go runs the workspace janitor.
//
// Workspaces live only in memory. The janitor evicts those that have not
// been touched for the configured TTL, which bounds how long an abandoned
// upload's table stays resident. It is long-running and stops with its
// context.

import (
	"context"
	"log/slog"
	"time"
)

// JanitorConfig controls workspace eviction. Zero values fall back to defaults.
type JanitorConfig struct {
	Interval time.Duration // how often to sweep (default: 1m)
	TTL      time.Duration // idle time before eviction (default: 30m)
}

const (
	DefaultJanitorInterval = time.Minute
	DefaultWorkspaceTTL    = 30 * time.Minute
)

// StartJanitor evicts idle workspaces every Interval until ctx is cancelled.
func (s *Service) StartJanitor(ctx context.Context, cfg JanitorConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultJanitorInterval
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultWorkspaceTTL
	}

	slog.Info("workspace janitor started", "interval", cfg.Interval, "ttl", cfg.TTL)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("workspace janitor stopped")
			return
		case now := <-ticker.C:
			if n := s.Evict(now.Add(-cfg.TTL)); n > 0 {
				slog.Info("evicted idle workspaces", "count", n, "remaining", s.Len())
			}
		}
	}
}

// Evict removes workspaces last accessed before cutoff and returns how many
// were removed.
func (s *Service) Evict(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, ws := range s.workspaces {
		if ws.LastAccess().Before(cutoff) {
			delete(s.workspaces, id)
			n++
		}
	}
	return n
}
