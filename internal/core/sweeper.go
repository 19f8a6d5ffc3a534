package core

// sweeper.go removes sessions nobody has touched for a while.
//
// The sweeper is long-running and stops when its context is cancelled. A
// session that is validating or submitting is never removed, however long it
// has been idle.

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSessionIdleTTL is how long an untouched session survives.
const DefaultSessionIdleTTL = 30 * time.Minute

// DefaultSweepInterval is how often the sweeper runs.
const DefaultSweepInterval = time.Minute

// StartSessionSweeper runs SweepIdleSessions every interval until ctx is
// cancelled.
func (s *Service) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	slog.Info("session sweeper started",
		"interval", interval.String(),
		"idle_ttl", s.cfg.SessionIdleTTL.String(),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case now := <-ticker.C:
			s.SweepIdleSessions(now)
		}
	}
}

// SweepIdleSessions drops every session idle for longer than the configured
// TTL as of now and returns how many were removed.
func (s *Service) SweepIdleSessions(now time.Time) int {
	start := time.Now()
	cutoff := now.Add(-s.cfg.SessionIdleTTL)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.busy() || sess.idleSince().After(cutoff) {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	remaining := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		slog.Info("idle sessions removed",
			"removed", removed,
			"remaining", remaining,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return removed
}
