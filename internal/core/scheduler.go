package core

// scheduler.go runs background maintenance for import history.
//
// The pruner deletes history older than the retention window. It runs once on
// start and then every interval until the context is cancelled. Failures are
// logged and retried on the next tick; they never stop the application.

import (
	"context"
	"log/slog"
	"time"
)

// HistoryPruner is implemented by stores that can drop old history.
type HistoryPruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// PruneConfig holds settings for the history pruner.
type PruneConfig struct {
	Retention time.Duration // Age after which history is deleted; zero disables pruning
	Interval  time.Duration // How often to run (default: 24h)
}

// StartHistoryPruner blocks, pruning history on a schedule. It returns
// immediately when retention is disabled or the store cannot prune.
func (s *Service) StartHistoryPruner(ctx context.Context, cfg PruneConfig) {
	pruner, ok := s.store.(HistoryPruner)
	if !ok || cfg.Retention <= 0 {
		slog.Debug("history pruner disabled")
		return
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}

	slog.Info("history pruner started",
		"retention", cfg.Retention,
		"interval", cfg.Interval,
	)

	s.runPrune(ctx, pruner, cfg.Retention)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("history pruner stopped")
			return
		case <-ticker.C:
			s.runPrune(ctx, pruner, cfg.Retention)
		}
	}
}

// runPrune performs one prune cycle.
func (s *Service) runPrune(ctx context.Context, pruner HistoryPruner, retention time.Duration) {
	start := time.Now()
	cutoff := start.Add(-retention)

	deleted, err := pruner.Prune(ctx, cutoff)
	if err != nil {
		slog.Error("history prune failed", "error", err)
		return
	}

	slog.Info("pruned import history",
		"imports_deleted", deleted,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
