package services

import (
	"context"
	"time"

	"mccb-go/internal/analytics"
	"mccb-go/internal/repository"

	"go.uber.org/zap"
)

// Snapshotter periodically flushes every live engine to the database: the
// derived session summaries on every sweep, and the record rows whenever the
// stored count has fallen behind the live collection. Record rows are
// normally written at import time; the sweep is what makes that write
// best-effort rather than lossy.
type Snapshotter struct {
	log      *zap.Logger
	engines  *analytics.Manager
	interval time.Duration
}

func NewSnapshotter(log *zap.Logger, engines *analytics.Manager, interval time.Duration) *Snapshotter {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Snapshotter{
		log:      log,
		engines:  engines,
		interval: interval,
	}
}

// Start runs the snapshot sweep in a goroutine until ctx is cancelled.
func (s *Snapshotter) Start(ctx context.Context) {
	s.log.Info("Starting snapshot service", zap.Duration("interval", s.interval))
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.log.Info("Snapshot service stopped")
				return
			case <-ticker.C:
				s.runSweep(ctx)
			}
		}
	}()
}

func (s *Snapshotter) runSweep(ctx context.Context) {
	userIDs := s.engines.UserIDs()
	s.log.Debug("Running snapshot sweep", zap.Int("engines", len(userIDs)))

	for _, userID := range userIDs {
		engine := s.engines.ForUser(userID)

		// A stored count behind the live collection means an import-time
		// write failed; rewrite the rows from the engine.
		records := engine.Records()
		stored, err := repository.CountRecords(ctx, userID)
		if err != nil {
			s.log.Error("Failed to count stored records",
				zap.Int("userID", userID),
				zap.Error(err))
		} else if stored < int64(len(records)) {
			s.log.Warn("Stored records behind live engine, resyncing",
				zap.Int("userID", userID),
				zap.Int64("stored", stored),
				zap.Int("live", len(records)))
			if err := repository.SyncRecords(ctx, userID, records); err != nil {
				s.log.Error("Failed to resync records",
					zap.Int("userID", userID),
					zap.Error(err))
			}
		}

		sessions := engine.CompleteSessions()
		if err := repository.ReplaceSessions(ctx, userID, sessions, analytics.SessionAverage); err != nil {
			s.log.Error("Failed to snapshot session summaries",
				zap.Int("userID", userID),
				zap.Error(err))
		}
	}
}
