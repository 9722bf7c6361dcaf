package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartSessionSweeper periodically deletes expired session rows until ctx is
// cancelled. The sweep is housekeeping only: expired sessions are already
// invisible to Validate, this just keeps the table from growing unbounded.
func StartSessionSweeper(ctx context.Context, sessions *SessionService, interval time.Duration, logger *zap.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				n, err := sessions.DeleteExpired(ctx)
				if err != nil {
					logger.Warn("session sweep failed", zap.Error(err))
					continue
				}
				if n > 0 {
					logger.Info("pruned expired sessions", zap.Int64("count", n))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
