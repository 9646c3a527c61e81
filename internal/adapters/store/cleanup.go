// Package store provides the local key-value stores used for score history
package store

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const minCleanupInterval = time.Minute

type cleaner interface {
	Cleanup(ctx context.Context) error
}

func cleanupInterval(retention time.Duration) time.Duration {
	interval := retention / 4
	if interval < minCleanupInterval {
		interval = minCleanupInterval
	}
	return interval
}

// startCleanupTask runs Cleanup on every tick until stopCh is closed
func startCleanupTask(c cleaner, every time.Duration, stopCh <-chan struct{}, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				logger.Error("Failed to clean up store", zap.Error(err))
			}
		case <-stopCh:
			return
		}
	}
}
