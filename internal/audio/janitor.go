package audio

import (
	"context"
	"log/slog"
	"time"
)

const janitorInterval = time.Minute

// StartJanitor launches a background sweep deleting tracked artifacts
// older than maxAge. It covers artifacts whose retrieval, and with it
// the per-request delayed deletion, never happened. Stops when ctx is
// cancelled.
func StartJanitor(ctx context.Context, m *Manager, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()

		slog.Info("audio janitor started", "interval", janitorInterval.String(), "max_age", maxAge.String())
		for {
			select {
			case <-ctx.Done():
				slog.Info("audio janitor shutting down")
				return
			case <-ticker.C:
				sweep(m, maxAge)
			}
		}
	}()
}

func sweep(m *Manager, maxAge time.Duration) {
	for _, name := range m.olderThan(maxAge) {
		if m.DeleteNow(name) {
			slog.Info("removed stale audio artifact", "file", name)
		}
	}
}
