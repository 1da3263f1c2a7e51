package throttle

import (
	"context"
	"log/slog"
	"time"
)

// Run sweeps expired blocks on a fixed period until the context is cancelled
// or Stop is called. Meant to be started once, as a goroutine owned by main.
func (g *Guard) Run(ctx context.Context, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	ticker := time.NewTicker(g.cfg.SweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.Sweep(time.Now())
		case <-g.stopCh:
			logger.Info("throttle sweeper stopped")
			return
		case <-ctx.Done():
			logger.Info("throttle sweeper context cancelled")
			return
		}
	}
}

// Stop signals Run to return.
func (g *Guard) Stop() {
	close(g.stopCh)
}
