package cron

import (
	"context"
	"time"
)

// Run drives detector on a ticker of period interval until ctx is
// cancelled. The first tick fires immediately rather than waiting a full
// interval, so a freshly started cron process doesn't sit idle.
func Run(ctx context.Context, detector *Detector, interval time.Duration) {
	detector.Tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			detector.Tick(ctx)
		case <-ctx.Done():
			return
		}
	}
}
