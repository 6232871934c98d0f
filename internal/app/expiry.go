package app

import (
	"context"
	"time"

	"github.com/yotip/homestead/internal/profile"
)

const defaultExpiryInterval = time.Second

// Expirer archives overdue tasks; *engine.Engine implements it.
type Expirer interface {
	ExpireOverdue() []profile.Task
}

// StartExpiry launches a background goroutine that checks deadlines at a
// fixed cadence until ctx is cancelled. It returns immediately. A context
// that is already cancelled runs no pass at all.
func StartExpiry(ctx context.Context, e Expirer, interval time.Duration) {
	if interval <= 0 {
		interval = defaultExpiryInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if ctx.Err() != nil {
				return
			}
			e.ExpireOverdue()
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
