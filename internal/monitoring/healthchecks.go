package monitoring

import (
	"context"
	"log/slog"
	"time"

	"github.com/spacesedan/sentimeter/internal/metrics"
)

const HEALTHCHECK_TIMER = 15

// CheckFunc reports a dependency as healthy by returning nil.
type CheckFunc func(ctx context.Context) error

type Check struct {
	Name string
	Run  CheckFunc
}

// MonitorHealth runs every check immediately and then every interval until ctx is done.
// Results are exported as the component_up gauge. Only transitions are logged.
func MonitorHealth(ctx context.Context, interval time.Duration, checks ...Check) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := make(map[string]bool, len(checks))
	runChecks(ctx, checks, last)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runChecks(ctx, checks, last)
		}
	}
}

func runChecks(ctx context.Context, checks []Check, last map[string]bool) {
	for _, check := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := check.Run(checkCtx)
		cancel()

		healthy := err == nil
		metrics.SetComponentUp(check.Name, healthy)

		previous, seen := last[check.Name]
		last[check.Name] = healthy
		if seen && previous == healthy {
			continue
		}
		if healthy {
			slog.Info("[HealthCheck] Component healthy", slog.String("component", check.Name))
		} else {
			slog.Warn("[HealthCheck] Component unhealthy",
				slog.String("component", check.Name),
				slog.String("error", err.Error()))
		}
	}
}

// ModelCheck adapts an availability flag to a CheckFunc.
func ModelCheck(available func() bool, unavailable error) CheckFunc {
	return func(context.Context) error {
		if available() {
			return nil
		}
		return unavailable
	}
}
