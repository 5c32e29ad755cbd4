package utils

import (
	"context"
	"time"
)

// CounterReconciler rewrites engagement counters that drifted from their backing rows.
type CounterReconciler interface {
	ReconcileCounters(ctx context.Context) (int64, error)
}

// StartCounterReconciler launches a background goroutine that periodically
// reconciles counters until ctx is cancelled. It is best-effort and logs failures.
func StartCounterReconciler(ctx context.Context, r CounterReconciler, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ReconcileOnce(ctx, r)
			}
		}
	}()
}

// ReconcileOnce runs one reconciliation pass and logs the outcome.
func ReconcileOnce(ctx context.Context, r CounterReconciler) int64 {
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	fixed, err := r.ReconcileCounters(runCtx)
	if err != nil {
		Sugar.Warnf("counter reconcile failed: %v", err)
		return fixed
	}
	if fixed > 0 {
		Sugar.Infof("counter reconcile corrected %d rows", fixed)
	}
	return fixed
}
