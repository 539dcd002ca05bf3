// Package resource implements admission control for clustering work.
//
// The Controller bounds three things:
//
//   - Points: total dataset points being clustered at once (non-blocking, fail-fast)
//   - Runs: concurrent full runs (weighted semaphore)
//   - Requests: sustained request rate (token bucket)
//
// # Architecture
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                        Controller                           │
//	├─────────────────┬─────────────────┬─────────────────────────┤
//	│  Point Budget   │  Run Slots      │  Request Rate           │
//	│  (fail-fast)    │  (sem)          │  (token bucket)         │
//	├─────────────────┼─────────────────┼─────────────────────────┤
//	│  AcquirePoints  │  AcquireRun     │  Allow                  │
//	│  ReleasePoints  │  TryAcquireRun  │  Wait                   │
//	│  PointsInFlight │  ReleaseRun     │                         │
//	└─────────────────┴─────────────────┴─────────────────────────┘
//
// Throttle and Admit fail fast, or wait until the deadline when ctx has one:
//
//	if err := rc.Throttle(ctx); err != nil {
//	    return err // ErrRateLimited
//	}
//	release, err := rc.Admit(ctx, int64(len(points)))
//	if err != nil {
//	    // ErrBusy or ErrPointBudgetExceeded
//	}
//	defer release()
//
// A nil *Controller admits everything.
package resource
