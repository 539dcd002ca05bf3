package resource

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var (
	// ErrPointBudgetExceeded is returned when admitting a dataset would exceed the point budget.
	ErrPointBudgetExceeded = errors.New("point budget exceeded")

	// ErrRateLimited is returned when the request rate limit is exhausted.
	ErrRateLimited = errors.New("rate limited")

	// ErrBusy is returned when every run slot is taken.
	ErrBusy = errors.New("all run slots busy")
)

// Config holds admission limits.
type Config struct {
	// PointBudget bounds the number of dataset points being clustered at once.
	// If 0, no hard limit is enforced (only tracking).
	PointBudget int64

	// MaxConcurrentRuns is the maximum number of full runs in flight.
	// If 0, defaults to 1.
	MaxConcurrentRuns int64

	// RequestsPerSecond is the sustained request rate. If 0, unlimited.
	RequestsPerSecond float64

	// Burst is the token bucket size. If 0, defaults to max(1, RequestsPerSecond).
	Burst int
}

// Controller admits clustering work.
type Controller struct {
	cfg Config

	// Points
	pointSem   *semaphore.Weighted // nil if unlimited
	pointsUsed atomic.Int64

	// Runs
	runSem *semaphore.Weighted

	// Requests
	limiter *rate.Limiter
}

// NewController creates a new admission controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentRuns <= 0 {
		cfg.MaxConcurrentRuns = 1
	}

	c := &Controller{
		cfg:    cfg,
		runSem: semaphore.NewWeighted(cfg.MaxConcurrentRuns),
	}

	if cfg.PointBudget > 0 {
		c.pointSem = semaphore.NewWeighted(cfg.PointBudget)
	}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = max(1, int(cfg.RequestsPerSecond))
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return c
}

// AcquirePoints reserves budget for n points.
// Non-blocking: returns ErrPointBudgetExceeded if the budget would be exceeded.
func (c *Controller) AcquirePoints(n int64) error {
	if c == nil {
		return nil
	}
	if n <= 0 {
		return nil
	}

	if c.pointSem != nil {
		if !c.pointSem.TryAcquire(n) {
			return ErrPointBudgetExceeded
		}
	}

	c.pointsUsed.Add(n)
	return nil
}

// ReleasePoints returns budget for n points.
func (c *Controller) ReleasePoints(n int64) {
	if c == nil {
		return
	}
	if n <= 0 {
		return
	}

	if c.pointSem != nil {
		c.pointSem.Release(n)
	}
	c.pointsUsed.Add(-n)
}

// PointsInFlight returns the number of points currently admitted.
func (c *Controller) PointsInFlight() int64 {
	if c == nil {
		return 0
	}
	return c.pointsUsed.Load()
}

// PointBudget returns the configured point budget (0 if unlimited).
func (c *Controller) PointBudget() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.PointBudget
}

// AcquireRun reserves a run slot, blocking until one is free or ctx is done.
func (c *Controller) AcquireRun(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.runSem.Acquire(ctx, 1)
}

// TryAcquireRun reserves a run slot without blocking.
func (c *Controller) TryAcquireRun() bool {
	if c == nil {
		return true
	}
	return c.runSem.TryAcquire(1)
}

// ReleaseRun releases a run slot.
func (c *Controller) ReleaseRun() {
	if c == nil {
		return
	}
	c.runSem.Release(1)
}

// Allow reports whether a request may proceed now.
func (c *Controller) Allow() bool {
	if c == nil || c.limiter == nil {
		return true
	}
	return c.limiter.AllowN(time.Now(), 1)
}

// Wait blocks until a request may proceed or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	if c == nil || c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// Admit reserves a run slot and n points. When ctx carries a deadline it
// waits for a slot until then; otherwise it fails fast with ErrBusy.
// The returned release func is idempotent.
func (c *Controller) Admit(ctx context.Context, n int64) (release func(), err error) {
	if _, ok := ctx.Deadline(); ok {
		if err := c.AcquireRun(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBusy, err)
		}
	} else if !c.TryAcquireRun() {
		return nil, ErrBusy
	}
	if err := c.AcquirePoints(n); err != nil {
		c.ReleaseRun()
		return nil, err
	}

	var once atomic.Bool
	return func() {
		if once.CompareAndSwap(false, true) {
			c.ReleasePoints(n)
			c.ReleaseRun()
		}
	}, nil
}

// Throttle applies the request rate limit. When ctx carries a deadline it
// waits for a token until then; otherwise it fails fast with ErrRateLimited.
func (c *Controller) Throttle(ctx context.Context) error {
	if _, ok := ctx.Deadline(); ok {
		if err := c.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return nil
	}
	if !c.Allow() {
		return ErrRateLimited
	}
	return nil
}
