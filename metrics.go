package kmviz

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see server.PrometheusCollector).
type MetricsCollector interface {
	// RecordInitialize is called after each centroid initialization.
	RecordInitialize(method string, duration time.Duration, err error)

	// RecordStep is called after each single step.
	RecordStep(duration time.Duration, converged bool, err error)

	// RecordRun is called after each run to convergence.
	// iterations is the number of steps performed.
	RecordRun(iterations int, converged bool, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInitialize(string, time.Duration, error) {}
func (NoopMetricsCollector) RecordStep(time.Duration, bool, error)         {}
func (NoopMetricsCollector) RecordRun(int, bool, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	InitializeCount  atomic.Int64
	InitializeErrors atomic.Int64
	StepCount        atomic.Int64
	StepErrors       atomic.Int64
	StepConverged    atomic.Int64
	RunCount         atomic.Int64
	RunErrors        atomic.Int64
	RunConverged     atomic.Int64
	RunIterations    atomic.Int64
	RunTotalNanos    atomic.Int64
}

// RecordInitialize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInitialize(_ string, _ time.Duration, err error) {
	b.InitializeCount.Add(1)
	if err != nil {
		b.InitializeErrors.Add(1)
	}
}

// RecordStep implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStep(_ time.Duration, converged bool, err error) {
	b.StepCount.Add(1)
	if err != nil {
		b.StepErrors.Add(1)
		return
	}
	if converged {
		b.StepConverged.Add(1)
	}
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(iterations int, converged bool, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
		return
	}
	b.RunIterations.Add(int64(iterations))
	if converged {
		b.RunConverged.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InitializeCount:  b.InitializeCount.Load(),
		InitializeErrors: b.InitializeErrors.Load(),
		StepCount:        b.StepCount.Load(),
		StepErrors:       b.StepErrors.Load(),
		StepConverged:    b.StepConverged.Load(),
		RunCount:         b.RunCount.Load(),
		RunErrors:        b.RunErrors.Load(),
		RunConverged:     b.RunConverged.Load(),
		RunIterations:    b.RunIterations.Load(),
		RunAvgNanos:      b.getAvgRunNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgRunNanos() int64 {
	count := b.RunCount.Load()
	if count == 0 {
		return 0
	}
	return b.RunTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InitializeCount  int64
	InitializeErrors int64
	StepCount        int64
	StepErrors       int64
	StepConverged    int64
	RunCount         int64
	RunErrors        int64
	RunConverged     int64
	RunIterations    int64
	RunAvgNanos      int64
}
