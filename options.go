package kmviz

import (
	"log/slog"
	"math/rand/v2"

	"github.com/hupe1980/kmviz/internal/kmeans"
)

// DefaultRestarts is the number of independent runs RunBest performs for
// randomized strategies.
const DefaultRestarts = 10

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	tolerance        float64
	maxIterations    int
	restarts         int
	sourceFactory    func() rand.Source
}

// Option configures Engine construction.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := kmviz.NewJSONLogger(slog.LevelInfo)
//	eng, _ := kmviz.New(kmviz.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &kmviz.BasicMetricsCollector{}
//	eng, _ := kmviz.New(kmviz.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithTolerance sets the centroid displacement below which a step counts as converged.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.tolerance = tol
	}
}

// WithMaxIterations sets the default iteration cap for runs.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithRestarts sets how many independent runs RunBest performs for randomized
// strategies. Manual seeding always uses a single run.
func WithRestarts(n int) Option {
	return func(o *options) {
		o.restarts = n
	}
}

// WithSeed makes every call draw from a PCG source seeded with seed, so
// identical calls produce identical results.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.sourceFactory = seededFactory(seed)
	}
}

// WithSourceFactory sets the function that supplies a fresh random source to each call.
func WithSourceFactory(fn func() rand.Source) Option {
	return func(o *options) {
		if fn != nil {
			o.sourceFactory = fn
		}
	}
}

// NewSource returns the PCG source the engine uses for seed. Anything seeded
// from a user-supplied value goes through here so a seed names one stream.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

func seededFactory(seed uint64) func() rand.Source {
	return func() rand.Source {
		return NewSource(seed)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		tolerance:        kmeans.DefaultTolerance,
		maxIterations:    kmeans.DefaultMaxIterations,
		restarts:         DefaultRestarts,
		sourceFactory: func() rand.Source {
			return rand.NewPCG(rand.Uint64(), rand.Uint64())
		},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

type callOptions struct {
	src           rand.Source
	maxIterations int
	restarts      int
}

// CallOption overrides engine defaults for a single call.
type CallOption func(*callOptions)

// WithCallSeed makes this call draw from a PCG source seeded with seed.
func WithCallSeed(seed uint64) CallOption {
	return func(o *callOptions) {
		o.src = seededFactory(seed)()
	}
}

// WithCallSource makes this call draw from src.
func WithCallSource(src rand.Source) CallOption {
	return func(o *callOptions) {
		o.src = src
	}
}

// WithCallMaxIterations overrides the iteration cap for this call.
func WithCallMaxIterations(n int) CallOption {
	return func(o *callOptions) {
		o.maxIterations = n
	}
}

// WithCallRestarts overrides the restart count for this RunBest call.
func WithCallRestarts(n int) CallOption {
	return func(o *callOptions) {
		o.restarts = n
	}
}

func (e *Engine) callOptions(optFns []CallOption) callOptions {
	co := callOptions{
		maxIterations: e.opts.maxIterations,
		restarts:      e.opts.restarts,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&co)
		}
	}
	if co.src == nil {
		co.src = e.opts.sourceFactory()
	}
	return co
}
