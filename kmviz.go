package kmviz

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/kmviz/internal/kmeans"
	"github.com/hupe1980/kmviz/model"
	"github.com/hupe1980/kmviz/session"
	"golang.org/x/sync/errgroup"
)

// Engine is the entry point to the clustering engine.
//
// An Engine holds configuration only: every call is independent and may run
// concurrently with any other. Callers that step through a run carry the
// centroids and iteration count between calls (or use a Session).
type Engine struct {
	opts options
}

// New creates an Engine.
func New(optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)

	if !(o.tolerance > 0) {
		return nil, fmt.Errorf("%w: tolerance must be > 0, got %g", ErrInvalidArgument, o.tolerance)
	}
	if o.maxIterations < 1 {
		return nil, fmt.Errorf("%w: max iterations must be >= 1, got %d", ErrInvalidArgument, o.maxIterations)
	}
	if o.restarts < 1 {
		return nil, fmt.Errorf("%w: restarts must be >= 1, got %d", ErrInvalidArgument, o.restarts)
	}

	return &Engine{opts: o}, nil
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *Logger {
	return e.opts.logger
}

// Initialize produces k initial centroids for data.
func (e *Engine) Initialize(ctx context.Context, data model.Dataset, k int, strategy model.Strategy, optFns ...CallOption) (model.CentroidSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	co := e.callOptions(optFns)

	start := time.Now()
	centroids, err := kmeans.Initialize(data, k, strategy, co.src)
	err = translateError(err)

	e.opts.metricsCollector.RecordInitialize(strategy.Method.String(), time.Since(start), err)
	e.opts.logger.LogInitialize(ctx, strategy.Method.String(), k, len(data), err)

	return centroids, err
}

// Step performs one assignment+update cycle from centroids. iteration is the
// number of steps the caller has already performed; the result reports iteration+1.
func (e *Engine) Step(ctx context.Context, data model.Dataset, centroids model.CentroidSet, k, iteration int) (model.IterationResult, error) {
	if err := ctx.Err(); err != nil {
		return model.IterationResult{}, err
	}

	start := time.Now()
	res, err := kmeans.Step(data, centroids, k, iteration, e.opts.tolerance)
	err = translateError(err)

	e.opts.metricsCollector.RecordStep(time.Since(start), res.Converged, err)
	e.opts.logger.LogStep(ctx, iteration+1, res.Converged, err)

	return res, err
}

// Run initializes centroids with strategy and iterates until convergence or
// the iteration cap. A false Converged flag means the cap was reached.
func (e *Engine) Run(ctx context.Context, data model.Dataset, k int, strategy model.Strategy, optFns ...CallOption) (model.IterationResult, error) {
	if err := ctx.Err(); err != nil {
		return model.IterationResult{}, err
	}
	co := e.callOptions(optFns)

	start := time.Now()
	res, err := kmeans.Run(data, k, strategy, e.config(co), co.src)
	err = translateError(err)

	e.record(ctx, k, res, time.Since(start), err)

	return res, err
}

// RunFrom iterates from caller supplied centroids until convergence or the
// iteration cap. iteration is the number of steps already performed.
func (e *Engine) RunFrom(ctx context.Context, data model.Dataset, centroids model.CentroidSet, k, iteration int, optFns ...CallOption) (model.IterationResult, error) {
	if err := ctx.Err(); err != nil {
		return model.IterationResult{}, err
	}
	co := e.callOptions(optFns)

	start := time.Now()
	res, err := kmeans.RunFrom(data, centroids, k, iteration, e.config(co))
	err = translateError(err)

	e.record(ctx, k, res, time.Since(start), err)

	return res, err
}

// RunBest performs several independent runs and returns the one with the
// lowest inertia (earliest run wins ties). Randomized strategies use the
// configured restart count; manual seeding runs once.
//
// Restarts execute in parallel. Each one draws from its own source whose seed
// is taken from the call's source before any run starts, so the outcome does
// not depend on scheduling.
func (e *Engine) RunBest(ctx context.Context, data model.Dataset, k int, strategy model.Strategy, optFns ...CallOption) (model.IterationResult, error) {
	if err := ctx.Err(); err != nil {
		return model.IterationResult{}, err
	}
	co := e.callOptions(optFns)

	restarts := co.restarts
	if strategy.Method == model.InitManual {
		restarts = 1
	}
	if restarts < 1 {
		return model.IterationResult{}, fmt.Errorf("%w: restarts must be >= 1, got %d", ErrInvalidArgument, restarts)
	}

	rng := rand.New(co.src)
	seeds := make([][2]uint64, restarts)
	for i := range seeds {
		seeds[i] = [2]uint64{rng.Uint64(), rng.Uint64()}
	}

	cfg := e.config(co)
	results := make([]model.IterationResult, restarts)

	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range restarts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := kmeans.Run(data, k, strategy, cfg, rand.NewPCG(seeds[i][0], seeds[i][1]))
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		err = translateError(err)
		e.record(ctx, k, model.IterationResult{}, time.Since(start), err)
		return model.IterationResult{}, err
	}

	best := 0
	for i := 1; i < restarts; i++ {
		if results[i].Inertia < results[best].Inertia {
			best = i
		}
	}

	e.opts.logger.WithCount(restarts).DebugContext(ctx, "restarts completed", "best", best)
	e.record(ctx, k, results[best], time.Since(start), nil)

	return results[best], nil
}

// NewSession creates a Session that steps data using this engine's tolerance,
// iteration cap, randomness and logger.
func (e *Engine) NewSession(data model.Dataset, k int, strategy model.Strategy, optFns ...CallOption) (*session.Session, error) {
	co := e.callOptions(optFns)
	id := uuid.New()

	s, err := session.New(data, session.Config{
		K:             k,
		Strategy:      strategy,
		Tolerance:     e.opts.tolerance,
		MaxIterations: co.maxIterations,
		Source:        co.src,
		ID:            id,
		Logger:        e.opts.logger.WithSession(id.String()).WithK(k).Logger,
	})
	if err != nil {
		return nil, translateError(err)
	}

	return s, nil
}

func (e *Engine) config(co callOptions) kmeans.Config {
	return kmeans.Config{
		Tolerance:     e.opts.tolerance,
		MaxIterations: co.maxIterations,
	}
}

func (e *Engine) record(ctx context.Context, k int, res model.IterationResult, d time.Duration, err error) {
	e.opts.metricsCollector.RecordRun(res.Iteration, res.Converged, d, err)
	e.opts.logger.LogRun(ctx, k, res.Iteration, res.Converged, res.Inertia, err)
}
