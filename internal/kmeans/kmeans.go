package kmeans

import (
	"math/rand/v2"

	"github.com/hupe1980/kmviz/model"
)

// DefaultMaxIterations caps Run when no explicit limit is configured.
const DefaultMaxIterations = 300

// Config holds the stopping rule for Run and RunFrom.
type Config struct {
	// Tolerance is the centroid displacement below which an iteration counts as converged.
	Tolerance float64
	// MaxIterations is the hard cap on the number of steps of a run.
	MaxIterations int
}

// DefaultConfig returns the default stopping rule.
func DefaultConfig() Config {
	return Config{
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

func (c Config) validate() error {
	if c.MaxIterations < 1 {
		return invalidArgf("max iterations must be >= 1, got %d", c.MaxIterations)
	}
	if c.Tolerance < 0 {
		return invalidArgf("tolerance must be >= 0, got %g", c.Tolerance)
	}
	return nil
}

// Step advances the clustering by one assignment+update cycle.
//
// iteration is the number of steps already performed; the result carries
// iteration+1. Step holds no state: identical arguments give identical results.
func Step(data model.Dataset, centroids model.CentroidSet, k, iteration int, tol float64) (model.IterationResult, error) {
	if err := validateInputs(data, k); err != nil {
		return model.IterationResult{}, err
	}
	if err := validateCentroids(centroids, k); err != nil {
		return model.IterationResult{}, err
	}
	if iteration < 0 {
		return model.IterationResult{}, invalidArgf("iteration must be >= 0, got %d", iteration)
	}

	return step(data, centroids, iteration, tol), nil
}

func step(data model.Dataset, centroids model.CentroidSet, iteration int, tol float64) model.IterationResult {
	labels := Assign(data, centroids)
	inertia := Inertia(data, centroids, labels)
	next := Update(data, labels, centroids)

	return model.IterationResult{
		Centroids: next,
		Labels:    labels,
		Converged: HasConverged(centroids, next, tol),
		Iteration: iteration + 1,
		Inertia:   inertia,
	}
}

// Run initializes centroids with strategy and steps until convergence or
// cfg.MaxIterations steps, whichever comes first. Converged is false in the
// result when the cap was hit.
func Run(data model.Dataset, k int, strategy model.Strategy, cfg Config, src rand.Source) (model.IterationResult, error) {
	if err := cfg.validate(); err != nil {
		return model.IterationResult{}, err
	}

	centroids, err := Initialize(data, k, strategy, src)
	if err != nil {
		return model.IterationResult{}, err
	}

	return RunFrom(data, centroids, k, 0, cfg)
}

// RunFrom continues a run from centroids after iteration steps have already
// been performed. It stops at convergence or once cfg.MaxIterations steps
// have been performed in total.
func RunFrom(data model.Dataset, centroids model.CentroidSet, k, iteration int, cfg Config) (model.IterationResult, error) {
	if err := cfg.validate(); err != nil {
		return model.IterationResult{}, err
	}
	if iteration < 0 || iteration >= cfg.MaxIterations {
		return model.IterationResult{}, invalidArgf("iteration %d outside [0, %d)", iteration, cfg.MaxIterations)
	}
	if err := validateInputs(data, k); err != nil {
		return model.IterationResult{}, err
	}
	if err := validateCentroids(centroids, k); err != nil {
		return model.IterationResult{}, err
	}

	res := model.IterationResult{Centroids: centroids, Iteration: iteration}
	for res.Iteration < cfg.MaxIterations {
		res = step(data, res.Centroids, res.Iteration, cfg.Tolerance)
		if res.Converged {
			break
		}
	}

	return res, nil
}
