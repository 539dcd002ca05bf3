// Package dataset generates synthetic 2-D point sets in the engine's coordinate domain.
package dataset

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/hupe1980/kmviz/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidConfig is returned for a generator configuration that cannot produce points.
var ErrInvalidConfig = errors.New("invalid dataset config")

// MaxPoints bounds a single generated dataset.
const MaxPoints = 100_000

// Shape selects the point distribution.
type Shape int

const (
	// Uniform spreads points evenly over [0, 100]^2.
	Uniform Shape = iota
	// Blobs draws points from gaussian clusters around random centres.
	Blobs
)

func (s Shape) String() string {
	switch s {
	case Uniform:
		return "uniform"
	case Blobs:
		return "blobs"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ParseShape parses a shape name. The empty string selects Uniform.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "uniform":
		return Uniform, nil
	case "blobs":
		return Blobs, nil
	default:
		return 0, fmt.Errorf("%w: unknown shape %q", ErrInvalidConfig, s)
	}
}

// Config describes a dataset to generate.
type Config struct {
	// Points is the number of points.
	Points int
	// Shape is the distribution.
	Shape Shape
	// Clusters is the number of blobs (Blobs only).
	Clusters int
	// Spread is the standard deviation of each blob (Blobs only).
	Spread float64
}

// DefaultConfig returns 100 uniform points.
func DefaultConfig() Config {
	return Config{
		Points:   100,
		Shape:    Uniform,
		Clusters: 3,
		Spread:   6,
	}
}

func (c Config) validate() error {
	if c.Points < 1 || c.Points > MaxPoints {
		return fmt.Errorf("%w: points must be in [1, %d], got %d", ErrInvalidConfig, MaxPoints, c.Points)
	}
	if c.Shape == Blobs {
		if c.Clusters < 1 {
			return fmt.Errorf("%w: clusters must be >= 1, got %d", ErrInvalidConfig, c.Clusters)
		}
		if !(c.Spread > 0) {
			return fmt.Errorf("%w: spread must be > 0, got %g", ErrInvalidConfig, c.Spread)
		}
	}
	return nil
}

// Generate draws a dataset from src. Every point lies within the model domain.
func Generate(cfg Config, src rand.Source) (model.Dataset, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: random source required", ErrInvalidConfig)
	}

	switch cfg.Shape {
	case Uniform:
		return uniform(cfg.Points, src), nil
	case Blobs:
		return blobs(cfg, src), nil
	default:
		return nil, fmt.Errorf("%w: unknown shape %v", ErrInvalidConfig, cfg.Shape)
	}
}

func uniform(n int, src rand.Source) model.Dataset {
	u := distuv.Uniform{Min: model.DomainMin, Max: model.DomainMax, Src: src}

	data := make(model.Dataset, n)
	for i := range data {
		data[i] = model.Point{u.Rand(), u.Rand()}
	}
	return data
}

func blobs(cfg Config, src rand.Source) model.Dataset {
	// Keep centres away from the border so blobs are not flattened by clamping.
	margin := min(2*cfg.Spread, (model.DomainMax-model.DomainMin)/4)
	centre := distuv.Uniform{Min: model.DomainMin + margin, Max: model.DomainMax - margin, Src: src}

	centres := make([]model.Point, cfg.Clusters)
	for i := range centres {
		centres[i] = model.Point{centre.Rand(), centre.Rand()}
	}

	data := make(model.Dataset, cfg.Points)
	for i := range data {
		c := centres[i%cfg.Clusters]
		x := distuv.Normal{Mu: c[0], Sigma: cfg.Spread, Src: src}
		y := distuv.Normal{Mu: c[1], Sigma: cfg.Spread, Src: src}
		data[i] = model.Point{clamp(x.Rand()), clamp(y.Rand())}
	}
	return data
}

func clamp(v float64) float64 {
	return max(model.DomainMin, min(model.DomainMax, v))
}

// Bounds returns the lower-left and upper-right corners of the dataset's bounding box.
func Bounds(data model.Dataset) (lo, hi model.Point, err error) {
	if len(data) == 0 {
		return lo, hi, fmt.Errorf("%w: empty dataset", ErrInvalidConfig)
	}

	xs := make([]float64, len(data))
	ys := make([]float64, len(data))
	for i, p := range data {
		xs[i], ys[i] = p[0], p[1]
	}

	lo = model.Point{floats.Min(xs), floats.Min(ys)}
	hi = model.Point{floats.Max(xs), floats.Max(ys)}
	return lo, hi, nil
}
