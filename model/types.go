package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

const (
	// DomainMin is the lower bound of every coordinate.
	DomainMin = 0.0
	// DomainMax is the upper bound of every coordinate.
	DomainMax = 100.0
)

// ErrInvalidPoint is returned when a JSON point is not exactly two numbers.
var ErrInvalidPoint = errors.New("invalid point")

// Point is an (x, y) pair. It marshals to JSON as [x, y].
type Point [2]float64

// UnmarshalJSON decodes [x, y]. Any other arity, a null point or a null
// coordinate is rejected instead of being padded or truncated.
func (p *Point) UnmarshalJSON(b []byte) error {
	var coords []*float64
	if err := json.Unmarshal(b, &coords); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	if coords == nil {
		return fmt.Errorf("%w: null", ErrInvalidPoint)
	}
	if len(coords) != 2 {
		return fmt.Errorf("%w: want 2 coordinates, got %d", ErrInvalidPoint, len(coords))
	}
	for i, c := range coords {
		if c == nil {
			return fmt.Errorf("%w: coordinate %d is null", ErrInvalidPoint, i)
		}
	}
	*p = Point{*coords[0], *coords[1]}
	return nil
}

// X returns the first coordinate.
func (p Point) X() float64 { return p[0] }

// Y returns the second coordinate.
func (p Point) Y() float64 { return p[1] }

// InDomain reports whether both coordinates are finite and within [DomainMin, DomainMax].
// NaN is never in the domain.
func (p Point) InDomain() bool {
	for _, c := range p {
		if !(c >= DomainMin && c <= DomainMax) {
			return false
		}
	}
	return true
}

// IsFinite reports whether neither coordinate is NaN or infinite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p[0]) && !math.IsInf(p[0], 0) && !math.IsNaN(p[1]) && !math.IsInf(p[1], 0)
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p[0], p[1])
}

// Dataset is the ordered point set being clustered.
// The engine never mutates it; label i always refers to Dataset[i].
type Dataset []Point

// Clone returns a copy of the dataset.
func (d Dataset) Clone() Dataset {
	return slices.Clone(d)
}

// OutOfDomain returns the index of the first point outside the coordinate domain, or -1.
func (d Dataset) OutOfDomain() int {
	for i, p := range d {
		if !p.InDomain() {
			return i
		}
	}
	return -1
}

// CentroidSet holds exactly k centroids. The index of a centroid is its cluster identity.
type CentroidSet []Point

// K returns the number of clusters.
func (c CentroidSet) K() int { return len(c) }

// Clone returns a copy of the centroid set.
func (c CentroidSet) Clone() CentroidSet {
	return slices.Clone(c)
}

// Labels assigns every dataset point (by position) to a centroid index in [0, k).
type Labels []int

// Clone returns a copy of the labels.
func (l Labels) Clone() Labels {
	return slices.Clone(l)
}

// Sizes returns the number of points assigned to each of the k clusters.
func (l Labels) Sizes(k int) []int {
	sizes := make([]int, k)
	for _, c := range l {
		if c >= 0 && c < k {
			sizes[c]++
		}
	}
	return sizes
}

// IterationResult is the outcome of a single assignment+update cycle, or of a full run.
type IterationResult struct {
	// Centroids after the update step.
	Centroids CentroidSet
	// Labels from the assignment step that produced Centroids.
	Labels Labels
	// Converged is true when no centroid moved more than the tolerance.
	Converged bool
	// Iteration is the number of the iteration that produced this result (1-based).
	Iteration int
	// Inertia is the sum of squared distances from each point to its assigned
	// centroid (measured against the centroids used for the assignment).
	Inertia float64
}

// InitMethod selects how initial centroids are produced.
type InitMethod int

const (
	// InitRandom samples k distinct dataset points uniformly.
	InitRandom InitMethod = iota
	// InitFarthestFirst is k-means++ style D² seeding.
	InitFarthestFirst
	// InitManual uses caller supplied seeds verbatim.
	InitManual
)

// String returns the wire name of the method.
func (m InitMethod) String() string {
	switch m {
	case InitRandom:
		return "random"
	case InitFarthestFirst:
		return "kmeans++"
	case InitManual:
		return "manual"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ParseInitMethod parses a wire name. "kmeans++", "k-means++" and
// "farthest_first" all select InitFarthestFirst.
func ParseInitMethod(s string) (InitMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "random":
		return InitRandom, nil
	case "kmeans++", "k-means++", "farthest_first", "farthest-first":
		return InitFarthestFirst, nil
	case "manual":
		return InitManual, nil
	default:
		return 0, fmt.Errorf("unknown init method %q", s)
	}
}

// Strategy is the tagged initialization variant. Seeds is only read for InitManual.
type Strategy struct {
	Method InitMethod
	Seeds  CentroidSet
}

// Random returns the uniform random strategy.
func Random() Strategy { return Strategy{Method: InitRandom} }

// FarthestFirst returns the k-means++ style strategy.
func FarthestFirst() Strategy { return Strategy{Method: InitFarthestFirst} }

// Manual returns a strategy that uses seeds as the initial centroids.
func Manual(seeds CentroidSet) Strategy {
	return Strategy{Method: InitManual, Seeds: seeds}
}

// String returns a string representation of the Strategy.
func (s Strategy) String() string {
	if s.Method == InitManual {
		return fmt.Sprintf("manual(%d seeds)", len(s.Seeds))
	}
	return s.Method.String()
}
