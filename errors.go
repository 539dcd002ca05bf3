package kmviz

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kmviz/internal/kmeans"
	"github.com/hupe1980/kmviz/session"
)

var (
	// ErrInvalidArgument is returned when an input fails validation: k < 1, an empty
	// dataset, coordinates outside [0, 100], or a centroid set whose length is not k.
	ErrInvalidArgument = kmeans.ErrInvalidArgument

	// ErrInsufficientData is returned when random or farthest-first seeding is
	// asked for more clusters than there are points.
	ErrInsufficientData = kmeans.ErrInsufficientData

	// ErrInvalidTransition is returned by a Session operation that is not allowed
	// in its current state.
	ErrInvalidTransition = session.ErrInvalidTransition
)

// ErrInvalidSeedCount indicates a manual seed set whose length differs from k.
// It matches ErrInvalidArgument with errors.Is.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidSeedCount struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrInvalidSeedCount) Error() string {
	return fmt.Sprintf("invalid seed count: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrInvalidSeedCount) Unwrap() error { return e.cause }

// Is reports whether target is ErrInvalidArgument.
func (e *ErrInvalidSeedCount) Is(target error) bool { return target == ErrInvalidArgument }

// ErrInsufficientPoints indicates a dataset with fewer points than requested clusters.
// It matches ErrInsufficientData with errors.Is.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInsufficientPoints struct {
	Points int
	K      int
	cause  error
}

func (e *ErrInsufficientPoints) Error() string {
	return fmt.Sprintf("insufficient data: %d points for %d clusters", e.Points, e.K)
}

func (e *ErrInsufficientPoints) Unwrap() error { return e.cause }

// Is reports whether target is ErrInsufficientData.
func (e *ErrInsufficientPoints) Is(target error) bool { return target == ErrInsufficientData }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var sc *kmeans.ErrInvalidSeedCount
	if errors.As(err, &sc) {
		return &ErrInvalidSeedCount{Expected: sc.Expected, Actual: sc.Actual, cause: err}
	}
	var ip *kmeans.ErrInsufficientPoints
	if errors.As(err, &ip) {
		return &ErrInsufficientPoints{Points: ip.Points, K: ip.K, cause: err}
	}

	return err
}
