package kmeans

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when an input fails validation
	// (bad k, empty dataset, coordinates outside the domain, length mismatch).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientData is returned when the dataset has fewer points than clusters.
	ErrInsufficientData = errors.New("insufficient data")
)

// ErrInvalidSeedCount indicates a manual seed set whose length is not k.
// It matches ErrInvalidArgument with errors.Is.
type ErrInvalidSeedCount struct {
	Expected int
	Actual   int
}

func (e *ErrInvalidSeedCount) Error() string {
	return fmt.Sprintf("invalid seed count: expected %d, got %d", e.Expected, e.Actual)
}

// Is reports whether target is ErrInvalidArgument.
func (e *ErrInvalidSeedCount) Is(target error) bool { return target == ErrInvalidArgument }

// ErrInsufficientPoints indicates a dataset smaller than the requested cluster count.
// It matches ErrInsufficientData with errors.Is.
type ErrInsufficientPoints struct {
	Points int
	K      int
}

func (e *ErrInsufficientPoints) Error() string {
	return fmt.Sprintf("insufficient data: %d points for %d clusters", e.Points, e.K)
}

// Is reports whether target is ErrInsufficientData.
func (e *ErrInsufficientPoints) Is(target error) bool { return target == ErrInsufficientData }

func invalidArgf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
