package kmeans

import (
	"github.com/hupe1980/kmviz/distance"
	"github.com/hupe1980/kmviz/model"
)

// DefaultTolerance is the maximum centroid displacement still counted as "no movement".
const DefaultTolerance = 1e-6

// HasConverged reports whether every centroid moved strictly less than tol.
// An empty old set (no previous iteration) is never converged, and neither is
// a pair of sets with different lengths. A non-positive tol requires exact equality.
func HasConverged(old, next model.CentroidSet, tol float64) bool {
	if len(old) == 0 || len(old) != len(next) {
		return false
	}

	for i := range old {
		d := distance.L2(old[i], next[i])
		if tol <= 0 {
			if d != 0 {
				return false
			}
			continue
		}
		if !(d < tol) {
			return false
		}
	}

	return true
}
