// Package distance provides point distance calculations for the clustering engine.
package distance

import (
	"math"

	"github.com/hupe1980/kmviz/model"
)

// SquaredL2 calculates the squared Euclidean distance between two points.
func SquaredL2(a, b model.Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx + dy*dy
}

// L2 calculates the Euclidean distance between two points.
func L2(a, b model.Point) float64 {
	return math.Sqrt(SquaredL2(a, b))
}

// Nearest returns the index of the centroid closest to p and its squared distance.
// Ties resolve to the lowest index. Returns -1 for an empty centroid set.
func Nearest(p model.Point, centroids []model.Point) (int, float64) {
	best := -1
	minDist := math.Inf(1)

	for j, c := range centroids {
		d := SquaredL2(p, c)
		// Strict comparison keeps the first (lowest) index on ties.
		if d < minDist {
			minDist = d
			best = j
		}
	}

	return best, minDist
}
