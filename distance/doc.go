// Package distance provides distance calculations between 2-D points.
//
// # Functions
//
//   - SquaredL2: squared Euclidean distance, used for assignment and seeding
//   - L2: Euclidean distance, used for centroid displacement
//   - Nearest: closest centroid with lowest-index tie-break
//
// # Usage
//
//	d := distance.SquaredL2(a, b)
//	idx, d2 := distance.Nearest(p, centroids)
package distance
