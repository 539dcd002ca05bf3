// Package model defines the data types shared by the clustering engine and its clients.
//
// # Data Types
//
//   - Point: an (x, y) pair with coordinates in [0, 100]
//   - Dataset: the ordered point set, never mutated by the engine
//   - CentroidSet: exactly k points, index position is cluster identity
//   - Labels: per-point centroid index, aligned with Dataset
//   - IterationResult: centroids, labels, convergence flag and iteration number
//
// # Strategies
//
//	model.Random()
//	model.FarthestFirst()
//	model.Manual(model.CentroidSet{{10, 10}, {90, 90}})
package model
