// Package testutil provides testing utilities for kmviz.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random source and helpers for generating point
// sets with a known cluster structure.
//
// # Random Point Generation
//
//	rng := testutil.NewRNG(seed)
//	data := rng.UniformPoints(100)              // uniform over [0, 100]^2
//	data, truth := rng.ClusteredPoints(c, 50, 4) // gaussian blobs around c
//
// # Clustering Quality
//
//	purity := testutil.Purity(labels, truth, k)
package testutil
