// Package kmeans implements the stateless k-means engine behind kmviz.
//
// Every function is a pure computation over its arguments: the caller owns
// the dataset, the current centroid set and the iteration counter, and feeds
// them back in on the next call. Randomized initialization draws only from
// the rand.Source passed in, so a fixed source reproduces a fixed result.
//
// Building blocks:
//
//   - Initialize: random, farthest-first (k-means++ style) or manual seeding
//   - Assign: nearest centroid per point, lowest index wins ties
//   - Update: per-cluster mean, empty clusters keep their previous centroid
//   - HasConverged: every centroid moved less than the tolerance
//   - Step: Assign + Update + HasConverged
//   - Run / RunFrom: Step until convergence or the iteration cap
package kmeans
