// Package kmviz provides a stateless k-means engine for interactive,
// step-through exploration of 2-D clustering.
//
// The engine never keeps a run in memory. A caller initializes centroids,
// then either hands the latest centroids and iteration count back on every
// Step call, or asks Run to iterate to convergence in one call. Identical
// inputs (including the random seed) always produce identical outputs.
//
// # Quick Start
//
//	eng, _ := kmviz.New(kmviz.WithSeed(42))
//	ctx := context.Background()
//
//	data := model.Dataset{{10, 10}, {10, 20}, {90, 90}, {90, 80}}
//	centroids, _ := eng.Initialize(ctx, data, 2, model.FarthestFirst())
//
//	res, _ := eng.Step(ctx, data, centroids, 2, 0)
//	for !res.Converged {
//	    res, _ = eng.Step(ctx, data, res.Centroids, 2, res.Iteration)
//	}
//
// Run to convergence in one call:
//
//	res, _ := eng.Run(ctx, data, 2, model.Random())
//
// Best of several randomized runs (lowest inertia wins):
//
//	res, _ := eng.RunBest(ctx, data, 3, model.FarthestFirst(), kmviz.WithCallRestarts(10))
//
// # Initialization
//
//   - model.Random(): k distinct dataset points, uniformly
//   - model.FarthestFirst(): k-means++ style D² seeding
//   - model.Manual(seeds): the caller's seeds verbatim (exactly k required)
//
// # Sessions
//
// When the caller wants the engine to track a run, NewSession returns a
// session.Session that owns the centroids, labels and iteration count and
// enforces the Uninitialized → Initialized → Iterating → Converged /
// IterationLimitReached lifecycle.
//
// # Errors
//
//   - ErrInvalidArgument: bad k, empty dataset, coordinates outside [0, 100], length mismatch
//   - ErrInvalidSeedCount: manual seeds with len != k (also ErrInvalidArgument)
//   - ErrInsufficientData / ErrInsufficientPoints: fewer points than clusters
//   - ErrInvalidTransition: session operation not allowed in its state
//
// Empty clusters are not errors: their centroid keeps its previous position.
// Hitting the iteration cap is not an error either: Converged is false.
package kmviz
