// Package session drives a single clustering run on behalf of a caller.
//
// The kmeans engine is stateless: it expects the caller to hand back the
// latest centroids and iteration count on every step. A Session is that
// caller. It owns the dataset, the current centroid set, the labels and the
// iteration counter, and enforces the run lifecycle:
//
//	Uninitialized --Initialize--> Initialized
//	Initialized|Iterating --Step (moved)--> Iterating
//	Initialized|Iterating --Step (still)--> Converged
//	Initialized|Iterating --Step (cap hit)--> IterationLimitReached
//	any --Reset--> Uninitialized
//
// Converged and IterationLimitReached are terminal; Initialize starts a fresh run.
package session
