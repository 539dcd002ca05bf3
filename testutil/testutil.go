package testutil

import (
	"math/rand/v2"
	"sync"

	"github.com/hupe1980/kmviz/model"
)

// RNG is a seeded, thread-safe random source. It implements rand.Source,
// so it can be handed to the engine directly.
type RNG struct {
	mu   sync.Mutex
	pcg  *rand.PCG
	rand *rand.Rand
	seed uint64
}

var _ rand.Source = (*RNG)(nil)

// NewRNG creates a new RNG with the specified seed.
func NewRNG(seed uint64) *RNG {
	pcg := rand.NewPCG(seed, seed)
	return &RNG{
		pcg:  pcg,
		rand: rand.New(pcg),
		seed: seed,
	}
}

// Reset rewinds the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pcg.Seed(r.seed, r.seed)
}

// Seed returns the seed.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// Uint64 implements rand.Source.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// IntN returns a value in [0, n).
func (r *RNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.IntN(n)
}

// UniformPoints returns n points drawn uniformly from the coordinate domain.
func (r *RNG) UniformPoints(n int) model.Dataset {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := model.DomainMax - model.DomainMin
	data := make(model.Dataset, n)
	for i := range data {
		data[i] = model.Point{
			model.DomainMin + r.rand.Float64()*span,
			model.DomainMin + r.rand.Float64()*span,
		}
	}
	return data
}

// ClusteredPoints returns perCluster gaussian points around each centre, in
// centre order, clamped to the domain. truth[i] is the centre index of point i.
func (r *RNG) ClusteredPoints(centres []model.Point, perCluster int, spread float64) (model.Dataset, model.Labels) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make(model.Dataset, 0, len(centres)*perCluster)
	truth := make(model.Labels, 0, cap(data))
	for c, centre := range centres {
		for range perCluster {
			data = append(data, model.Point{
				clamp(centre[0] + r.rand.NormFloat64()*spread),
				clamp(centre[1] + r.rand.NormFloat64()*spread),
			})
			truth = append(truth, c)
		}
	}
	return data, truth
}

func clamp(v float64) float64 {
	return max(model.DomainMin, min(model.DomainMax, v))
}

// Purity returns the fraction of points whose cluster's majority truth label
// matches their own. 1.0 means labels reproduce truth up to renumbering.
func Purity(labels, truth model.Labels, k int) float64 {
	if len(labels) == 0 || len(labels) != len(truth) {
		return 0
	}

	classes := 0
	for _, t := range truth {
		classes = max(classes, t+1)
	}

	counts := make([][]int, k)
	for j := range counts {
		counts[j] = make([]int, classes)
	}
	for i, l := range labels {
		if l >= 0 && l < k {
			counts[l][truth[i]]++
		}
	}

	hits := 0
	for _, row := range counts {
		best := 0
		for _, n := range row {
			best = max(best, n)
		}
		hits += best
	}
	return float64(hits) / float64(len(labels))
}
