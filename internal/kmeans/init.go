package kmeans

import (
	"math/rand/v2"

	"github.com/hupe1980/kmviz/distance"
	"github.com/hupe1980/kmviz/model"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Initialize produces the initial centroid set for data according to strategy.
//
// Random and farthest-first seeding draw exclusively from src, which must be
// non-nil for those methods; manual seeding ignores it. The dataset is never modified.
func Initialize(data model.Dataset, k int, strategy model.Strategy, src rand.Source) (model.CentroidSet, error) {
	if err := validateInputs(data, k); err != nil {
		return nil, err
	}

	switch strategy.Method {
	case model.InitManual:
		return manualSeeds(strategy.Seeds, k)
	case model.InitRandom, model.InitFarthestFirst:
		if len(data) < k {
			return nil, &ErrInsufficientPoints{Points: len(data), K: k}
		}
		if src == nil {
			return nil, invalidArgf("%s initialization requires a random source", strategy.Method)
		}
		if strategy.Method == model.InitRandom {
			return randomSeeds(data, k, src), nil
		}
		return farthestFirstSeeds(data, k, src), nil
	default:
		return nil, invalidArgf("unknown init method %v", strategy.Method)
	}
}

func manualSeeds(seeds model.CentroidSet, k int) (model.CentroidSet, error) {
	if len(seeds) != k {
		return nil, &ErrInvalidSeedCount{Expected: k, Actual: len(seeds)}
	}
	for i, s := range seeds {
		if !s.InDomain() {
			return nil, invalidArgf("seed %d %v outside domain [%g, %g]", i, s, model.DomainMin, model.DomainMax)
		}
	}
	return seeds.Clone(), nil
}

// randomSeeds picks k distinct dataset indices uniformly.
func randomSeeds(data model.Dataset, k int, src rand.Source) model.CentroidSet {
	idx := make([]int, k)
	sampleuv.WithoutReplacement(idx, len(data), src)

	centroids := make(model.CentroidSet, k)
	for i, j := range idx {
		centroids[i] = data[j]
	}
	return centroids
}

// farthestFirstSeeds implements D² seeding: the first centroid is uniform,
// each following one is drawn with probability proportional to its squared
// distance to the nearest centroid chosen so far.
func farthestFirstSeeds(data model.Dataset, k int, src rand.Source) model.CentroidSet {
	n := len(data)
	rng := rand.New(src)

	centroids := make(model.CentroidSet, 0, k)
	chosen := make([]bool, n)

	first := rng.IntN(n)
	centroids = append(centroids, data[first])
	chosen[first] = true

	minDist := make([]float64, n)
	for i, p := range data {
		minDist[i] = distance.SquaredL2(p, data[first])
	}

	for len(centroids) < k {
		weights := make([]float64, n)
		for i := range data {
			if !chosen[i] {
				weights[i] = minDist[i]
			}
		}

		next, ok := sampleuv.NewWeighted(weights, src).Take()
		if !ok {
			// Every remaining point sits on a chosen centroid.
			next = uniformUnchosen(chosen, rng)
		}

		centroids = append(centroids, data[next])
		chosen[next] = true

		for i, p := range data {
			if d := distance.SquaredL2(p, data[next]); d < minDist[i] {
				minDist[i] = d
			}
		}
	}

	return centroids
}

func uniformUnchosen(chosen []bool, rng *rand.Rand) int {
	free := make([]int, 0, len(chosen))
	for i, c := range chosen {
		if !c {
			free = append(free, i)
		}
	}
	return free[rng.IntN(len(free))]
}
