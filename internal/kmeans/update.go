package kmeans

import (
	"github.com/hupe1980/kmviz/model"
)

// Update recomputes every centroid as the mean of the points labelled with its index.
//
// k is len(prev). A cluster that received no points keeps its previous
// position, so the result never contains NaN coordinates.
func Update(data model.Dataset, labels model.Labels, prev model.CentroidSet) model.CentroidSet {
	k := len(prev)
	sums := make([]model.Point, k)
	counts := make([]int, k)

	for i, p := range data {
		c := labels[i]
		sums[c][0] += p[0]
		sums[c][1] += p[1]
		counts[c]++
	}

	next := make(model.CentroidSet, k)
	for j := range k {
		if counts[j] == 0 {
			next[j] = prev[j]
			continue
		}
		n := float64(counts[j])
		next[j] = model.Point{sums[j][0] / n, sums[j][1] / n}
	}

	return next
}
