package kmeans

import (
	"github.com/hupe1980/kmviz/distance"
	"github.com/hupe1980/kmviz/model"
)

// Assign labels every point with the index of its nearest centroid.
// Equidistant centroids resolve to the lowest index.
func Assign(data model.Dataset, centroids model.CentroidSet) model.Labels {
	labels := make(model.Labels, len(data))
	for i, p := range data {
		labels[i], _ = distance.Nearest(p, centroids)
	}
	return labels
}

// Inertia returns the sum of squared distances from each point to the centroid it is labelled with.
func Inertia(data model.Dataset, centroids model.CentroidSet, labels model.Labels) float64 {
	var sum float64
	for i, p := range data {
		sum += distance.SquaredL2(p, centroids[labels[i]])
	}
	return sum
}
