package kmeans

import (
	"github.com/hupe1980/kmviz/model"
)

func validateK(k int) error {
	if k < 1 {
		return invalidArgf("k must be >= 1, got %d", k)
	}
	return nil
}

func validateDataset(data model.Dataset) error {
	if len(data) == 0 {
		return invalidArgf("dataset is empty")
	}
	if i := data.OutOfDomain(); i >= 0 {
		return invalidArgf("point %d %v outside domain [%g, %g]", i, data[i], model.DomainMin, model.DomainMax)
	}
	return nil
}

func validateCentroids(centroids model.CentroidSet, k int) error {
	if len(centroids) != k {
		return invalidArgf("centroid count %d does not match k=%d", len(centroids), k)
	}
	for i, c := range centroids {
		if !c.InDomain() {
			return invalidArgf("centroid %d %v outside domain [%g, %g]", i, c, model.DomainMin, model.DomainMax)
		}
	}
	return nil
}

func validateInputs(data model.Dataset, k int) error {
	if err := validateK(k); err != nil {
		return err
	}
	return validateDataset(data)
}
