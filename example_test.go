package kmviz_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/kmviz"
	"github.com/hupe1980/kmviz/model"
)

// Example_stepThrough demonstrates driving the engine one iteration at a time.
func Example_stepThrough() {
	ctx := context.Background()
	eng, err := kmviz.New()
	if err != nil {
		log.Fatal(err)
	}

	data := model.Dataset{{10, 10}, {10, 20}, {90, 90}, {90, 80}}
	centroids, err := eng.Initialize(ctx, data, 2, model.Manual(model.CentroidSet{{10, 10}, {90, 90}}))
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Step(ctx, data, centroids, 2, 0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Iteration, res.Labels, res.Centroids, res.Converged)

	// The caller carries centroids and iteration count into the next call.
	res, err = eng.Step(ctx, data, res.Centroids, 2, res.Iteration)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Iteration, res.Labels, res.Centroids, res.Converged)
	// Output:
	// 1 [0 0 1 1] [(10, 15) (90, 85)] false
	// 2 [0 0 1 1] [(10, 15) (90, 85)] true
}

// Example_run demonstrates running to convergence in one call.
func Example_run() {
	eng, err := kmviz.New(kmviz.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}

	data := model.Dataset{{10, 10}, {10, 20}, {90, 90}, {90, 80}}
	res, err := eng.Run(context.Background(), data, 2, model.FarthestFirst())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("converged:", res.Converged, "clusters:", len(res.Centroids))
	// Output: converged: true clusters: 2
}

// Example_session demonstrates the session lifecycle.
func Example_session() {
	eng, err := kmviz.New()
	if err != nil {
		log.Fatal(err)
	}

	data := model.Dataset{{10, 10}, {10, 20}, {90, 90}, {90, 80}}
	s, err := eng.NewSession(data, 2, model.Manual(model.CentroidSet{{10, 10}, {90, 90}}))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(s.State())
	if _, err := s.Initialize(); err != nil {
		log.Fatal(err)
	}
	fmt.Println(s.State())
	for !s.State().Terminal() {
		if _, err := s.Step(); err != nil {
			log.Fatal(err)
		}
		fmt.Println(s.State())
	}
	// Output:
	// uninitialized
	// initialized
	// iterating
	// converged
}
