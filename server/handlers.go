package server

import (
	"fmt"
	"math/rand/v2"
	"net/http"

	"github.com/hupe1980/kmviz"
	"github.com/hupe1980/kmviz/dataset"
	"github.com/hupe1980/kmviz/internal/kmeans"
	"github.com/hupe1980/kmviz/model"
)

type initializeRequest struct {
	Data       model.Dataset     `json:"data"`
	NClusters  int               `json:"n_clusters"`
	InitMethod string            `json:"init_method"`
	Seeds      model.CentroidSet `json:"seeds,omitempty"`
	Seed       *uint64           `json:"seed,omitempty"`
}

func (q initializeRequest) strategy() (model.Strategy, error) {
	name := q.InitMethod
	if name == "" {
		name = model.InitRandom.String()
	}
	m, err := model.ParseInitMethod(name)
	if err != nil {
		return model.Strategy{}, fmt.Errorf("%w: %v", kmviz.ErrInvalidArgument, err)
	}
	if m == model.InitManual {
		return model.Manual(q.Seeds), nil
	}
	return model.Strategy{Method: m}, nil
}

func callOpts(seed *uint64) []kmviz.CallOption {
	if seed == nil {
		return nil
	}
	return []kmviz.CallOption{kmviz.WithCallSeed(*seed)}
}

type centersResponse struct {
	Centers model.CentroidSet `json:"centers"`
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) error {
	var req initializeRequest
	if err := s.decode(w, r, &req, false); err != nil {
		return err
	}

	strategy, err := req.strategy()
	if err != nil {
		return err
	}

	centers, err := s.engine.Initialize(r.Context(), req.Data, req.NClusters, strategy, callOpts(req.Seed)...)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, centersResponse{Centers: centers})
	return nil
}

type generateRequest struct {
	NPoints  *int     `json:"n_points,omitempty"`
	Shape    string   `json:"shape,omitempty"`
	Clusters *int     `json:"clusters,omitempty"`
	Spread   *float64 `json:"spread,omitempty"`
	Seed     *uint64  `json:"seed,omitempty"`
}

type generateResponse struct {
	Data model.Dataset `json:"data"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) error {
	var req generateRequest
	if err := s.decode(w, r, &req, true); err != nil {
		return err
	}

	cfg := s.datasetCfg
	if req.NPoints != nil {
		cfg.Points = *req.NPoints
	}
	if req.Shape != "" {
		shape, err := dataset.ParseShape(req.Shape)
		if err != nil {
			return err
		}
		cfg.Shape = shape
	}
	if req.Clusters != nil {
		cfg.Clusters = *req.Clusters
	}
	if req.Spread != nil {
		cfg.Spread = *req.Spread
	}

	var src rand.Source
	if req.Seed != nil {
		src = kmviz.NewSource(*req.Seed)
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	data, err := dataset.Generate(cfg, src)
	if err != nil {
		return err
	}

	s.logger.DebugContext(r.Context(), "dataset generated", "points", len(data), "shape", cfg.Shape.String())
	writeJSON(w, http.StatusOK, generateResponse{Data: data})
	return nil
}

type stepRequest struct {
	initializeRequest
	CurrentIter int               `json:"current_iter"`
	PrevCenters model.CentroidSet `json:"prev_centers,omitempty"`
	PrevLabels  model.Labels      `json:"prev_labels,omitempty"`
}

type stepResponse struct {
	Centers            model.CentroidSet `json:"centers"`
	Labels             model.Labels      `json:"labels"`
	ConvergenceReached bool              `json:"convergence_reached"`
	Iteration          int               `json:"iteration"`
	Inertia            float64           `json:"inertia"`
	Reassigned         []uint32          `json:"reassigned"`
}

// handleStep performs iteration current_iter. The first iteration may omit
// prev_centers, in which case centroids are initialized from the strategy.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) error {
	var req stepRequest
	if err := s.decode(w, r, &req, false); err != nil {
		return err
	}

	if req.CurrentIter < 1 {
		return fmt.Errorf("%w: current_iter must be >= 1, got %d", kmviz.ErrInvalidArgument, req.CurrentIter)
	}

	centers := req.PrevCenters
	if centers == nil {
		if req.CurrentIter > 1 {
			return fmt.Errorf("%w: prev_centers required when current_iter > 1", kmviz.ErrInvalidArgument)
		}
		strategy, err := req.strategy()
		if err != nil {
			return err
		}
		centers, err = s.engine.Initialize(r.Context(), req.Data, req.NClusters, strategy, callOpts(req.Seed)...)
		if err != nil {
			return err
		}
	}

	res, err := s.engine.Step(r.Context(), req.Data, centers, req.NClusters, req.CurrentIter-1)
	if err != nil {
		return err
	}

	reassigned := kmeans.Reassigned(req.PrevLabels, res.Labels).ToArray()
	if reassigned == nil {
		reassigned = []uint32{}
	}

	writeJSON(w, http.StatusOK, stepResponse{
		Centers:            res.Centroids,
		Labels:             res.Labels,
		ConvergenceReached: res.Converged,
		Iteration:          res.Iteration,
		Inertia:            res.Inertia,
		Reassigned:         reassigned,
	})
	return nil
}

type runRequest struct {
	Data       model.Dataset     `json:"data"`
	NClusters  int               `json:"n_clusters"`
	InitMethod string            `json:"init_method"`
	Centroids  model.CentroidSet `json:"centroids,omitempty"`
	MaxIter    *int              `json:"max_iter,omitempty"`
	Seed       *uint64           `json:"seed,omitempty"`
}

type runResponse struct {
	Centers    model.CentroidSet `json:"centers"`
	Labels     model.Labels      `json:"labels"`
	Converged  bool              `json:"converged"`
	Iterations int               `json:"iterations"`
	Inertia    float64           `json:"inertia"`
}

// handleRun runs to convergence. Supplying centroids selects manual seeding.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) error {
	var req runRequest
	if err := s.decode(w, r, &req, false); err != nil {
		return err
	}

	var strategy model.Strategy
	if req.Centroids != nil {
		strategy = model.Manual(req.Centroids)
	} else {
		var err error
		strategy, err = initializeRequest{InitMethod: req.InitMethod}.strategy()
		if err != nil {
			return err
		}
	}

	opts := callOpts(req.Seed)
	if req.MaxIter != nil {
		opts = append(opts, kmviz.WithCallMaxIterations(*req.MaxIter))
	}

	release, err := s.rc.Admit(r.Context(), int64(len(req.Data)))
	if err != nil {
		return err
	}
	defer release()

	res, err := s.engine.RunBest(r.Context(), req.Data, req.NClusters, strategy, opts...)
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, runResponse{
		Centers:    res.Centroids,
		Labels:     res.Labels,
		Converged:  res.Converged,
		Iterations: res.Iteration,
		Inertia:    res.Inertia,
	})
	return nil
}

type resetResponse struct {
	Status string `json:"status"`
}

// handleReset acknowledges a client reset. The server holds no run state.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) error {
	s.logger.DebugContext(r.Context(), "reset requested")
	writeJSON(w, http.StatusOK, resetResponse{Status: "Reset successful"})
	return nil
}
