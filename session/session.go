package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"
	"github.com/hupe1980/kmviz/internal/kmeans"
	"github.com/hupe1980/kmviz/model"
)

// Config configures a Session.
type Config struct {
	// K is the number of clusters.
	K int
	// Strategy selects the initializer.
	Strategy model.Strategy
	// Tolerance is the convergence threshold. Zero means kmeans.DefaultTolerance.
	Tolerance float64
	// MaxIterations caps the run. Zero means kmeans.DefaultMaxIterations.
	MaxIterations int
	// Source feeds randomized initializers. Required for random and farthest-first.
	Source rand.Source
	// ID identifies the session. The zero value assigns a random id.
	ID uuid.UUID
	// Logger receives lifecycle events. Nil discards them. When ID is zero
	// the session adds its own session and k fields; otherwise the logger is
	// used as given.
	Logger *slog.Logger
}

// Snapshot is a copy of the session's observable state.
type Snapshot struct {
	ID         string
	State      State
	Centroids  model.CentroidSet
	Labels     model.Labels
	Iteration  int
	Inertia    float64
	Reassigned []uint32
}

// Session holds the caller-side state of one clustering run.
// It is safe for concurrent use; calls are serialized.
type Session struct {
	mu sync.Mutex

	id     uuid.UUID
	data   model.Dataset
	cfg    Config
	logger *slog.Logger

	state      State
	centroids  model.CentroidSet
	labels     model.Labels
	iteration  int
	inertia    float64
	reassigned *roaring.Bitmap
}

// New creates an Uninitialized session over a private copy of data.
func New(data model.Dataset, cfg Config) (*Session, error) {
	if cfg.K < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1, got %d", kmeans.ErrInvalidArgument, cfg.K)
	}
	if cfg.MaxIterations < 0 || cfg.Tolerance < 0 {
		return nil, fmt.Errorf("%w: max iterations and tolerance must not be negative", kmeans.ErrInvalidArgument)
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = kmeans.DefaultTolerance
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = kmeans.DefaultMaxIterations
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	id := cfg.ID
	if id == uuid.Nil {
		id = uuid.New()
		logger = logger.With("session", id.String(), "k", cfg.K)
	}

	return &Session{
		id:         id,
		data:       data.Clone(),
		cfg:        cfg,
		logger:     logger,
		state:      Uninitialized,
		reassigned: roaring.New(),
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id.String()
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Initialize seeds the centroids and starts a fresh run. Allowed in any state.
func (s *Session) Initialize() (model.CentroidSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	centroids, err := kmeans.Initialize(s.data, s.cfg.K, s.cfg.Strategy, s.cfg.Source)
	if err != nil {
		s.logger.Log(context.Background(), errorLevel(err), "initialize failed", "strategy", s.cfg.Strategy.String(), "error", err)
		return nil, err
	}

	s.centroids = centroids
	s.labels = nil
	s.iteration = 0
	s.inertia = 0
	s.reassigned.Clear()
	s.transition(Initialized)

	return centroids.Clone(), nil
}

// Step performs exactly one assignment+update cycle.
func (s *Session) Step() (model.IterationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CanStep() {
		return model.IterationResult{}, &ErrTransition{Op: "step", State: s.state}
	}

	res, err := kmeans.Step(s.data, s.centroids, s.cfg.K, s.iteration, s.cfg.Tolerance)
	if err != nil {
		s.logger.Log(context.Background(), errorLevel(err), "step failed", "iteration", s.iteration+1, "error", err)
		return model.IterationResult{}, err
	}

	s.apply(res)
	s.logger.Debug("step completed",
		"iteration", res.Iteration,
		"converged", res.Converged,
		"reassigned", s.reassigned.GetCardinality(),
	)

	return res, nil
}

// Run steps until the run reaches a terminal state.
func (s *Session) Run() (model.IterationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.CanStep() {
		return model.IterationResult{}, &ErrTransition{Op: "run", State: s.state}
	}

	cfg := kmeans.Config{Tolerance: s.cfg.Tolerance, MaxIterations: s.cfg.MaxIterations}
	res, err := kmeans.RunFrom(s.data, s.centroids, s.cfg.K, s.iteration, cfg)
	if err != nil {
		s.logger.Log(context.Background(), errorLevel(err), "run failed", "iteration", s.iteration, "error", err)
		return model.IterationResult{}, err
	}

	s.apply(res)
	s.logger.Info("run finished",
		"iterations", res.Iteration,
		"state", s.state.String(),
		"inertia", res.Inertia,
	)

	return res, nil
}

// Reset discards the run and returns to Uninitialized. The dataset is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.centroids = nil
	s.labels = nil
	s.iteration = 0
	s.inertia = 0
	s.reassigned.Clear()
	s.transition(Uninitialized)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		ID:         s.id.String(),
		State:      s.state,
		Centroids:  s.centroids.Clone(),
		Labels:     s.labels.Clone(),
		Iteration:  s.iteration,
		Inertia:    s.inertia,
		Reassigned: s.reassigned.ToArray(),
	}
}

func (s *Session) apply(res model.IterationResult) {
	s.reassigned = kmeans.Reassigned(s.labels, res.Labels)
	s.centroids = res.Centroids
	s.labels = res.Labels
	s.iteration = res.Iteration
	s.inertia = res.Inertia

	switch {
	case res.Converged:
		s.transition(Converged)
	case s.iteration >= s.cfg.MaxIterations:
		s.transition(IterationLimitReached)
	default:
		s.transition(Iterating)
	}
}

func (s *Session) transition(to State) {
	if s.state != to {
		s.logger.Debug("state changed", "from", s.state.String(), "to", to.String())
	}
	s.state = to
}

// errorLevel logs rejected input at warn and everything else at error.
func errorLevel(err error) slog.Level {
	if errors.Is(err, kmeans.ErrInvalidArgument) || errors.Is(err, kmeans.ErrInsufficientData) {
		return slog.LevelWarn
	}
	return slog.LevelError
}
