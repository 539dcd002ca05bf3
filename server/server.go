package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/hupe1980/kmviz"
	"github.com/hupe1980/kmviz/dataset"
	"github.com/hupe1980/kmviz/internal/resource"
	"github.com/hupe1980/kmviz/session"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes = 8 << 20

// ErrBadRequest is returned for bodies that cannot be decoded.
var ErrBadRequest = errors.New("bad request")

// RejectionRecorder counts requests turned away by admission control.
type RejectionRecorder interface {
	RecordRejected(reason string)
}

type noopRejections struct{}

func (noopRejections) RecordRejected(string) {}

// Server exposes an Engine over HTTP/JSON. It keeps no clustering state
// between requests.
type Server struct {
	engine         *kmviz.Engine
	rc             *resource.Controller
	logger         *kmviz.Logger
	gatherer       prometheus.Gatherer
	rejections     RejectionRecorder
	datasetCfg     dataset.Config
	maxBodyBytes   int64
	requestTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. Defaults to the engine's logger.
func WithLogger(l *kmviz.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithController sets admission control. A nil controller admits everything.
func WithController(rc *resource.Controller) Option {
	return func(s *Server) {
		s.rc = rc
	}
}

// WithGatherer exposes g on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithRejectionRecorder counts admission rejections.
func WithRejectionRecorder(r RejectionRecorder) Option {
	return func(s *Server) {
		if r != nil {
			s.rejections = r
		}
	}
}

// WithDatasetDefaults sets the generator defaults for /generate_dataset.
func WithDatasetDefaults(cfg dataset.Config) Option {
	return func(s *Server) {
		s.datasetCfg = cfg
	}
}

// WithMaxBodyBytes bounds request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithRequestTimeout bounds each POST request. With a timeout set, requests
// wait for rate tokens and run slots until the deadline instead of failing fast.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.requestTimeout = d
	}
}

// New creates a Server for engine.
func New(engine *kmviz.Engine, optFns ...Option) *Server {
	s := &Server{
		engine:       engine,
		logger:       engine.Logger(),
		rejections:   noopRejections{},
		datasetCfg:   dataset.DefaultConfig(),
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(s)
		}
	}
	return s
}

// Handler returns the HTTP handler with all routes and middleware installed.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /initialize_centroids", s.limit(s.handleInitialize))
	mux.Handle("POST /generate_dataset", s.limit(s.handleGenerate))
	mux.Handle("POST /run_kmeans_step", s.limit(s.handleStep))
	mux.Handle("POST /run_kmeans", s.limit(s.handleRun))
	mux.Handle("POST /reset_kmeans", s.limit(s.handleReset))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return gzhttp.GzipHandler(mux)
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// limit applies the request timeout and rate limit and turns handler errors
// into JSON responses.
func (s *Server) limit(h handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.requestTimeout > 0 {
			ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
			defer cancel()
			r = r.WithContext(ctx)
		}

		err := s.rc.Throttle(r.Context())
		if err == nil {
			err = h(w, r)
		}
		if err != nil {
			s.writeError(w, r, err)
		}
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	code := statusCode(err)

	switch {
	case code == http.StatusTooManyRequests:
		s.rejections.RecordRejected(rejectionReason(err))
		s.logger.DebugContext(ctx, "request rejected", "path", r.URL.Path, "error", err)
	case code >= http.StatusInternalServerError:
		s.logger.ErrorContext(ctx, "request failed", "path", r.URL.Path, "status", code, "error", err)
	default:
		s.logger.DebugContext(ctx, "request invalid", "path", r.URL.Path, "status", code, "error", err)
	}

	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, kmviz.ErrInvalidArgument),
		errors.Is(err, dataset.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, kmviz.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, resource.ErrRateLimited),
		errors.Is(err, resource.ErrBusy),
		errors.Is(err, resource.ErrPointBudgetExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, resource.ErrRateLimited):
		return "rate"
	case errors.Is(err, resource.ErrBusy):
		return "busy"
	default:
		return "points"
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
