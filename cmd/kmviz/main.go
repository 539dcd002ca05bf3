// Command kmviz serves the k-means engine over HTTP, or traces a single run
// on a generated dataset.
//
// Usage:
//
//	kmviz [-cfg kmviz.toml] [-listen addr] [serve]
//	kmviz [-cfg kmviz.toml] [-k 3] [-init kmeans++] [-seed 1] trace
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hupe1980/kmviz"
	"github.com/hupe1980/kmviz/dataset"
	"github.com/hupe1980/kmviz/internal/resource"
	"github.com/hupe1980/kmviz/model"
	"github.com/hupe1980/kmviz/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	configFile = flag.String("cfg", "", "toml configuration file (defaults are used when empty)")
	listenAddr = flag.String("listen", "", "listen address, overrides the config file")
	traceK     = flag.Int("k", 3, "number of clusters (trace)")
	traceInit  = flag.String("init", "kmeans++", "initialization method: random, kmeans++ (trace)")
	traceSeed  = flag.Uint64("seed", 1, "dataset and initialization seed (trace)")
)

func main() {
	flag.Parse()

	cfg, err := parseConfigFromFile(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kmviz: %v\n", err)
		os.Exit(2)
	}
	if *listenAddr != "" {
		cfg.Listen = *listenAddr
	}

	logger, err := cfg.Log.logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "kmviz: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mode := flag.Arg(0)
	switch mode {
	case "", "serve":
		err = serve(ctx, cfg, logger)
	case "trace":
		err = trace(ctx, cfg, logger)
	default:
		err = fmt.Errorf("unknown mode %q", mode)
	}

	if err != nil {
		logger.Error("exit", "error", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *Config, logger *kmviz.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pc := server.NewPrometheusCollector(reg)

	engine, err := kmviz.New(append(cfg.Engine.options(),
		kmviz.WithLogger(logger),
		kmviz.WithMetricsCollector(pc),
	)...)
	if err != nil {
		return err
	}

	dsCfg, err := cfg.Dataset.config()
	if err != nil {
		return err
	}

	rc := resource.NewController(cfg.Limits.resource())
	logger.Info("admission limits",
		"point_budget", rc.PointBudget(),
		"max_concurrent_runs", cfg.Limits.MaxConcurrentRuns,
		"requests_per_second", cfg.Limits.RequestsPerSecond,
		"request_timeout", cfg.Limits.RequestTimeout.String(),
	)

	srv := server.New(engine,
		server.WithController(rc),
		server.WithRequestTimeout(cfg.Limits.RequestTimeout.Duration),
		server.WithGatherer(reg),
		server.WithRejectionRecorder(pc),
		server.WithDatasetDefaults(dsCfg),
	)

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Listen)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// trace generates a dataset and steps one session to a terminal state, logging every iteration.
func trace(ctx context.Context, cfg *Config, logger *kmviz.Logger) error {
	method, err := model.ParseInitMethod(*traceInit)
	if err != nil {
		return err
	}
	if method == model.InitManual {
		return errors.New("trace does not support manual seeding")
	}

	dsCfg, err := cfg.Dataset.config()
	if err != nil {
		return err
	}
	data, err := dataset.Generate(dsCfg, kmviz.NewSource(*traceSeed))
	if err != nil {
		return err
	}

	lo, hi, err := dataset.Bounds(data)
	if err != nil {
		return err
	}
	logger.Info("dataset", "points", len(data), "shape", dsCfg.Shape.String(), "min", lo.String(), "max", hi.String())

	engine, err := kmviz.New(append(cfg.Engine.options(), kmviz.WithLogger(logger))...)
	if err != nil {
		return err
	}

	s, err := engine.NewSession(data, *traceK, model.Strategy{Method: method}, kmviz.WithCallSeed(*traceSeed))
	if err != nil {
		return err
	}

	centroids, err := s.Initialize()
	if err != nil {
		return err
	}
	logger.Info("initialized", "session", s.ID(), "method", method.String(), "centroids", fmt.Sprint(centroids))

	for !s.State().Terminal() {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := s.Step()
		if err != nil {
			return err
		}

		snap := s.Snapshot()
		logger.Info("step",
			"iteration", res.Iteration,
			"inertia", res.Inertia,
			"reassigned", len(snap.Reassigned),
			"sizes", fmt.Sprint(res.Labels.Sizes(*traceK)),
			"state", snap.State.String(),
		)
	}

	snap := s.Snapshot()
	logger.Info("done", "state", snap.State.String(), "iterations", snap.Iteration, "centroids", fmt.Sprint(snap.Centroids))
	return nil
}
