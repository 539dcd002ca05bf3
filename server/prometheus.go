package server

import (
	"time"

	"github.com/hupe1980/kmviz"
	"github.com/prometheus/client_golang/prometheus"
)

var _ kmviz.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector implements kmviz.MetricsCollector on Prometheus metrics.
type PrometheusCollector struct {
	opLatency  *prometheus.HistogramVec
	inits      *prometheus.CounterVec
	iterations prometheus.Counter
	outcomes   *prometheus.CounterVec
	rejected   *prometheus.CounterVec
}

// NewPrometheusCollector creates a collector and registers its metrics with reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kmviz_operation_latency_seconds",
			Help:    "Latency of engine operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		inits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kmviz_initializations_total",
			Help: "Total centroid initializations by method",
		}, []string{"method"}),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kmviz_iterations_total",
			Help: "Total assignment+update iterations performed",
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kmviz_run_outcomes_total",
			Help: "Completed runs by outcome",
		}, []string{"outcome"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kmviz_rejected_requests_total",
			Help: "Requests rejected by admission control",
		}, []string{"reason"}),
	}

	reg.MustRegister(c.opLatency, c.inits, c.iterations, c.outcomes, c.rejected)

	return c
}

// RecordInitialize implements kmviz.MetricsCollector.
func (c *PrometheusCollector) RecordInitialize(method string, d time.Duration, err error) {
	c.opLatency.WithLabelValues("initialize", status(err)).Observe(d.Seconds())
	if err == nil {
		c.inits.WithLabelValues(method).Inc()
	}
}

// RecordStep implements kmviz.MetricsCollector.
func (c *PrometheusCollector) RecordStep(d time.Duration, converged bool, err error) {
	c.opLatency.WithLabelValues("step", status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.iterations.Inc()
	if converged {
		c.outcomes.WithLabelValues("step_converged").Inc()
	}
}

// RecordRun implements kmviz.MetricsCollector.
func (c *PrometheusCollector) RecordRun(iterations int, converged bool, d time.Duration, err error) {
	c.opLatency.WithLabelValues("run", status(err)).Observe(d.Seconds())
	if err != nil {
		return
	}
	c.iterations.Add(float64(iterations))
	if converged {
		c.outcomes.WithLabelValues("converged").Inc()
	} else {
		c.outcomes.WithLabelValues("iteration_limit").Inc()
	}
}

// RecordRejected counts a request turned away by admission control.
func (c *PrometheusCollector) RecordRejected(reason string) {
	c.rejected.WithLabelValues(reason).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
