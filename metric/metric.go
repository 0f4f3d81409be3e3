// Package metric exposes generation counters for long batch runs.
// Counters are registered on a caller-supplied registry so tests stay
// isolated; Serve optionally publishes them on an HTTP listener.
package metric

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the generation run counters.
type Metrics struct {
	registry *prometheus.Registry

	// TriplesGenerated counts persisted triples, labeled by format.
	TriplesGenerated *prometheus.CounterVec
	// JobsSucceeded counts completed generation jobs.
	JobsSucceeded prometheus.Counter
	// JobsFailed counts failed generation jobs.
	JobsFailed prometheus.Counter
	// JobDuration observes per-job wall time.
	JobDuration prometheus.Histogram
}

// New creates and registers the run counters on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		TriplesGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripleforge_triples_generated_total",
			Help: "Number of training triples generated and persisted.",
		}, []string{"format"}),
		JobsSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tripleforge_jobs_succeeded_total",
			Help: "Number of generation jobs that completed.",
		}),
		JobsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tripleforge_jobs_failed_total",
			Help: "Number of generation jobs that failed.",
		}),
		JobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripleforge_job_duration_seconds",
			Help:    "Wall time per generation job.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
	registry.MustRegister(m.TriplesGenerated, m.JobsSucceeded, m.JobsFailed, m.JobDuration)
	return m
}

// Handler returns the scrape handler for the run's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve publishes /metrics on addr until ctx is canceled. Returns nil
// on clean shutdown.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Metrics listener started", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics listener: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics listener: %w", err)
	}
}
