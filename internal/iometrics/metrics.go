// Package iometrics keeps Prometheus metrics of a populate run.
// A nil *Metrics is valid and records nothing.
package iometrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wfdb"

// Metrics holds the Prometheus counters and histograms of the pipeline.
type Metrics struct {
	Checkpoints        *prometheus.CounterVec // labels: status={ok,retry,failed}
	CheckpointDuration prometheus.Histogram
	RowsInserted       prometheus.Counter

	// labels: source={meteo,archive,daily}, outcome={success,error}
	RemoteRequests *prometheus.CounterVec
	// labels: kind={archive,daily}, result={hit,miss,absent}
	CacheLookups *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates metrics and registers them with reg. Tests pass a fresh
// prometheus.NewRegistry().
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Checkpoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkpoints_total",
			Help:      "Checkpoint attempts by status.",
		}, []string{"status"}),
		CheckpointDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkpoint_duration_seconds",
			Help:      "Duration of a checkpoint attempt.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}),
		RowsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observations_inserted_total",
			Help:      "Observations inserted into the database.",
		}),
		RemoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_requests_total",
			Help:      "Remote requests by source and outcome.",
		}, []string{"source", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "raster_cache_lookups_total",
			Help:      "Raster cache lookups by kind and result.",
		}, []string{"kind", "result"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.Checkpoints,
		m.CheckpointDuration,
		m.RowsInserted,
		m.RemoteRequests,
		m.CacheLookups,
	)
	return m
}

// Checkpoint records the end of a checkpoint attempt.
func (m *Metrics) Checkpoint(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.Checkpoints.WithLabelValues(status).Inc()
	m.CheckpointDuration.Observe(d.Seconds())
}

// Rows adds inserted observations.
func (m *Metrics) Rows(n int64) {
	if m == nil {
		return
	}
	m.RowsInserted.Add(float64(n))
}

// Remote records a remote request.
func (m *Metrics) Remote(source string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.RemoteRequests.WithLabelValues(source, outcome).Inc()
}

// Cache records a raster cache lookup.
func (m *Metrics) Cache(kind, result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(kind, result).Inc()
}

// Serve exposes /metrics on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil &&
		!errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
