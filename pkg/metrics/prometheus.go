// Package metrics provides Prometheus metrics for the takure score hook.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Default metrics configuration constants.
const (
	defaultNamespace  = "takure"
	defaultSubsystem  = "hook"
	readHeaderTimeout = 5 * time.Second
)

// Manager manages all Prometheus metrics for the hook.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Interception
	callsIntercepted *prometheus.CounterVec
	cardUpdates      prometheus.Counter

	// Pipeline outcomes
	decodeErrors      *prometheus.CounterVec
	submissionsSkip   *prometheus.CounterVec
	submissionsOK     prometheus.Counter
	submissionsFailed prometheus.Counter
	submitLatency     prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.callsIntercepted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "calls_intercepted_total",
			Help:      "Property calls seen by the hook, by call name and method",
		},
		[]string{"call", "method"},
	)

	m.cardUpdates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "card_updates_total",
		Help:      "Card inquiries that updated the current card",
	})

	m.decodeErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "decode_errors_total",
			Help:      "Score payloads that failed to decode, by generation",
		},
		[]string{"generation"},
	)

	m.submissionsSkip = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "submissions_skipped_total",
			Help:      "Score imports dropped by the submission gate, by reason",
		},
		[]string{"reason"},
	)

	m.submissionsOK = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_total",
		Help:      "Score imports delivered to the scoring service",
	})

	m.submissionsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submissions_failed_total",
		Help:      "Score imports dropped after a delivery failure",
	})

	m.submitLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "submit_latency_milliseconds",
		Help:      "Round-trip time of import requests in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// RecordCallIntercepted counts a dispatched property call.
func RecordCallIntercepted(call, method string) {
	globalManager.callsIntercepted.WithLabelValues(call, method).Inc()
}

// RecordCardUpdate counts a card session update.
func RecordCardUpdate() {
	globalManager.cardUpdates.Inc()
}

// RecordDecodeError counts a payload decode failure.
func RecordDecodeError(generation string) {
	globalManager.decodeErrors.WithLabelValues(generation).Inc()
}

// RecordSubmissionSkipped counts a gate rejection.
func RecordSubmissionSkipped(reason string) {
	globalManager.submissionsSkip.WithLabelValues(reason).Inc()
}

// RecordSubmission counts a delivered import.
func RecordSubmission() {
	globalManager.submissionsOK.Inc()
}

// RecordSubmissionFailed counts a failed delivery.
func RecordSubmissionFailed() {
	globalManager.submissionsFailed.Inc()
}

// RecordSubmitLatency records import round-trip latency in milliseconds.
func RecordSubmitLatency(latencyMs float64) {
	globalManager.submitLatency.Observe(latencyMs)
}

// GetRegistry returns the registry backing the package-level helpers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Serve exposes the registry on addr at /metrics until ctx is done.
// The listener runs in its own goroutine; serve errors are returned on the channel.
func Serve(ctx context.Context, addr string) <-chan error {
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		defer close(errCh)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%w: %w", ErrServe, err)
		}
	}()

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	return errCh
}
