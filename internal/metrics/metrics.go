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
	"github.com/samvad-hq/samvad-dashboard/internal/domain"
)

// Metrics holds the Prometheus collectors for probe passes.
type Metrics struct {
	OutcomesTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	EventsPublished *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dashboard",
				Name:      "probe_outcomes_total",
				Help:      "Probe outcomes by request and result",
			},
			[]string{"request", "result"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dashboard",
				Name:      "probe_request_duration_seconds",
				Help:      "Latency of probe requests",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"request"},
		),
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dashboard",
				Name:      "probe_events_published_total",
				Help:      "Outcome events handed to sinks, by delivery result",
			},
			[]string{"result"},
		),
	}
}

// ObserveOutcome records one probe result. Safe on a nil receiver.
func (m *Metrics) ObserveOutcome(o domain.Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if !o.OK {
		result = o.Kind
		if result == "" {
			result = "failed"
		}
	}
	m.OutcomesTotal.WithLabelValues(o.RequestID, result).Inc()
	m.RequestDuration.WithLabelValues(o.RequestID).Observe(elapsed.Seconds())
}

// ObservePublish records whether an event reached its sinks. Safe on a nil receiver.
func (m *Metrics) ObservePublish(err error) {
	if m == nil {
		return
	}
	result := "delivered"
	if err != nil {
		result = "failed"
	}
	m.EventsPublished.WithLabelValues(result).Inc()
}

// Serve exposes gatherer on addr under /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	}
}
