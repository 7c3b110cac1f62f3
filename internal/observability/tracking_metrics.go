// Package observability exposes Prometheus metrics of the tracking service.
package observability

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// TrackingCollector bundles the session registry and websocket metrics. It
// implements ports.TrackingObserver.
type TrackingCollector struct {
	gatherer prometheus.Gatherer

	SessionsActive   prometheus.Gauge
	SessionsStarted  prometheus.Counter
	SessionsFinished *prometheus.CounterVec
	UpdatesEmitted   prometheus.Counter
	PersistFailures  prometheus.Counter
	PersistDuration  prometheus.Histogram
	ConnectionsOpen  prometheus.Gauge
}

// NewTrackingCollector registers the tracking metrics against reg, defaulting
// to the global Prometheus registry when nil.
func NewTrackingCollector(reg prometheus.Registerer) (*TrackingCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	active, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tracking_sessions_active",
		Help: "Number of tracking sessions currently running.",
	}))
	if err != nil {
		return nil, err
	}
	started, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_sessions_started_total",
		Help: "Total number of tracking sessions started.",
	}))
	if err != nil {
		return nil, err
	}
	finished, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracking_sessions_finished_total",
		Help: "Total number of tracking sessions that ended, labeled by outcome.",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}
	emitted, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_updates_emitted_total",
		Help: "Total number of location updates emitted by tracking sessions.",
	}))
	if err != nil {
		return nil, err
	}
	failures, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_delivery_persist_failures_total",
		Help: "Total number of failed writes of the Delivered status.",
	}))
	if err != nil {
		return nil, err
	}
	duration, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tracking_delivery_persist_duration_seconds",
		Help:    "Latency of Delivered status writes in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}))
	if err != nil {
		return nil, err
	}
	connections, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tracking_connections_open",
		Help: "Number of open websocket connections.",
	}))
	if err != nil {
		return nil, err
	}

	return &TrackingCollector{
		gatherer:         gatherer,
		SessionsActive:   active,
		SessionsStarted:  started,
		SessionsFinished: finished,
		UpdatesEmitted:   emitted,
		PersistFailures:  failures,
		PersistDuration:  duration,
		ConnectionsOpen:  connections,
	}, nil
}

func (c *TrackingCollector) SessionStarted() {
	if c == nil {
		return
	}
	c.SessionsStarted.Inc()
	c.SessionsActive.Inc()
}

func (c *TrackingCollector) SessionFinished(outcome string) {
	if c == nil {
		return
	}
	c.SessionsFinished.WithLabelValues(outcome).Inc()
	c.SessionsActive.Dec()
}

func (c *TrackingCollector) UpdateEmitted() {
	if c == nil {
		return
	}
	c.UpdatesEmitted.Inc()
}

func (c *TrackingCollector) DeliveryPersisted(elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	c.PersistDuration.Observe(elapsed.Seconds())
	if err != nil {
		c.PersistFailures.Inc()
	}
}

func (c *TrackingCollector) ConnectionOpened() {
	if c == nil {
		return
	}
	c.ConnectionsOpen.Inc()
}

func (c *TrackingCollector) ConnectionClosed() {
	if c == nil {
		return
	}
	c.ConnectionsOpen.Dec()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *TrackingCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// register adds collector to reg, reusing an already registered collector of
// the same type so the collector can be built twice against one registry.
func register[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	if err := reg.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			return collector, fmt.Errorf("collector already registered with incompatible type: %w", err)
		}
		return collector, err
	}
	return collector, nil
}
