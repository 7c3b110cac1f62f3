package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"deliverytracker/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.TrackingObserver = (*TrackingCollector)(nil)

func TestTrackingCollector_SessionLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewTrackingCollector(reg)
	require.NoError(t, err)

	c.SessionStarted()
	c.SessionStarted()
	c.SessionStarted()
	c.SessionFinished(ports.OutcomeSuperseded)
	c.SessionFinished(ports.OutcomeCompleted)
	c.UpdateEmitted()
	c.UpdateEmitted()

	assert.InDelta(t, 3, testutil.ToFloat64(c.SessionsStarted), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.SessionsActive), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.SessionsFinished.WithLabelValues(ports.OutcomeSuperseded)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.SessionsFinished.WithLabelValues(ports.OutcomeCompleted)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(c.SessionsFinished.WithLabelValues(ports.OutcomeCancelled)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.UpdatesEmitted), 0)
}

func TestTrackingCollector_DeliveryPersisted(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewTrackingCollector(reg)
	require.NoError(t, err)

	c.DeliveryPersisted(20*time.Millisecond, nil)
	c.DeliveryPersisted(5*time.Second, errors.New("timeout"))

	assert.InDelta(t, 1, testutil.ToFloat64(c.PersistFailures), 0)
	assert.Equal(t, uint64(2), histogramSampleCount(t, reg, "tracking_delivery_persist_duration_seconds"))
}

func TestTrackingCollector_Connections(t *testing.T) {
	c, err := NewTrackingCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	c.ConnectionOpened()
	c.ConnectionOpened()
	c.ConnectionClosed()

	assert.InDelta(t, 1, testutil.ToFloat64(c.ConnectionsOpen), 0)
}

func TestTrackingCollector_RegisterTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewTrackingCollector(reg)
	require.NoError(t, err)
	second, err := NewTrackingCollector(reg)
	require.NoError(t, err)

	first.UpdateEmitted()

	assert.InDelta(t, 1, testutil.ToFloat64(second.UpdatesEmitted), 0)
}

func TestTrackingCollector_NilIsSafe(t *testing.T) {
	var c *TrackingCollector

	assert.NotPanics(t, func() {
		c.SessionStarted()
		c.SessionFinished(ports.OutcomeCancelled)
		c.UpdateEmitted()
		c.DeliveryPersisted(time.Second, nil)
		c.ConnectionOpened()
		c.ConnectionClosed()
	})
}

func TestTrackingCollector_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewTrackingCollector(reg)
	require.NoError(t, err)
	c.SessionStarted()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	for _, name := range []string{
		"tracking_sessions_active 1",
		"tracking_sessions_started_total 1",
		"tracking_connections_open 0",
	} {
		assert.True(t, strings.Contains(body, name), "missing %q in metrics output", name)
	}
}

func histogramSampleCount(t *testing.T, reg *prometheus.Registry, name string) uint64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name || mf.GetType() != dto.MetricType_HISTOGRAM {
			continue
		}
		for _, m := range mf.GetMetric() {
			return m.GetHistogram().GetSampleCount()
		}
	}

	t.Fatalf("histogram %s not found", name)
	return 0
}
