package sessions_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"deliverytracker/internal/core/application/sessions"
	"deliverytracker/internal/core/domain/model/kernel"
	"deliverytracker/internal/core/domain/model/tracking"
	"deliverytracker/internal/core/ports"

	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// manualTicker fires only when the test calls Tick.
type manualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *manualTicker) C() <-chan time.Time {
	return t.ch
}

func (t *manualTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *manualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Tick hands one tick to the loop. It reports false when nobody received it.
func (t *manualTicker) Tick() bool {
	select {
	case t.ch <- time.Now():
		return true
	case <-time.After(100 * time.Millisecond):
		return false
	}
}

type tickers struct {
	mu   sync.Mutex
	all  []*manualTicker
	used []time.Duration
}

func (f *tickers) factory(d time.Duration) sessions.Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time)}
	f.all = append(f.all, t)
	f.used = append(f.used, d)
	return t
}

func (f *tickers) get(t *testing.T, i int) *manualTicker {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Greater(t, len(f.all), i, "ticker %d was never created", i)
	return f.all[i]
}

// fakeConn records every update it accepts.
type fakeConn struct {
	id      string
	updates chan tracking.Update
	mu      sync.Mutex
	closed  bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id, updates: make(chan tracking.Update, 64)}
}

func (c *fakeConn) ID() string {
	return c.id
}

func (c *fakeConn) Send(u tracking.Update) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ports.ErrConnectionClosed
	}
	c.updates <- u
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeConn) next(t *testing.T) tracking.Update {
	t.Helper()
	select {
	case u := <-c.updates:
		return u
	case <-time.After(waitTimeout):
		t.Fatalf("connection %s received no update", c.id)
		return tracking.Update{}
	}
}

func (c *fakeConn) assertSilent(t *testing.T) {
	t.Helper()
	select {
	case u := <-c.updates:
		t.Fatalf("connection %s received unexpected update %+v", c.id, u)
	default:
	}
}

// fakeSink counts MarkDelivered calls per order.
type fakeSink struct {
	mu          sync.Mutex
	calls       map[string]int
	err         error
	hadDeadline bool
}

func newFakeSink() *fakeSink {
	return &fakeSink{calls: make(map[string]int)}
}

func (s *fakeSink) MarkDelivered(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[orderID]++
	_, s.hadDeadline = ctx.Deadline()
	return s.err
}

func (s *fakeSink) count(orderID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[orderID]
}

// straightRoutes returns an n-point route for every order, walking north.
type straightRoutes struct {
	n int
}

func (g straightRoutes) Generate(string) tracking.Route {
	points := make([]kernel.Location, g.n)
	for i := range points {
		points[i] = kernel.MustNewLocation(28.6+float64(i)*0.001, 77.2)
	}
	route, err := tracking.NewRoute(points)
	if err != nil {
		panic(fmt.Sprintf("straight route: %v", err))
	}
	return route
}

type fixture struct {
	registry *sessions.Registry
	manager  *sessions.Manager
	tickers  *tickers
	sink     *fakeSink
	observer *recordingObserver
}

func newFixture(t *testing.T, routeLen int) *fixture {
	t.Helper()

	f := &fixture{
		tickers:  &tickers{},
		sink:     newFakeSink(),
		observer: &recordingObserver{finished: make(map[string]int)},
	}

	cfg := sessions.DefaultConfig()
	registry, err := sessions.NewRegistry(cfg, straightRoutes{n: routeLen}, f.sink, discardLogger(),
		sessions.WithTickerFactory(f.tickers.factory),
		sessions.WithObserver(f.observer),
	)
	require.NoError(t, err)

	f.registry = registry
	f.manager = sessions.NewManager(registry, discardLogger())

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
		defer cancel()
		_ = registry.Shutdown(ctx)
	})

	return f
}

func waitDone(t *testing.T, s *sessions.Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(waitTimeout):
		t.Fatalf("session %s did not stop", s.OrderID())
	}
}

type recordingObserver struct {
	mu        sync.Mutex
	started   int
	finished  map[string]int
	emitted   int
	persisted int
	failed    int
}

func (o *recordingObserver) SessionStarted() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started++
}

func (o *recordingObserver) SessionFinished(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished[outcome]++
}

func (o *recordingObserver) UpdateEmitted() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.emitted++
}

func (o *recordingObserver) DeliveryPersisted(_ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.persisted++
	if err != nil {
		o.failed++
	}
}

func (o *recordingObserver) snapshot() (started int, finished map[string]int, emitted int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	copied := make(map[string]int, len(o.finished))
	for k, v := range o.finished {
		copied[k] = v
	}
	return o.started, copied, o.emitted
}
