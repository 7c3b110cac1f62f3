package sessions

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"deliverytracker/internal/core/domain/model/tracking"
	"deliverytracker/internal/core/ports"
	"deliverytracker/internal/pkg/errs"
)

// ErrRegistryClosed is returned by Start after Shutdown.
var ErrRegistryClosed = errors.New("session registry is shut down")

// RouteSource produces the route a new session will follow.
type RouteSource interface {
	Generate(orderID string) tracking.Route
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithTickerFactory replaces the wall-clock ticker, mostly for tests.
func WithTickerFactory(f TickerFactory) RegistryOption {
	return func(r *Registry) {
		r.newTicker = f
	}
}

// WithObserver reports session lifecycle events to o.
func WithObserver(o ports.TrackingObserver) RegistryOption {
	return func(r *Registry) {
		r.observer = o
	}
}

// Registry maps order identifiers to their single running Session.
// All map mutations happen under mu; route generation and sink calls do not.
type Registry struct {
	cfg       Config
	routes    RouteSource
	sink      ports.DeliverySink
	newTicker TickerFactory
	observer  ports.TrackingObserver
	logger    *slog.Logger

	base     context.Context
	stopBase context.CancelFunc
	wg       sync.WaitGroup

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

func NewRegistry(
	cfg Config,
	routes RouteSource,
	sink ports.DeliverySink,
	logger *slog.Logger,
	opts ...RegistryOption,
) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if routes == nil {
		return nil, errs.NewValueIsRequiredError("routes")
	}
	if sink == nil {
		return nil, errs.NewValueIsRequiredError("sink")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	base, stop := context.WithCancel(context.Background())
	r := &Registry{
		cfg:       cfg,
		routes:    routes,
		sink:      sink,
		newTicker: NewTimeTicker,
		observer:  noopObserver{},
		logger:    logger.With("component", "session_registry"),
		base:      base,
		stopBase:  stop,
		sessions:  make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Start begins a fresh session for orderID owned by conn. Any session already
// running for orderID is cancelled before the new one becomes visible.
func (r *Registry) Start(orderID string, conn ports.Connection) (*Session, error) {
	if orderID == "" {
		return nil, errs.NewValueIsRequiredError("orderId")
	}
	if conn == nil {
		return nil, errs.NewValueIsRequiredError("conn")
	}

	route := r.routes.Generate(orderID)
	if err := route.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(r.base)
	s := newSession(orderID, route, conn, cancel)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		cancel()
		return nil, ErrRegistryClosed
	}

	old := r.sessions[orderID]
	superseded := old != nil && old.stop()
	r.sessions[orderID] = s

	ticker := r.newTicker(r.cfg.TickInterval)
	r.wg.Add(1)
	go r.run(ctx, s, ticker)
	r.mu.Unlock()

	if superseded {
		r.observer.SessionFinished(ports.OutcomeSuperseded)
		r.logger.Info("session superseded", "orderId", orderID, "previousConn", old.conn.ID())
	}
	r.observer.SessionStarted()
	r.logger.Info("session started", "orderId", orderID, "conn", conn.ID(), "waypoints", route.Len())

	return s, nil
}

// Cancel stops and removes the session of orderID. It is a no-op when there is none.
func (r *Registry) Cancel(orderID string) {
	r.mu.Lock()
	s := r.sessions[orderID]
	delete(r.sessions, orderID)
	r.mu.Unlock()

	if s != nil {
		r.finishCancelled(s)
	}
}

// CancelSession stops s and removes it only if it is still the registered
// session of its order, so a successor is never evicted.
func (r *Registry) CancelSession(s *Session) {
	if s == nil {
		return
	}

	r.release(s)
	r.finishCancelled(s)
}

// Remove drops the entry of orderID without stopping its loop.
func (r *Registry) Remove(orderID string) {
	r.mu.Lock()
	delete(r.sessions, orderID)
	r.mu.Unlock()
}

// Get returns the registered session of orderID.
func (r *Registry) Get(orderID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[orderID]
	return s, ok
}

// Len is the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Shutdown cancels every session, refuses new ones and waits for all loops,
// including in-flight delivery writes, to return or for ctx to expire.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	running := make([]*Session, 0, len(r.sessions))
	for orderID, s := range r.sessions {
		running = append(running, s)
		delete(r.sessions, orderID)
	}
	r.mu.Unlock()

	for _, s := range running {
		r.finishCancelled(s)
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.stopBase()
		r.logger.InfoContext(ctx, "session registry stopped", "cancelled", len(running))
		return nil
	case <-ctx.Done():
		r.stopBase()
		return ctx.Err()
	}
}

// release is the compare-and-delete used when a session ends.
func (r *Registry) release(s *Session) {
	r.mu.Lock()
	if cur, ok := r.sessions[s.orderID]; ok && cur == s {
		delete(r.sessions, s.orderID)
	}
	r.mu.Unlock()
}

func (r *Registry) finishCancelled(s *Session) {
	if !s.stop() {
		return
	}

	r.observer.SessionFinished(ports.OutcomeCancelled)
	r.logger.Info("session cancelled", "orderId", s.orderID, "conn", s.conn.ID(), "cursor", s.Cursor())
}

type noopObserver struct{}

func (noopObserver) SessionStarted()                            {}
func (noopObserver) SessionFinished(string)                     {}
func (noopObserver) UpdateEmitted()                             {}
func (noopObserver) DeliveryPersisted(_ time.Duration, _ error) {}
