package sessions

import (
	"context"
	"sync"

	"deliverytracker/internal/core/domain/model/tracking"
	"deliverytracker/internal/core/ports"
)

// Session is one running simulation of an order's route. Its state is guarded
// by mu; the registry never holds its own lock while waiting on mu for longer
// than a state flip.
type Session struct {
	orderID string
	route   tracking.Route
	conn    ports.Connection

	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	cursor int
	state  tracking.SessionState
}

func newSession(orderID string, route tracking.Route, conn ports.Connection, cancel context.CancelFunc) *Session {
	return &Session{
		orderID: orderID,
		route:   route,
		conn:    conn,
		cancel:  cancel,
		done:    make(chan struct{}),
		state:   tracking.Running,
	}
}

func (s *Session) OrderID() string {
	return s.orderID
}

func (s *Session) Route() tracking.Route {
	return s.route
}

// Conn returns the connection that owns the session.
func (s *Session) Conn() ports.Connection {
	return s.conn
}

// Cursor is the index of the next waypoint to emit.
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

func (s *Session) State() tracking.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed when the session's loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// stop moves a running session to Cancelled and cancels its loop. It reports
// false when the session had already reached a terminal state.
func (s *Session) stop() bool {
	s.mu.Lock()
	if s.state.IsTerminal() {
		s.mu.Unlock()
		return false
	}
	s.state = tracking.Cancelled
	s.mu.Unlock()

	s.cancel()
	return true
}

// step emits the update at the cursor and advances it. It returns emitted=false
// when the session is no longer running, and final=true once the Delivered
// update went out, at which point the session is already Completed.
func (s *Session) step() (update tracking.Update, emitted, final bool, sendErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != tracking.Running {
		return tracking.Update{}, false, false, nil
	}

	update = tracking.UpdateAt(s.orderID, s.route, s.cursor)
	sendErr = s.conn.Send(update)

	if s.cursor < s.route.Len() {
		s.cursor++
	}
	if update.IsFinal() {
		s.state = tracking.Completed
		s.cursor = s.route.Len()
	}

	return update, true, update.IsFinal(), sendErr
}
