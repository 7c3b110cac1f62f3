package sessions

import (
	"log/slog"
	"slices"
	"sync"

	"deliverytracker/internal/core/ports"
)

// Manager tracks which sessions each connection started. A connection may
// watch several orders at once; updates are told apart by order identifier.
type Manager struct {
	registry *Registry
	logger   *slog.Logger

	mu      sync.Mutex
	watches map[string]map[string]*Session
}

func NewManager(registry *Registry, logger *slog.Logger) *Manager {
	return &Manager{
		registry: registry,
		logger:   logger.With("component", "connection_manager"),
		watches:  make(map[string]map[string]*Session),
	}
}

// Watch starts (or restarts) tracking of orderID for conn. A session for the
// same order owned by another connection is superseded.
func (m *Manager) Watch(conn ports.Connection, orderID string) (*Session, error) {
	s, err := m.registry.Start(orderID, conn)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	owned := m.watches[conn.ID()]
	if owned == nil {
		owned = make(map[string]*Session)
		m.watches[conn.ID()] = owned
	}
	for id, prev := range owned {
		if prev.State().IsTerminal() {
			delete(owned, id)
		}
	}
	owned[orderID] = s

	m.logger.Debug("watch bound", "conn", conn.ID(), "orderId", orderID, "watching", len(owned))
	return s, nil
}

// Disconnect cancels every session conn still owns. Sessions that have been
// superseded by another connection are left to their new owner.
func (m *Manager) Disconnect(conn ports.Connection) {
	m.mu.Lock()
	owned := m.watches[conn.ID()]
	delete(m.watches, conn.ID())
	m.mu.Unlock()

	for _, s := range owned {
		m.registry.CancelSession(s)
	}

	m.logger.Debug("connection released", "conn", conn.ID(), "sessions", len(owned))
}

// Watching lists the order identifiers conn has running sessions for, sorted.
func (m *Manager) Watching(conn ports.Connection) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := make([]string, 0, len(m.watches[conn.ID()]))
	for id, s := range m.watches[conn.ID()] {
		if !s.State().IsTerminal() {
			orders = append(orders, id)
		}
	}
	slices.Sort(orders)
	return orders
}
