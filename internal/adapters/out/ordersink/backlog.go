package ordersink

import (
	"slices"
	"sync"
	"time"
)

// PendingDelivery is an order whose Delivered status has not been stored yet.
type PendingDelivery struct {
	OrderID   string
	Attempts  int
	LastError string
	Since     time.Time
}

// Backlog keeps the pending deliveries in memory until they are stored or dropped.
type Backlog struct {
	mu      sync.Mutex
	pending map[string]*PendingDelivery
	now     func() time.Time
}

func NewBacklog() *Backlog {
	return &Backlog{
		pending: make(map[string]*PendingDelivery),
		now:     time.Now,
	}
}

// Record counts a failed attempt for orderID, adding it when it is new.
func (b *Backlog) Record(orderID string, err error) PendingDelivery {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pending[orderID]
	if !ok {
		p = &PendingDelivery{OrderID: orderID, Since: b.now()}
		b.pending[orderID] = p
	}
	p.Attempts++
	if err != nil {
		p.LastError = err.Error()
	}
	return *p
}

func (b *Backlog) Remove(orderID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, orderID)
}

func (b *Backlog) Get(orderID string) (PendingDelivery, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pending[orderID]
	if !ok {
		return PendingDelivery{}, false
	}
	return *p, true
}

// Snapshot returns the pending deliveries ordered by order identifier.
func (b *Backlog) Snapshot() []PendingDelivery {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]PendingDelivery, 0, len(b.pending))
	for _, p := range b.pending {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b PendingDelivery) int {
		switch {
		case a.OrderID < b.OrderID:
			return -1
		case a.OrderID > b.OrderID:
			return 1
		default:
			return 0
		}
	})
	return out
}

func (b *Backlog) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
