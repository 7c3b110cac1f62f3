package ports

import (
	"context"
	"errors"
	"time"

	"deliverytracker/internal/core/domain/model/tracking"
)

// ErrConnectionClosed is returned by Connection.Send once the peer is gone.
// Sessions treat it as a normal end of interest and drop the update.
var ErrConnectionClosed = errors.New("connection closed")

// Connection is a client watching one or more orders. Send must not block:
// implementations queue the update or fail.
type Connection interface {
	ID() string
	Send(update tracking.Update) error
}

// DeliverySink records the terminal Delivered status of an order once its
// simulated route completes.
type DeliverySink interface {
	MarkDelivered(ctx context.Context, orderID string) error
}

// Session outcomes reported to a TrackingObserver.
const (
	OutcomeCompleted  = "completed"
	OutcomeCancelled  = "cancelled"
	OutcomeSuperseded = "superseded"
)

// TrackingObserver receives lifecycle notifications from the session registry.
// Calls happen on session goroutines and must return quickly.
type TrackingObserver interface {
	SessionStarted()
	SessionFinished(outcome string)
	UpdateEmitted()
	DeliveryPersisted(elapsed time.Duration, err error)
}
