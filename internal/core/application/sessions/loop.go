package sessions

import (
	"context"
	"errors"
	"time"

	"deliverytracker/internal/core/ports"
)

// run is the streaming loop of s. It exits when ctx is cancelled or after the
// final update has been emitted and persisted.
func (r *Registry) run(ctx context.Context, s *Session, ticker Ticker) {
	defer r.wg.Done()
	defer close(s.done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			update, emitted, final, sendErr := s.step()
			if !emitted {
				return
			}

			r.observer.UpdateEmitted()
			if sendErr != nil && !errors.Is(sendErr, ports.ErrConnectionClosed) {
				r.logger.Warn("update dropped", "orderId", s.orderID, "conn", s.conn.ID(), "error", sendErr)
			}

			if final {
				ticker.Stop()
				r.logger.Debug("final update emitted", "orderId", update.OrderID, "conn", s.conn.ID())
				r.complete(ctx, s)
				return
			}
		}
	}
}

// complete persists the Delivered status and releases the registry entry. The
// sink call outlives cancellation of the session context but not PersistTimeout.
func (r *Registry) complete(ctx context.Context, s *Session) {
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.PersistTimeout)
	defer cancel()

	started := time.Now()
	err := r.sink.MarkDelivered(persistCtx, s.orderID)
	r.observer.DeliveryPersisted(time.Since(started), err)
	if err != nil {
		r.logger.ErrorContext(persistCtx, "failed to persist delivered status", "orderId", s.orderID, "error", err)
	}

	s.cancel()
	r.release(s)
	r.observer.SessionFinished(ports.OutcomeCompleted)
	r.logger.Info("session completed", "orderId", s.orderID, "conn", s.conn.ID())
}
