// Package ordersink stores the Delivered status of orders whose tracking
// session finished, and keeps retrying the writes that failed.
package ordersink

import (
	"context"
	"errors"
	"log/slog"

	"deliverytracker/internal/core/application/usecases/commands"
	"deliverytracker/internal/core/domain/model/kernel"
	"deliverytracker/internal/pkg/errs"
)

// DeliverOrderHandler executes DeliverOrderCommand.
type DeliverOrderHandler interface {
	Handle(ctx context.Context, cmd commands.DeliverOrderCommand) error
}

// Sink implements ports.DeliverySink on top of the order store.
type Sink struct {
	handler DeliverOrderHandler
	backlog *Backlog
	logger  *slog.Logger
}

func NewSink(handler DeliverOrderHandler, backlog *Backlog, logger *slog.Logger) *Sink {
	return &Sink{
		handler: handler,
		backlog: backlog,
		logger:  logger.With("component", "delivery_sink"),
	}
}

// MarkDelivered stores the Delivered status of orderID. Malformed identifiers
// and unknown orders fail permanently; any other failure is kept in the
// backlog for Reconcile.
func (s *Sink) MarkDelivered(ctx context.Context, orderID string) error {
	err := s.deliver(ctx, orderID)
	if err == nil {
		s.backlog.Remove(orderID)
		return nil
	}

	if isPermanent(err) {
		s.logger.WarnContext(ctx, "delivered status rejected", "orderId", orderID, "error", err)
		return err
	}

	p := s.backlog.Record(orderID, err)
	s.logger.WarnContext(ctx, "delivered status queued for retry", "orderId", orderID, "attempts", p.Attempts, "error", err)
	return err
}

// Reconcile retries every pending delivery once. Entries that succeed, fail
// permanently, or reach maxAttempts leave the backlog.
func (s *Sink) Reconcile(ctx context.Context, maxAttempts int) (delivered, dropped, remaining int) {
	for _, p := range s.backlog.Snapshot() {
		if ctx.Err() != nil {
			break
		}

		err := s.deliver(ctx, p.OrderID)
		switch {
		case err == nil:
			s.backlog.Remove(p.OrderID)
			delivered++
			s.logger.InfoContext(ctx, "delivered status reconciled", "orderId", p.OrderID, "attempts", p.Attempts+1)
		case isPermanent(err):
			s.backlog.Remove(p.OrderID)
			dropped++
			s.logger.WarnContext(ctx, "pending delivery dropped", "orderId", p.OrderID, "error", err)
		default:
			updated := s.backlog.Record(p.OrderID, err)
			if updated.Attempts >= maxAttempts {
				s.backlog.Remove(p.OrderID)
				dropped++
				s.logger.ErrorContext(ctx, "pending delivery gave up", "orderId", p.OrderID, "attempts", updated.Attempts, "error", err)
			}
		}
	}

	return delivered, dropped, s.backlog.Len()
}

func (s *Sink) deliver(ctx context.Context, orderID string) error {
	id, err := kernel.UUIDFromString(orderID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeliverOrderCommand(id)
	if err != nil {
		return err
	}

	return s.handler.Handle(ctx, cmd)
}

func isPermanent(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsRequired)
}
