// Package ports defines the contracts between the application core and its
// infrastructure adapters.
package ports

import (
	"context"

	"deliverytracker/internal/core/domain/model/kernel"
	"deliverytracker/internal/core/domain/model/order"
)

// OrderRepository is the persistence contract of the order aggregate.
type OrderRepository interface {
	// Add persists a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order. Returns an
	// errs.ObjectNotFoundError when no row matches.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order by identifier. Returns an errs.ObjectNotFoundError
	// when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
