package order

import (
	"errors"
	"time"

	"deliverytracker/internal/core/domain/model/kernel"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order did not come from NewOrder
	// or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of the order store. The tracking core never reads it;
// it only asks for the terminal Delivered transition once a simulated route ends.
//
// Invariants:
//   - valid identifier and product
//   - status transitions follow Status
//   - created only through NewOrder or RestoreOrder
type Order struct {
	id        kernel.UUID
	product   Product
	status    Status
	createdAt time.Time

	isConstructed bool
}

// NewOrder creates a Placed order.
//
// Example:
//
//	product, _ := order.NewProduct("sku-1", "Margherita", "https://img/1.png", 9.5)
//	o, err := order.NewOrder(kernel.NewUUID(), product, time.Now())
func NewOrder(id kernel.UUID, product Product, createdAt time.Time) (*Order, error) {
	return RestoreOrder(id, product, Placed, createdAt)
}

// RestoreOrder rebuilds an order from persistence with an arbitrary valid status.
func RestoreOrder(id kernel.UUID, product Product, status Status, createdAt time.Time) (*Order, error) {
	o := &Order{
		isConstructed: true,
		createdAt:     createdAt.UTC(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setProduct(product),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate rejects orders that bypassed the constructors.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Product() Product {
	return o.product
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Dispatch marks the order as out for delivery.
func (o *Order) Dispatch() error {
	newStatus, err := o.status.Dispatch()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Deliver marks the order as delivered. Delivered is final.
func (o *Order) Deliver() error {
	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setProduct(product Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	o.product = product
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
