// Package orderrepo persists the order aggregate with GORM.
package orderrepo

import (
	"time"

	"deliverytracker/internal/core/domain/model/kernel"
	"deliverytracker/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row layout of the orders table. The product is flattened into
// product_* columns and the status is stored as its numeric value.
type OrderDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID    string    `gorm:"not null"`
	ProductName  string    `gorm:"not null"`
	ProductImage string    `gorm:"not null"`
	ProductPrice float64   `gorm:"not null"`
	Status       int       `gorm:"not null;index"`
	CreatedAt    time.Time `gorm:"not null;index"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	p := o.Product()
	return OrderDTO{
		ID:           o.ID().Bytes(),
		ProductID:    p.ID(),
		ProductName:  p.Name(),
		ProductImage: p.Image(),
		ProductPrice: p.Price(),
		Status:       int(o.Status()),
		CreatedAt:    o.CreatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	product, err := order.NewProduct(dto.ProductID, dto.ProductName, dto.ProductImage, dto.ProductPrice)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, product, order.Status(dto.Status), dto.CreatedAt)
}
