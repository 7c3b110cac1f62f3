// Package queries contains read operations for retrieving system state.
// Queries bypass the domain model and return read models shaped for the API.
package queries

import (
	"database/sql"
	"time"

	"deliverytracker/internal/core/domain/model/kernel"
	"deliverytracker/internal/core/domain/model/order"

	"github.com/google/uuid"
)

const selectOrderColumns = `
	SELECT
		id,
		product_id,
		product_name,
		product_image,
		product_price,
		status,
		created_at
	FROM orders`

// OrderReadModel is the order representation returned by order queries.
type OrderReadModel struct {
	ID           kernel.UUID
	ProductID    string
	ProductName  string
	ProductImage string
	ProductPrice float64
	Status       order.Status
	CreatedAt    time.Time
}

func scanOrder(rows *sql.Rows) (OrderReadModel, error) {
	var (
		m      OrderReadModel
		id     uuid.UUID
		status int
	)

	err := rows.Scan(
		&id,
		&m.ProductID,
		&m.ProductName,
		&m.ProductImage,
		&m.ProductPrice,
		&status,
		&m.CreatedAt,
	)
	if err != nil {
		return OrderReadModel{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return OrderReadModel{}, err
	}
	m.ID = orderID
	m.Status = order.Status(status)
	m.CreatedAt = m.CreatedAt.UTC()

	return m, nil
}
