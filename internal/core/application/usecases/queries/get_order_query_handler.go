package queries

import (
	"context"

	"deliverytracker/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order by id.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns the order or an errs.ObjectNotFoundError when no row matches.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderReadModel, error) {
	if err := query.Validate(); err != nil {
		return OrderReadModel{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(selectOrderColumns+`
		WHERE id = ?`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return OrderReadModel{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return OrderReadModel{}, err
		}
		return OrderReadModel{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	return scanOrder(rows)
}
