package tracking

import (
	"math"

	"deliverytracker/internal/core/domain/model/kernel"
	"deliverytracker/internal/core/domain/model/order"
)

// Update is one location/status event for a watched order. It is produced by a
// session tick and consumed by the watching connection; nothing stores it.
type Update struct {
	OrderID  string
	Location kernel.Location
	Status   order.Status
	// ETA is the estimated time remaining in minutes.
	ETA int
}

// IsFinal reports whether this is the last update of a session.
func (u Update) IsFinal() bool {
	return u.Status == order.Delivered
}

// UpdateAt builds the update a session emits when its cursor is at index cursor.
// The last index is Delivered with eta 0; earlier points are OutForDelivery with
// eta = round(remaining ticks / 2). A cursor past the end yields the final update.
func UpdateAt(orderID string, route Route, cursor int) Update {
	last := route.Len() - 1
	if cursor >= last {
		return Update{
			OrderID:  orderID,
			Location: route.Destination(),
			Status:   order.Delivered,
			ETA:      0,
		}
	}

	cursor = max(cursor, 0)
	return Update{
		OrderID:  orderID,
		Location: route.points[cursor],
		Status:   order.OutForDelivery,
		ETA:      ETAMinutes(route.Len(), cursor),
	}
}

// ETAMinutes is round((routeLen-1-cursor)/2), never negative.
func ETAMinutes(routeLen, cursor int) int {
	remaining := routeLen - 1 - cursor
	if remaining <= 0 {
		return 0
	}
	return int(math.Round(float64(remaining) / 2))
}
