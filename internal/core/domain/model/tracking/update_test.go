package tracking_test

import (
	"testing"

	"deliverytracker/internal/core/domain/model/order"
	"deliverytracker/internal/core/domain/model/tracking"

	"github.com/stretchr/testify/assert"
)

func TestETAMinutes(t *testing.T) {
	tests := []struct {
		routeLen, cursor, want int
	}{
		{21, 0, 10},
		{21, 1, 10},
		{21, 2, 9},
		{21, 18, 1},
		{21, 19, 1},
		{21, 20, 0},
		{21, 25, 0},
		{1, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tracking.ETAMinutes(tt.routeLen, tt.cursor), "len=%d cursor=%d", tt.routeLen, tt.cursor)
	}
}

func TestUpdateAt(t *testing.T) {
	route := straightRoute(t, 21)

	first := tracking.UpdateAt("order-1", route, 0)
	assert.Equal(t, "order-1", first.OrderID)
	assert.Equal(t, order.OutForDelivery, first.Status)
	assert.Equal(t, 10, first.ETA)
	assert.False(t, first.IsFinal())
	equal, _ := first.Location.IsEqual(route.Origin())
	assert.True(t, equal)

	last := tracking.UpdateAt("order-1", route, 20)
	assert.Equal(t, order.Delivered, last.Status)
	assert.Equal(t, 0, last.ETA)
	assert.True(t, last.IsFinal())
	equal, _ = last.Location.IsEqual(route.Destination())
	assert.True(t, equal)

	past := tracking.UpdateAt("order-1", route, 21)
	assert.Equal(t, last, past)
}

func TestUpdateAt_ETAIsNonIncreasing(t *testing.T) {
	route := straightRoute(t, 21)

	prev := tracking.UpdateAt("o", route, 0).ETA
	for cursor := 1; cursor < route.Len(); cursor++ {
		eta := tracking.UpdateAt("o", route, cursor).ETA
		assert.LessOrEqual(t, eta, prev, "cursor %d", cursor)
		prev = eta
	}
	assert.Equal(t, 0, prev)
}

func TestSessionState(t *testing.T) {
	assert.Equal(t, "running", tracking.Running.String())
	assert.Equal(t, "completed", tracking.Completed.String())
	assert.Equal(t, "cancelled", tracking.Cancelled.String())
	assert.Equal(t, "unknown", tracking.SessionState(9).String())

	assert.False(t, tracking.Running.IsTerminal())
	assert.True(t, tracking.Completed.IsTerminal())
	assert.True(t, tracking.Cancelled.IsTerminal())
}
