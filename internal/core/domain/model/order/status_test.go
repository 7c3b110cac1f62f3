package order_test

import (
	"testing"

	"deliverytracker/internal/core/domain/model/order"
	"deliverytracker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Constants(t *testing.T) {
	assert.Equal(t, 0, int(order.Unknown))
	assert.Equal(t, 1, int(order.Placed))
	assert.Equal(t, 2, int(order.OutForDelivery))
	assert.Equal(t, 3, int(order.Delivered))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Placed", order.Placed.String())
	assert.Equal(t, "Out for Delivery", order.OutForDelivery.String())
	assert.Equal(t, "Delivered", order.Delivered.String())
	assert.Equal(t, "Unknown", order.Unknown.String())
	assert.Equal(t, "Unknown", order.Status(42).String())
}

func TestStatus_Validate(t *testing.T) {
	for _, s := range []order.Status{order.Placed, order.OutForDelivery, order.Delivered} {
		require.NoError(t, s.Validate(), s.String())
	}

	for _, s := range []order.Status{order.Unknown, order.Status(-1), order.Status(4)} {
		err := s.Validate()
		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	}
}

func TestStatus_Dispatch(t *testing.T) {
	next, err := order.Placed.Dispatch()
	require.NoError(t, err)
	assert.Equal(t, order.OutForDelivery, next)

	for _, s := range []order.Status{order.Unknown, order.OutForDelivery, order.Delivered} {
		_, err = s.Dispatch()
		require.Error(t, err, s.String())
		assert.Contains(t, err.Error(), "is not a valid status to dispatch")
	}
}

func TestStatus_Deliver(t *testing.T) {
	for _, s := range []order.Status{order.Placed, order.OutForDelivery} {
		next, err := s.Deliver()
		require.NoError(t, err, s.String())
		assert.Equal(t, order.Delivered, next)
	}

	for _, s := range []order.Status{order.Unknown, order.Delivered} {
		_, err := s.Deliver()
		require.Error(t, err, s.String())
		assert.Contains(t, err.Error(), "is not a valid status to deliver")
	}
}

func TestStatus_IsFinal(t *testing.T) {
	assert.True(t, order.Delivered.IsFinal())
	assert.False(t, order.Placed.IsFinal())
	assert.False(t, order.OutForDelivery.IsFinal())
}
