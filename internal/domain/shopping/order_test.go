package shopping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testItems(t *testing.T) []Item {
	t.Helper()
	a, err := NewItem("Eggs", "12", "", testNow)
	require.NoError(t, err)
	a.Price = 3.50
	b, err := NewItem("Milk", "1 gallon", "", testNow)
	require.NoError(t, err)
	b.Price = 2.25
	return []Item{a, b}
}

func TestNewOrder(t *testing.T) {
	items := testItems(t)

	order, err := NewOrder(items, testNow)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.InDelta(t, 5.75, order.Total, 1e-9)
	assert.Len(t, order.Items, 2)

	// The snapshot must be independent of the source slice
	items[0].Name = "mutated"
	assert.Equal(t, "Eggs", order.Items[0].Name)
}

func TestNewOrderEmpty(t *testing.T) {
	_, err := NewOrder(nil, testNow)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestOrderProgression(t *testing.T) {
	order, err := NewOrder(testItems(t), testNow)
	require.NoError(t, err)

	want := []OrderStatus{
		OrderStatusConfirmed,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusCompleted,
	}
	for _, status := range want {
		require.NoError(t, order.Advance())
		assert.Equal(t, status, order.Status)
	}

	assert.ErrorIs(t, order.Advance(), ErrInvalidStatusTransition)
	assert.True(t, order.Status.IsTerminal())
}

func TestOrderCancel(t *testing.T) {
	order, err := NewOrder(testItems(t), testNow)
	require.NoError(t, err)

	require.NoError(t, order.Advance())
	require.NoError(t, order.Cancel())
	assert.Equal(t, OrderStatusCancelled, order.Status)

	assert.ErrorIs(t, order.Cancel(), ErrInvalidStatusTransition)
	assert.ErrorIs(t, order.Advance(), ErrInvalidStatusTransition)
}
