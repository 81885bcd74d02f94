package shopping

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pantrysage/v1/internal/domain/pantry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	item, err := NewItem("  Cheddar Cheese ", "1 block", "recipe", testNow)
	require.NoError(t, err)
	assert.Equal(t, "Cheddar Cheese", item.Name)
	assert.Equal(t, pantry.CategoryDairy, item.Category)
	assert.False(t, item.Checked)

	_, err = NewItem("   ", "1", "", testNow)
	assert.ErrorIs(t, err, ErrEmptyItemName)
}

func TestCartAddMergesByName(t *testing.T) {
	var cart Cart

	first, _ := NewItem("Eggs", "6", "", testNow)
	cart.Add(first)

	dup, _ := NewItem("eggs", "6", "plan", testNow)
	merged := cart.Add(dup)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, "12", merged.Quantity)
}

func TestCartToggleAndRemove(t *testing.T) {
	var cart Cart
	item, _ := NewItem("Milk", "1", "", testNow)
	cart.Add(item)

	require.NoError(t, cart.Toggle(item.ID))
	assert.True(t, cart.Items[0].Checked)
	require.NoError(t, cart.Toggle(item.ID))
	assert.False(t, cart.Items[0].Checked)

	assert.ErrorIs(t, cart.Toggle(uuid.New()), ErrItemNotFound)
	require.NoError(t, cart.Remove(item.ID))
	assert.ErrorIs(t, cart.Remove(item.ID), ErrItemNotFound)
}

func TestCartTotal(t *testing.T) {
	var cart Cart
	a, _ := NewItem("Eggs", "12", "", testNow)
	a.Price = 3.50
	b, _ := NewItem("Milk", "1", "", testNow)
	b.Price = 2.25
	cart.Add(a)
	cart.Add(b)

	assert.InDelta(t, 5.75, cart.Total(), 1e-9)

	cart.Clear()
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total())
}
