// Package shopping contains the shopping cart and order domain: list
// items with grocery-list semantics and the order lifecycle created when
// a cart is placed.
package shopping

import (
	"strings"
	"time"

	"github.com/pantrysage/v1/internal/domain/pantry"

	"github.com/google/uuid"
)

// Item represents a single entry on the shopping list.
type Item struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Category pantry.Category `json:"category"`
	Checked  bool            `json:"checked"`
	Price    float64         `json:"price,omitempty"`
	Quantity string          `json:"quantity,omitempty"`
	// Source tags the recipe or shopping plan that produced the item.
	Source string `json:"source,omitempty"`
	// Store records a retailer affinity for sync, when known.
	Store   string    `json:"store,omitempty"`
	AddedAt time.Time `json:"added_at"`
}

// Validate validates the item
func (i Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyItemName
	}
	return nil
}

// NewItem creates a new unchecked shopping item with auto-categorization.
func NewItem(name, quantity, source string, now time.Time) (Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Item{}, ErrEmptyItemName
	}
	return Item{
		ID:       uuid.New(),
		Name:     name,
		Category: pantry.Categorize(name),
		Quantity: quantity,
		Source:   source,
		AddedAt:  now,
	}, nil
}

// Cart is the mutable shopping list for one identity.
type Cart struct {
	Items []Item `json:"items"`
}

// Find returns the item whose name matches case-insensitively.
func (c *Cart) Find(name string) (*Item, bool) {
	for i := range c.Items {
		if strings.EqualFold(c.Items[i].Name, name) {
			return &c.Items[i], true
		}
	}
	return nil, false
}

// Add appends an item to the cart, merging quantities on a
// case-insensitive name match instead of creating a duplicate.
func (c *Cart) Add(item Item) Item {
	if existing, ok := c.Find(item.Name); ok {
		existing.Quantity = pantry.MergeQuantities(existing.Quantity, item.Quantity)
		if existing.Source == "" {
			existing.Source = item.Source
		}
		return *existing
	}
	c.Items = append(c.Items, item)
	return item
}

// Remove deletes an item by id.
func (c *Cart) Remove(id uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// Toggle flips the checked flag on an item.
func (c *Cart) Toggle(id uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Checked = !c.Items[i].Checked
			return nil
		}
	}
	return ErrItemNotFound
}

// Total sums the known item prices.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price
	}
	return total
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}
