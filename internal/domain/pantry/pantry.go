// Package pantry contains the core domain logic for virtual pantries:
// the ingredient taxonomy, free-text quantity arithmetic, and the
// merge-by-name policy used everywhere an ingredient list is mutated.
package pantry

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Ingredient represents a single item held in a pantry.
type Ingredient struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Category Category   `json:"category"`
	Quantity string     `json:"quantity"`
	Expiry   *time.Time `json:"expiry,omitempty"`
	AddedAt  time.Time  `json:"added_at"`
	ImageRef string     `json:"image_ref,omitempty"`
}

// Validate validates the ingredient
func (i Ingredient) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyIngredientName
	}
	return nil
}

// Magnitude returns the parsed numeric magnitude of the quantity string.
func (i Ingredient) Magnitude() float64 {
	return ParseQuantity(i.Quantity).Magnitude
}

// Pantry is a named, ordered collection of ingredients representing one
// physical storage location.
type Pantry struct {
	ID    uuid.UUID    `json:"id"`
	Name  string       `json:"name"`
	Items []Ingredient `json:"items"`
}

// DefaultPantryName seeds the pantry every identity starts with.
const DefaultPantryName = "Main Kitchen"

// NewPantry creates a new named pantry
func NewPantry(name string) (*Pantry, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyPantryName
	}
	return &Pantry{
		ID:    uuid.New(),
		Name:  strings.TrimSpace(name),
		Items: []Ingredient{},
	}, nil
}

// NewDefaultPantry seeds the pantry created for a fresh identity.
func NewDefaultPantry() *Pantry {
	p, _ := NewPantry(DefaultPantryName)
	return p
}

// Find returns the ingredient whose name matches case-insensitively.
func (p *Pantry) Find(name string) (*Ingredient, bool) {
	for i := range p.Items {
		if strings.EqualFold(p.Items[i].Name, name) {
			return &p.Items[i], true
		}
	}
	return nil, false
}

// FindByID returns the ingredient with the given id.
func (p *Pantry) FindByID(id uuid.UUID) (*Ingredient, bool) {
	for i := range p.Items {
		if p.Items[i].ID == id {
			return &p.Items[i], true
		}
	}
	return nil, false
}

// AddIngredient adds an ingredient, merging quantities in place when an
// item with the same name already exists. This is the idempotent-merge
// policy for duplicate entries: a name match never creates a second entity.
func (p *Pantry) AddIngredient(name, quantity string, now time.Time) (Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Ingredient{}, ErrEmptyIngredientName
	}
	if strings.TrimSpace(quantity) == "" {
		quantity = "1"
	}

	if existing, ok := p.Find(name); ok {
		existing.Quantity = MergeQuantities(existing.Quantity, quantity)
		return *existing, nil
	}

	item := Ingredient{
		ID:       uuid.New(),
		Name:     name,
		Category: Categorize(name),
		Quantity: quantity,
		AddedAt:  now,
	}
	p.Items = append(p.Items, item)
	return item, nil
}

// AdjustQuantity changes an ingredient's magnitude by delta, flooring at
// zero. Reaching exactly zero removes the ingredient entirely; the bool
// reports whether the item was removed.
func (p *Pantry) AdjustQuantity(id uuid.UUID, delta float64) (bool, error) {
	for i := range p.Items {
		if p.Items[i].ID != id {
			continue
		}

		q := ParseQuantity(p.Items[i].Quantity)
		q.Magnitude += delta
		if q.Magnitude <= 0 {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			return true, nil
		}

		p.Items[i].Quantity = q.String()
		return false, nil
	}
	return false, ErrIngredientNotFound
}

// Remove deletes an ingredient by id.
func (p *Pantry) Remove(id uuid.UUID) error {
	for i := range p.Items {
		if p.Items[i].ID == id {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			return nil
		}
	}
	return ErrIngredientNotFound
}

// ConsumeMatching removes every ingredient whose name fuzzy-matches one of
// the given recipe ingredient lines. The match is case-insensitive
// substring containment in both directions ("Egg" matches "2 large eggs"),
// preserving the depletion behavior users see after cooking a recipe.
func (p *Pantry) ConsumeMatching(recipeIngredients []string) []Ingredient {
	var consumed []Ingredient
	remaining := p.Items[:0]

	for _, item := range p.Items {
		if ingredientUsed(item.Name, recipeIngredients) {
			consumed = append(consumed, item)
		} else {
			remaining = append(remaining, item)
		}
	}

	p.Items = remaining
	return consumed
}

func ingredientUsed(name string, recipeIngredients []string) bool {
	lowerName := strings.ToLower(name)
	for _, line := range recipeIngredients {
		lowerLine := strings.ToLower(line)
		if strings.Contains(lowerLine, lowerName) || strings.Contains(lowerName, lowerLine) {
			return true
		}
	}
	return false
}
