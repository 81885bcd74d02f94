package planner

import (
	"context"

	"github.com/pantrysage/v1/internal/domain/pantry"
	"github.com/pantrysage/v1/internal/ports/outbound"
	"github.com/pantrysage/v1/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pantries returns a snapshot of every pantry for the active identity.
func (s *Service) Pantries() []pantry.Pantry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]pantry.Pantry, len(s.pantries))
	copy(out, s.pantries)
	return out
}

// ActivePantry returns a snapshot of the currently selected pantry.
func (s *Service) ActivePantry() pantry.Pantry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.activePantryLocked()
}

// CreatePantry adds a new named pantry and makes it active.
func (s *Service) CreatePantry(ctx context.Context, name string) (pantry.Pantry, error) {
	p, err := pantry.NewPantry(name)
	if err != nil {
		return pantry.Pantry{}, errors.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pantries = append(s.pantries, *p)
	s.activePantry = p.ID
	s.persistPantries(ctx)
	return *p, nil
}

// SelectPantry switches the active pantry.
func (s *Service) SelectPantry(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.pantryByIDLocked(id); err != nil {
		return err
	}
	s.activePantry = id
	return nil
}

// AddIngredient adds one ingredient to the given pantry, merging
// quantities when an ingredient of the same name already exists.
func (s *Service) AddIngredient(ctx context.Context, pantryID uuid.UUID, name, quantity string) (pantry.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pantryByIDLocked(pantryID)
	if err != nil {
		return pantry.Ingredient{}, err
	}
	ing, err := p.AddIngredient(name, quantity, s.now())
	if err != nil {
		return pantry.Ingredient{}, errors.NewValidationError(err.Error())
	}
	s.persistPantries(ctx)
	return ing, nil
}

// AdjustIngredientQuantity applies a signed delta to an ingredient's
// quantity magnitude. A resulting magnitude at or below zero removes the
// ingredient.
func (s *Service) AdjustIngredientQuantity(ctx context.Context, pantryID, ingredientID uuid.UUID, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pantryByIDLocked(pantryID)
	if err != nil {
		return err
	}
	removed, err := p.AdjustQuantity(ingredientID, delta)
	if err != nil {
		return errors.NewNotFoundError("ingredient")
	}
	if removed {
		s.logger.Debug("Ingredient depleted",
			zap.String("ingredient_id", ingredientID.String()))
	}
	s.persistPantries(ctx)
	return nil
}

// RemoveIngredient deletes an ingredient from the given pantry.
func (s *Service) RemoveIngredient(ctx context.Context, pantryID, ingredientID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pantryByIDLocked(pantryID)
	if err != nil {
		return err
	}
	if err := p.Remove(ingredientID); err != nil {
		return errors.NewNotFoundError("ingredient")
	}
	s.persistPantries(ctx)
	return nil
}

// ImportIngredients parses free text into items and merges each into the
// given pantry. The whole batch commits together.
func (s *Service) ImportIngredients(ctx context.Context, pantryID uuid.UUID, text string) ([]pantry.Ingredient, error) {
	items, err := s.ai.ParseItemsFromText(ctx, text)
	if err != nil {
		return nil, errors.NewGenerationError("list parsing", err)
	}
	return s.mergeParsedItems(ctx, pantryID, items)
}

// ScanReceipt extracts grocery items from a receipt or fridge photo and
// merges them into the given pantry.
func (s *Service) ScanReceipt(ctx context.Context, pantryID uuid.UUID, image []byte, mimeType string) ([]pantry.Ingredient, error) {
	items, err := s.ai.ParseItemsFromImage(ctx, image, mimeType)
	if err != nil {
		return nil, errors.NewGenerationError("receipt parsing", err)
	}
	return s.mergeParsedItems(ctx, pantryID, items)
}

func (s *Service) mergeParsedItems(ctx context.Context, pantryID uuid.UUID, items []outbound.ParsedItem) ([]pantry.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pantryByIDLocked(pantryID)
	if err != nil {
		return nil, err
	}
	added := make([]pantry.Ingredient, 0, len(items))
	for _, item := range items {
		ing, err := p.AddIngredient(item.Name, item.Quantity, s.now())
		if err != nil {
			s.logger.Warn("Skipping unusable parsed item",
				zap.String("name", item.Name), zap.Error(err))
			continue
		}
		added = append(added, ing)
	}
	if len(added) > 0 {
		s.persistPantries(ctx)
	}
	return added, nil
}
