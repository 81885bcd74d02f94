package planner

import (
	"context"

	"github.com/pantrysage/v1/internal/domain/recipe"
	"github.com/pantrysage/v1/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogMeal records the recipe as cooked now and depletes matching pantry
// ingredients. Depletion is a fuzzy name match: an imprecise guess beats
// asking the cook to reconcile inventory by hand.
func (s *Service) LogMeal(ctx context.Context, r recipe.Recipe) (recipe.MealLog, error) {
	if err := r.Validate(); err != nil {
		return recipe.MealLog{}, errors.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meal := recipe.NewCookedMeal(r, s.now())
	s.history = append([]recipe.MealLog{meal}, s.history...)
	s.persistHistory(ctx)

	p := s.activePantryLocked()
	if consumed := p.ConsumeMatching(r.Ingredients); len(consumed) > 0 {
		s.persistPantries(ctx)
		s.logger.Debug("Pantry depleted after cooking",
			zap.String("recipe", r.Title), zap.Int("consumed", len(consumed)))
	}
	return meal, nil
}

// ScheduleMeal plans the recipe on a calendar date without touching the
// pantry; depletion happens when the meal is completed.
func (s *Service) ScheduleMeal(ctx context.Context, r recipe.Recipe, date, mealType string) (recipe.MealLog, error) {
	if err := r.Validate(); err != nil {
		return recipe.MealLog{}, errors.NewValidationError(err.Error())
	}
	meal, err := recipe.NewPlannedMeal(r, date, recipe.ParseMealType(mealType))
	if err != nil {
		return recipe.MealLog{}, errors.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append([]recipe.MealLog{meal}, s.history...)
	s.persistHistory(ctx)
	return meal, nil
}

// CompleteMeal marks a planned meal as cooked and runs pantry depletion
// against its recipe title.
func (s *Service) CompleteMeal(ctx context.Context, mealID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.history {
		if s.history[i].ID != mealID {
			continue
		}
		if err := s.history[i].Complete(); err != nil {
			return errors.NewValidationError(err.Error())
		}
		s.persistHistory(ctx)

		p := s.activePantryLocked()
		if consumed := p.ConsumeMatching(s.ingredientsForLocked(s.history[i])); len(consumed) > 0 {
			s.persistPantries(ctx)
		}
		return nil
	}
	return errors.NewNotFoundError("meal")
}

// DeleteMeal removes an entry from the meal history.
func (s *Service) DeleteMeal(ctx context.Context, mealID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.history {
		if s.history[i].ID == mealID {
			s.history = append(s.history[:i], s.history[i+1:]...)
			s.persistHistory(ctx)
			return nil
		}
	}
	return errors.NewNotFoundError("meal")
}

// ingredientsForLocked recovers the ingredient list behind a meal log
// entry from the saved or generated collections, falling back to the
// recipe title when the recipe is no longer around. Callers hold the
// mutex.
func (s *Service) ingredientsForLocked(meal recipe.MealLog) []string {
	for _, r := range s.saved.Recipes {
		if r.ID == meal.RecipeID {
			return r.Ingredients
		}
	}
	for _, r := range s.generated {
		if r.ID == meal.RecipeID {
			return r.Ingredients
		}
	}
	return []string{meal.RecipeTitle}
}

// MealHistory returns the logged and planned meals, newest first.
func (s *Service) MealHistory() []recipe.MealLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]recipe.MealLog, len(s.history))
	copy(out, s.history)
	return out
}
