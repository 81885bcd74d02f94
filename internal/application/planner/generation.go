package planner

import (
	"context"
	"strings"

	"github.com/pantrysage/v1/internal/domain/recipe"
	"github.com/pantrysage/v1/internal/ports/inbound"
	"github.com/pantrysage/v1/internal/ports/outbound"
	"github.com/pantrysage/v1/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultBatchSize = 3
	maxBatchSize     = 8
)

// GenerateRecipes starts an incremental generation batch. Recipes are
// synthesized sequentially and delivered on the returned channel as each
// slot completes, so the first result is usable while later ones are
// still in flight. A failed slot is skipped, not fatal to the batch. The
// channel closes when the batch finishes or is cancelled.
func (s *Service) GenerateRecipes(ctx context.Context, opts inbound.GenerateOptions) (<-chan inbound.GeneratedRecipe, error) {
	count := opts.Count
	if count <= 0 {
		count = defaultBatchSize
	}
	if count > maxBatchSize {
		count = maxBatchSize
	}

	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return nil, errors.NewBadRequestError("a generation batch is already in progress")
	}
	if err := s.consumeGenerationCreditLocked(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	batchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.generating = true
	s.genCancel = cancel
	s.genSeq++
	batch := s.genSeq
	s.generated = nil

	pantryItems := s.pantryItemNamesLocked()
	prefs := s.prefs
	exclude := make([]string, 0, count+len(s.saved.Recipes))
	for _, r := range s.saved.Recipes {
		exclude = append(exclude, r.Title)
	}
	s.mu.Unlock()

	ch := make(chan inbound.GeneratedRecipe, count)

	go func() {
		defer close(ch)
		defer func() {
			s.mu.Lock()
			// A newer batch may own the flag by now; only this batch's
			// own teardown may clear it.
			if s.genSeq == batch {
				s.genCancel = nil
				s.generating = false
			}
			s.mu.Unlock()
		}()

		for slot := 0; slot < count; slot++ {
			if batchCtx.Err() != nil {
				return
			}

			resp, err := s.ai.SynthesizeRecipe(batchCtx, outbound.RecipeRequest{
				PantryItems:   pantryItems,
				Preferences:   prefs,
				ExcludeTitles: exclude,
				Query:         opts.Query,
				MealType:      opts.MealType,
				Servings:      opts.Servings,
			})
			if err != nil {
				if batchCtx.Err() != nil {
					return
				}
				s.logger.Warn("Generation slot failed, skipping",
					zap.Int("slot", slot), zap.Error(err))
				continue
			}

			r := s.buildRecipe(resp)
			if opts.WithImages {
				r.AttachImage(s.ai.SynthesizeImage(batchCtx, r.Title))
			}
			exclude = append(exclude, r.Title)

			s.mu.Lock()
			if batchCtx.Err() != nil {
				s.mu.Unlock()
				return
			}
			s.generated = append(s.generated, r)
			s.mu.Unlock()

			ch <- inbound.GeneratedRecipe{Slot: slot, Recipe: r}
		}
	}()

	return ch, nil
}

// CancelGeneration aborts an in-flight batch. Recipes already delivered
// stay; the pending slot is abandoned.
func (s *Service) CancelGeneration() {
	s.mu.Lock()
	cancelled := s.genCancel != nil
	s.cancelGenerationLocked()
	s.mu.Unlock()

	if cancelled {
		s.logger.Info("Generation batch cancelled")
	}
}

// cancelGenerationLocked aborts the in-flight batch, if any. Callers
// hold the mutex.
func (s *Service) cancelGenerationLocked() {
	if s.genCancel != nil {
		s.genCancel()
		s.genCancel = nil
		s.generating = false
	}
}

// IsGenerating reports whether a batch is in flight.
func (s *Service) IsGenerating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

// GeneratedRecipes returns the current batch's results in FIFO order.
func (s *Service) GeneratedRecipes() []recipe.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]recipe.Recipe, len(s.generated))
	copy(out, s.generated)
	return out
}

// ToggleSaveRecipe saves the recipe when absent from the collection and
// removes it when present. Returns whether the recipe is saved after the
// call.
func (s *Service) ToggleSaveRecipe(ctx context.Context, r recipe.Recipe) (bool, error) {
	if err := r.Validate(); err != nil {
		return false, errors.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.saved.Toggle(r)
	s.persistSaved(ctx)
	return saved, nil
}

// SavedRecipes returns the saved collection, most recently saved first.
func (s *Service) SavedRecipes() []recipe.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]recipe.Recipe, len(s.saved.Recipes))
	copy(out, s.saved.Recipes)
	return out
}

// CreateCustomRecipe builds a user-authored recipe and saves it.
func (s *Service) CreateCustomRecipe(ctx context.Context, title string, ingredients, instructions []string) (recipe.Recipe, error) {
	r, err := recipe.NewCustomRecipe(title, ingredients, instructions, s.now())
	if err != nil {
		return recipe.Recipe{}, errors.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.saved.Toggle(*r)
	s.persistSaved(ctx)
	return *r, nil
}

// buildRecipe converts a generation response into a domain recipe.
func (s *Service) buildRecipe(resp *outbound.RecipeResponse) recipe.Recipe {
	var missing []string
	if resp.MissingItems != nil {
		missing = *resp.MissingItems
	}
	matchScore := 0
	if resp.MatchScore != nil {
		matchScore = recipe.ClampMatchScore(*resp.MatchScore)
	}
	return recipe.Recipe{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(resp.Title),
		Description:  resp.Description,
		Ingredients:  resp.Ingredients,
		Instructions: resp.Instructions,
		TimeMinutes:  resp.TimeMinutes,
		Difficulty:   recipe.ParseDifficulty(resp.Difficulty),
		MissingItems: missing,
		MatchScore:   matchScore,
		Calories:     resp.Calories,
		Servings:     resp.Servings,
		AIGenerated:  true,
		CreatedAt:    s.now(),
	}
}

// pantryItemNamesLocked snapshots the active pantry's item names with
// quantities for prompt context. Callers hold the mutex.
func (s *Service) pantryItemNamesLocked() []string {
	p := s.activePantryLocked()
	names := make([]string, 0, len(p.Items))
	for _, ing := range p.Items {
		names = append(names, ing.Name+" ("+ing.Quantity+")")
	}
	return names
}
