// Package recipe contains the core domain logic for generated and
// hand-entered recipes and the meal history built from them.
package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty grades how demanding a recipe is to cook.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty maps a raw string onto the difficulty scale, defaulting
// to Easy for anything unrecognized.
func ParseDifficulty(raw string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "medium":
		return DifficultyMedium
	case "hard":
		return DifficultyHard
	default:
		return DifficultyEasy
	}
}

// Defaults applied when the generation service omits optional fields.
const (
	DefaultTimeMinutes = 20
	DefaultCalories    = 500
	DefaultServings    = 2
)

// Recipe is a single dish: AI-synthesized, scanned, or manually entered.
// Once created a recipe is never mutated except to attach a
// lazily-generated image.
type Recipe struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Ingredients  []string   `json:"ingredients"`
	Instructions []string   `json:"instructions"`
	TimeMinutes  int        `json:"time_minutes"`
	Difficulty   Difficulty `json:"difficulty"`
	// MissingItems lists ingredient names absent from the pantry at
	// generation time.
	MissingItems []string `json:"missing_items,omitempty"`
	// MatchScore is the 0-100 estimate of pantry coverage.
	MatchScore  int       `json:"match_score"`
	Calories    int       `json:"calories,omitempty"`
	Servings    int       `json:"servings,omitempty"`
	ImageRef    string    `json:"image_ref,omitempty"`
	AIGenerated bool      `json:"ai_generated"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate validates the recipe
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	if r.MatchScore < 0 || r.MatchScore > 100 {
		return ErrMatchScoreOutOfRange
	}
	return nil
}

// ClampMatchScore bounds a raw score into [0, 100].
func ClampMatchScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// NewCustomRecipe creates a manually entered recipe.
func NewCustomRecipe(title string, ingredients, instructions []string, now time.Time) (*Recipe, error) {
	r := &Recipe{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(title),
		Ingredients:  ingredients,
		Instructions: instructions,
		TimeMinutes:  DefaultTimeMinutes,
		Difficulty:   DifficultyEasy,
		MatchScore:   0,
		CreatedAt:    now,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// AttachImage records a lazily-generated image reference. The only
// permitted post-creation mutation.
func (r *Recipe) AttachImage(ref string) {
	r.ImageRef = ref
}

// Favorites is the saved-recipes collection. Membership is keyed by
// recipe id and toggling is an involution.
type Favorites struct {
	Recipes []Recipe `json:"recipes"`
}

// Contains reports whether a recipe id is saved.
func (f *Favorites) Contains(id uuid.UUID) bool {
	for _, r := range f.Recipes {
		if r.ID == id {
			return true
		}
	}
	return false
}

// Toggle adds the recipe when absent (prepending, so recent saves list
// first) and removes it when present. Returns true when the recipe is
// saved after the call.
func (f *Favorites) Toggle(r Recipe) bool {
	for i := range f.Recipes {
		if f.Recipes[i].ID == r.ID {
			f.Recipes = append(f.Recipes[:i], f.Recipes[i+1:]...)
			return false
		}
	}
	f.Recipes = append([]Recipe{r}, f.Recipes...)
	return true
}
