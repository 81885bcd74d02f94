// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"

	"github.com/pantrysage/v1/internal/domain/account"
)

// Collection names the five logical collections persisted per identity.
// The values are part of the storage layout and must stay stable.
type Collection string

const (
	CollectionPantries Collection = "pantries"
	CollectionShopping Collection = "shopping"
	CollectionRecipes  Collection = "recipes"
	CollectionHistory  Collection = "history"
	CollectionPrefs    Collection = "prefs"
)

// AllCollections lists every per-identity collection.
func AllCollections() []Collection {
	return []Collection{
		CollectionPantries,
		CollectionShopping,
		CollectionRecipes,
		CollectionHistory,
		CollectionPrefs,
	}
}

// CollectionStore is the namespaced key-value persistence boundary. The
// in-memory state is always authoritative for the session: Load reports
// false (leaving out untouched, so callers fall back to their default)
// on a missing key, malformed payload, or backend failure, and Save
// failures are surfaced to callers as ordinary errors that they log as
// non-fatal warnings.
type CollectionStore interface {
	Load(ctx context.Context, identityKey string, collection Collection, out interface{}) bool
	Save(ctx context.Context, identityKey string, collection Collection, value interface{}) error

	// The session marker lives under a single unprefixed key and holds
	// the last signed-in email.
	LoadSessionMarker(ctx context.Context) (string, bool)
	SaveSessionMarker(ctx context.Context, email string) error
	ClearSessionMarker(ctx context.Context) error
}

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// RecipeRequest asks the generation service for a single recipe.
type RecipeRequest struct {
	PantryItems []string
	Preferences account.Preferences
	// ExcludeTitles lists titles already produced in this batch so the
	// model does not repeat itself.
	ExcludeTitles []string
	// CuisineFocus induces variety across repeated calls; the client
	// picks one at random when empty.
	CuisineFocus string
	Query        string
	MealType     string
	Servings     int
}

// RecipeResponse is the structured recipe returned by the generation
// service. Title, Ingredients, Instructions, Servings, MissingItems,
// and MatchScore are required; the rest is defaulted by the client when
// absent. MissingItems and MatchScore are pointers so a present-but-
// empty list and a genuine zero score pass validation while an omitted
// key fails it.
type RecipeResponse struct {
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description"`
	Ingredients  []string  `json:"ingredients" validate:"required,min=1"`
	Instructions []string  `json:"instructions" validate:"required,min=1"`
	TimeMinutes  int       `json:"time_minutes"`
	Difficulty   string    `json:"difficulty"`
	MissingItems *[]string `json:"missing_items" validate:"required"`
	MatchScore   *int      `json:"match_score" validate:"required"`
	Calories     int       `json:"calories"`
	Servings     int       `json:"servings" validate:"required,min=1"`
}

// ParsedItem is one structured entry recovered from a receipt image or
// pasted free-text grocery list.
type ParsedItem struct {
	Name     string `json:"name" validate:"required"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
}

// ShoppingPlanRequest asks for a multi-recipe shopping plan from one
// free-text request (e.g. "5 dinners under $20").
type ShoppingPlanRequest struct {
	PantryItems []string
	Query       string
	Preferences account.Preferences
}

// ShoppingPlan is one concept within a shopping-plan response. Items
// carry the plan's missing-ingredient list.
type ShoppingPlan struct {
	Concept     string          `json:"concept" validate:"required"`
	Description string          `json:"description"`
	Items       []ParsedItem    `json:"items" validate:"required,min=1,dive"`
	FullRecipe  *RecipeResponse `json:"full_recipe"`
}

// AIService is the single boundary for all calls to the external
// generative-AI service. Implementations provide uniform retry,
// tolerant response parsing, and a stable typed contract per operation.
type AIService interface {
	SynthesizeRecipe(ctx context.Context, req RecipeRequest) (*RecipeResponse, error)

	// SynthesizeImage is best-effort: image generation is decorative and
	// must never block the primary flow, so failures yield an empty
	// reference instead of an error.
	SynthesizeImage(ctx context.Context, subject string) string

	ParseItemsFromImage(ctx context.Context, image []byte, mimeType string) ([]ParsedItem, error)
	ParseItemsFromText(ctx context.Context, text string) ([]ParsedItem, error)

	Chat(ctx context.Context, history []ChatMessage, message string, pantryContext []string) (string, error)

	PlanShopping(ctx context.Context, req ShoppingPlanRequest) ([]ShoppingPlan, error)
}
