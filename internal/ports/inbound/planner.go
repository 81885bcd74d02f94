// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the contracts the HTTP layer consumes.
package inbound

import (
	"context"

	"github.com/pantrysage/v1/internal/domain/account"
	"github.com/pantrysage/v1/internal/domain/pantry"
	"github.com/pantrysage/v1/internal/domain/recipe"
	"github.com/pantrysage/v1/internal/domain/shopping"
	"github.com/pantrysage/v1/internal/ports/outbound"

	"github.com/google/uuid"
)

// SessionDTO describes the active identity.
type SessionDTO struct {
	Identity    account.Identity `json:"identity"`
	DisplayName string           `json:"display_name,omitempty"`
	Guest       bool             `json:"guest"`
}

// MembershipDTO summarizes the trial/subscription state machine for the
// settings surface.
type MembershipDTO struct {
	Tier               account.Tier       `json:"tier"`
	TrialState         account.TrialState `json:"trial_state"`
	TrialDaysRemaining int                `json:"trial_days_remaining"`
	CreditsUsed        int                `json:"credits_used"`
	CreditsRemaining   int                `json:"credits_remaining"`
}

// GenerateOptions configures one generation batch.
type GenerateOptions struct {
	Count    int    `json:"count"`
	Query    string `json:"query,omitempty"`
	MealType string `json:"meal_type,omitempty"`
	Servings int    `json:"servings,omitempty"`
	// WithImages requests a best-effort image per recipe.
	WithImages bool `json:"with_images,omitempty"`
}

// GeneratedRecipe is one completed slot of a generation batch, delivered
// incrementally in FIFO order.
type GeneratedRecipe struct {
	Slot   int           `json:"slot"`
	Recipe recipe.Recipe `json:"recipe"`
}

// PlannerService is the canonical state store for the active identity:
// every state-transition operation the UI can invoke.
type PlannerService interface {
	// Session and identity
	SignIn(ctx context.Context, name, email string) (SessionDTO, error)
	SignOut(ctx context.Context) error
	Session() SessionDTO

	// Pantry
	Pantries() []pantry.Pantry
	ActivePantry() pantry.Pantry
	CreatePantry(ctx context.Context, name string) (pantry.Pantry, error)
	SelectPantry(ctx context.Context, id uuid.UUID) error
	AddIngredient(ctx context.Context, pantryID uuid.UUID, name, quantity string) (pantry.Ingredient, error)
	AdjustIngredientQuantity(ctx context.Context, pantryID, ingredientID uuid.UUID, delta float64) error
	RemoveIngredient(ctx context.Context, pantryID, ingredientID uuid.UUID) error
	ImportIngredients(ctx context.Context, pantryID uuid.UUID, text string) ([]pantry.Ingredient, error)
	ScanReceipt(ctx context.Context, pantryID uuid.UUID, image []byte, mimeType string) ([]pantry.Ingredient, error)

	// Recipe generation
	GenerateRecipes(ctx context.Context, opts GenerateOptions) (<-chan GeneratedRecipe, error)
	CancelGeneration()
	IsGenerating() bool
	GeneratedRecipes() []recipe.Recipe
	ToggleSaveRecipe(ctx context.Context, r recipe.Recipe) (bool, error)
	SavedRecipes() []recipe.Recipe
	CreateCustomRecipe(ctx context.Context, title string, ingredients, instructions []string) (recipe.Recipe, error)

	// Meal history and calendar
	LogMeal(ctx context.Context, r recipe.Recipe) (recipe.MealLog, error)
	ScheduleMeal(ctx context.Context, r recipe.Recipe, date, mealType string) (recipe.MealLog, error)
	CompleteMeal(ctx context.Context, mealID uuid.UUID) error
	DeleteMeal(ctx context.Context, mealID uuid.UUID) error
	MealHistory() []recipe.MealLog

	// Shopping cart and orders
	Cart() shopping.Cart
	AddCartItem(ctx context.Context, name, quantity, source string) (shopping.Item, error)
	RemoveCartItem(ctx context.Context, itemID uuid.UUID) error
	ToggleCartItem(ctx context.Context, itemID uuid.UUID) error
	ExportMissingIngredients(ctx context.Context, r recipe.Recipe) ([]shopping.Item, error)
	PlanShopping(ctx context.Context, query string) ([]outbound.ShoppingPlan, error)
	CommitShoppingPlan(ctx context.Context, plan outbound.ShoppingPlan) ([]shopping.Item, error)
	PlaceOrder(ctx context.Context) (*shopping.Order, error)
	Orders() []shopping.Order
	AdvanceOrder(ctx context.Context, orderID uuid.UUID) (*shopping.Order, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID) (*shopping.Order, error)

	// Assistant
	Chat(ctx context.Context, history []outbound.ChatMessage, message string) (string, error)

	// Preferences and membership
	Preferences() account.Preferences
	UpdatePreferences(ctx context.Context, prefs account.Preferences) (account.Preferences, error)
	StartTrial(ctx context.Context) (MembershipDTO, error)
	ApplySubscription(ctx context.Context, tier string) (MembershipDTO, error)
	Membership() MembershipDTO
}
