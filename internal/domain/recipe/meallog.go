package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MealType slots a meal into the daily calendar.
type MealType string

const (
	MealTypeBreakfast MealType = "Breakfast"
	MealTypeLunch     MealType = "Lunch"
	MealTypeDinner    MealType = "Dinner"
	MealTypeSnack     MealType = "Snack"
	MealTypeDessert   MealType = "Dessert"
)

// ParseMealType maps a raw string onto the meal slots, defaulting to Dinner.
func ParseMealType(raw string) MealType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "breakfast":
		return MealTypeBreakfast
	case "lunch":
		return MealTypeLunch
	case "snack":
		return MealTypeSnack
	case "dessert":
		return MealTypeDessert
	default:
		return MealTypeDinner
	}
}

// MealStatus is the two-state meal lifecycle: planned meals may be
// completed; completed is terminal.
type MealStatus string

const (
	MealStatusPlanned   MealStatus = "planned"
	MealStatusCompleted MealStatus = "completed"
)

// MealLog records one meal on the calendar, either scheduled ahead of
// time or logged as cooked.
type MealLog struct {
	ID          uuid.UUID  `json:"id"`
	Date        string     `json:"date"` // YYYY-MM-DD
	Time        string     `json:"time,omitempty"`
	MealType    MealType   `json:"meal_type"`
	RecipeID    uuid.UUID  `json:"recipe_id"`
	RecipeTitle string     `json:"recipe_title"`
	Calories    int        `json:"calories,omitempty"`
	Status      MealStatus `json:"status"`
}

// NewCookedMeal logs a recipe as cooked right now.
func NewCookedMeal(r Recipe, now time.Time) MealLog {
	return MealLog{
		ID:          uuid.New(),
		Date:        now.Format("2006-01-02"),
		Time:        now.Format("15:04"),
		MealType:    ParseMealType(""),
		RecipeID:    r.ID,
		RecipeTitle: r.Title,
		Calories:    r.Calories,
		Status:      MealStatusCompleted,
	}
}

// NewPlannedMeal schedules a recipe onto the calendar.
func NewPlannedMeal(r Recipe, date string, mealType MealType) (MealLog, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return MealLog{}, ErrInvalidMealDate
	}
	return MealLog{
		ID:          uuid.New(),
		Date:        date,
		MealType:    mealType,
		RecipeID:    r.ID,
		RecipeTitle: r.Title,
		Calories:    r.Calories,
		Status:      MealStatusPlanned,
	}, nil
}

// Complete transitions a planned meal to completed.
func (m *MealLog) Complete() error {
	if m.Status != MealStatusPlanned {
		return ErrMealAlreadyCompleted
	}
	m.Status = MealStatusCompleted
	return nil
}
