package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCookedMeal(t *testing.T) {
	r := testRecipe("Omelette")

	meal := NewCookedMeal(r, testNow)
	assert.Equal(t, "2026-03-01", meal.Date)
	assert.Equal(t, "18:30", meal.Time)
	assert.Equal(t, MealStatusCompleted, meal.Status)
	assert.Equal(t, r.ID, meal.RecipeID)
	assert.Equal(t, r.Calories, meal.Calories)
}

func TestNewPlannedMeal(t *testing.T) {
	r := testRecipe("Omelette")

	meal, err := NewPlannedMeal(r, "2026-03-05", MealTypeBreakfast)
	require.NoError(t, err)
	assert.Equal(t, MealStatusPlanned, meal.Status)
	assert.Equal(t, MealTypeBreakfast, meal.MealType)

	_, err = NewPlannedMeal(r, "March 5th", MealTypeBreakfast)
	assert.ErrorIs(t, err, ErrInvalidMealDate)
}

func TestMealComplete(t *testing.T) {
	r := testRecipe("Omelette")
	meal, err := NewPlannedMeal(r, "2026-03-05", MealTypeDinner)
	require.NoError(t, err)

	require.NoError(t, meal.Complete())
	assert.Equal(t, MealStatusCompleted, meal.Status)
	assert.ErrorIs(t, meal.Complete(), ErrMealAlreadyCompleted)
}

func TestParseMealType(t *testing.T) {
	assert.Equal(t, MealTypeBreakfast, ParseMealType("BREAKFAST"))
	assert.Equal(t, MealTypeSnack, ParseMealType(" snack "))
	assert.Equal(t, MealTypeDinner, ParseMealType("supper"))
	assert.Equal(t, MealTypeDinner, ParseMealType(""))
}
