package recipe

import "errors"

// Domain errors for recipe and meal operations

var (
	ErrEmptyTitle           = errors.New("recipe title is required")
	ErrMatchScoreOutOfRange = errors.New("match score must be between 0 and 100")
	ErrRecipeNotFound       = errors.New("recipe not found")
	ErrInvalidMealDate      = errors.New("meal date must be formatted YYYY-MM-DD")
	ErrMealAlreadyCompleted = errors.New("meal is already completed")
	ErrMealNotFound         = errors.New("meal not found")
)
