package pantry

import "errors"

// Domain errors for pantry operations

var (
	ErrEmptyPantryName     = errors.New("pantry name is required")
	ErrEmptyIngredientName = errors.New("ingredient name is required")
	ErrIngredientNotFound  = errors.New("ingredient not found in pantry")
	ErrPantryNotFound      = errors.New("pantry not found")
)
