package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Input validation errors
	ErrEmptyIngredient  = errors.New("ingredient name must not be blank")
	ErrNoIngredients    = errors.New("at least one ingredient is required")
	ErrUnknownMealTime  = errors.New("unknown meal time")
	ErrIngredientAbsent = errors.New("ingredient not found")

	// Generation errors
	ErrMissingCredential    = errors.New("generation service credential is not configured")
	ErrInvalidResponseShape = errors.New("invalid response shape")
)
