// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
package outbound

import (
	"context"

	"github.com/fridgechef/fridgechef/internal/domain/recipe"
)

// GenerationRequest carries everything a single generation call needs
type GenerationRequest struct {
	Ingredients []string
	MealTime    recipe.MealTime
	// Language is the display language the recipes should be written in ("en", "ko")
	Language string
}

// RecipeGenerator turns ingredients and a meal time into recipe suggestions.
// Implementations issue exactly one outbound request per call and never retry.
type RecipeGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (*recipe.RecipeResponse, error)
}
