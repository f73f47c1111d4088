// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/fridgechef/fridgechef/internal/domain/locale"
	"github.com/fridgechef/fridgechef/internal/domain/recipe"
)

// Phase names the observable state of a planning session
type Phase string

const (
	PhaseIdleEmpty       Phase = "idle-empty"
	PhaseIdleIngredients Phase = "idle-with-ingredients"
	PhaseLoading         Phase = "loading"
	PhaseLoaded          Phase = "loaded-with-results"
	PhaseErrored         Phase = "errored"
)

// Snapshot is an immutable copy of a session's state
type Snapshot struct {
	SessionID   string
	Locale      locale.Locale
	Ingredients []recipe.Ingredient
	MealTime    recipe.MealTime
	// RecipeCount is how many recipes a generation asks for
	RecipeCount int
	Loading     bool
	Error       string
	Recipes     []recipe.Recipe
	// GeneratedFor is the meal time of the last successful generation
	GeneratedFor recipe.MealTime
	UpdatedAt    time.Time
}

// Phase derives the state machine phase from the snapshot
func (s Snapshot) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.Error != "":
		return PhaseErrored
	case len(s.Recipes) > 0:
		return PhaseLoaded
	case len(s.Ingredients) > 0:
		return PhaseIdleIngredients
	default:
		return PhaseIdleEmpty
	}
}

// CanGenerate mirrors the primary button's enabled state
func (s Snapshot) CanGenerate() bool {
	return !s.Loading && len(s.Ingredients) > 0
}

// Planner is one interactive session: the ingredient list, the selected meal
// time and the outcome of the last generation.
type Planner interface {
	AddIngredient(name string) (recipe.Ingredient, error)
	RemoveIngredient(id string) error
	SelectMealTime(mt recipe.MealTime) error
	Generate(ctx context.Context) error
	StartOver()
	SetLocale(l locale.Locale)
	Snapshot() Snapshot
}
