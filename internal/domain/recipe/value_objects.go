package recipe

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Value Objects - Immutable objects that describe aspects of the domain

// MealTime is the meal the user is cooking for
type MealTime string

const (
	MealTimeBreakfast MealTime = "breakfast"
	MealTimeLunch     MealTime = "lunch"
	MealTimeDinner    MealTime = "dinner"
)

// DefaultMealTime is selected when a session starts
const DefaultMealTime = MealTimeLunch

// DefaultRecipeCount is how many recipes one generation asks for
const DefaultRecipeCount = 3

// MealTimes returns the meal times in display order
func MealTimes() []MealTime {
	return []MealTime{MealTimeBreakfast, MealTimeLunch, MealTimeDinner}
}

// Valid reports whether m is one of the known meal times
func (m MealTime) Valid() bool {
	switch m {
	case MealTimeBreakfast, MealTimeLunch, MealTimeDinner:
		return true
	}
	return false
}

// ParseMealTime parses a wire value such as "lunch"
func ParseMealTime(s string) (MealTime, error) {
	m := MealTime(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMealTime, s)
	}
	return m, nil
}

// DifficultyLevel represents recipe difficulty
type DifficultyLevel string

const (
	DifficultyLevelEasy   DifficultyLevel = "easy"
	DifficultyLevelMedium DifficultyLevel = "medium"
	DifficultyLevelHard   DifficultyLevel = "hard"
)

// DifficultyLevels returns the closed set accepted from the generation service
func DifficultyLevels() []DifficultyLevel {
	return []DifficultyLevel{DifficultyLevelEasy, DifficultyLevelMedium, DifficultyLevelHard}
}

// Valid reports whether d is one of the three known levels
func (d DifficultyLevel) Valid() bool {
	switch d {
	case DifficultyLevelEasy, DifficultyLevelMedium, DifficultyLevelHard:
		return true
	}
	return false
}

// Ingredient is a food item the user has on hand.
// IDs are time ordered and unrelated to the name, so the same name may appear twice.
type Ingredient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewIngredient trims name and assigns a fresh ID
func NewIngredient(name string) (Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Ingredient{}, ErrEmptyIngredient
	}
	return Ingredient{ID: newIngredientID(), Name: name}, nil
}

// newIngredientID prefers a UUIDv7 so ids sort by creation time
func newIngredientID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.NewString())
	}
	return id.String()
}

// IngredientNames returns the names in list order
func IngredientNames(ingredients []Ingredient) []string {
	names := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		names = append(names, ing.Name)
	}
	return names
}
