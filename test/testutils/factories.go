package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/fridgechef/fridgechef/internal/domain/recipe"
)

// KimchiFriedRice is the single-recipe response used across scenario tests
func KimchiFriedRice() *recipe.RecipeResponse {
	return &recipe.RecipeResponse{Recipes: []recipe.Recipe{{
		ID:            "1",
		Name:          "Kimchi Fried Rice",
		Description:   "...",
		Ingredients:   []string{"egg", "kimchi", "rice"},
		Instructions:  []string{"Step 1", "Step 2"},
		EstimatedTime: "15 min",
		Difficulty:    recipe.DifficultyLevelEasy,
	}}}
}

// RecipeFactory creates random but structurally valid recipes
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a new recipe factory with seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
	}
}

// Recipe returns one recipe; every required field is populated
func (rf *RecipeFactory) Recipe() recipe.Recipe {
	ingredients := make([]string, rf.faker.Number(1, 6))
	for i := range ingredients {
		ingredients[i] = rf.faker.Vegetable()
	}
	steps := make([]string, rf.faker.Number(1, 5))
	for i := range steps {
		steps[i] = rf.faker.Sentence(8)
	}

	levels := recipe.DifficultyLevels()
	return recipe.Recipe{
		ID:            rf.faker.UUID(),
		Name:          rf.faker.Lunch(),
		Description:   rf.faker.Sentence(12),
		Ingredients:   ingredients,
		Instructions:  steps,
		EstimatedTime: fmt.Sprintf("%d min", rf.faker.Number(5, 90)),
		Difficulty:    levels[rf.faker.Number(0, len(levels)-1)],
	}
}

// Response returns a response holding n recipes
func (rf *RecipeFactory) Response(n int) *recipe.RecipeResponse {
	resp := &recipe.RecipeResponse{Recipes: make([]recipe.Recipe, n)}
	for i := range resp.Recipes {
		resp.Recipes[i] = rf.Recipe()
	}
	return resp
}

// IngredientNames returns n random ingredient names
func (rf *RecipeFactory) IngredientNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = rf.faker.Vegetable()
	}
	return names
}
