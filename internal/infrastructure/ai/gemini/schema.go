package gemini

import (
	"google.golang.org/genai"

	"github.com/fridgechef/fridgechef/internal/domain/recipe"
)

var recipeFields = []string{"id", "name", "description", "ingredients", "instructions", "estimatedTime", "difficulty"}

// responseSchema constrains the model output to the RecipeResponse shape
func responseSchema() *genai.Schema {
	difficulties := make([]string, 0, 3)
	for _, d := range recipe.DifficultyLevels() {
		difficulties = append(difficulties, string(d))
	}

	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	list := func() *genai.Schema { return &genai.Schema{Type: genai.TypeArray, Items: str()} }

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"recipes": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":            str(),
						"name":          str(),
						"description":   str(),
						"ingredients":   list(),
						"instructions":  list(),
						"estimatedTime": str(),
						"difficulty":    {Type: genai.TypeString, Enum: difficulties},
					},
					PropertyOrdering: recipeFields,
					Required:         recipeFields,
				},
			},
		},
		Required: []string{"recipes"},
	}
}
