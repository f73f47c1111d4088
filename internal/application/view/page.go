// Package view turns a planner snapshot into the data the page templates render
package view

import (
	"github.com/fridgechef/fridgechef/internal/domain/locale"
	"github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/internal/ports/inbound"
)

// Page is everything the templates need for one render
type Page struct {
	Text *locale.Messages

	Ingredients []Chip
	MealTimes   []MealOption

	CanGenerate bool
	Loading     bool
	ButtonLabel string

	// Error is the session's last generation failure; Notice is a one-off
	// message for the current request, such as a rejected submission
	Error  string
	Notice string

	HasResults      bool
	ResultsSubtitle string
	Cards           []Card

	CSRFToken string
}

// Chip is one entered ingredient
type Chip struct {
	ID   string
	Name string
}

// MealOption is one button of the meal-time toggle
type MealOption struct {
	Value    string
	Label    string
	Selected bool
}

// Card is one rendered recipe
type Card struct {
	ID              string
	Name            string
	Description     string
	EstimatedTime   string
	Difficulty      string
	DifficultyClass string
	IngredientCount string
	Ingredients     []string
	Steps           []Step
}

// Step is a numbered instruction
type Step struct {
	Number int
	Text   string
}

// Banner returns the message for the error banner, if any
func (p Page) Banner() string {
	if p.Notice != "" {
		return p.Notice
	}
	return p.Error
}

// Build renders snap in the language of m. It has no side effects.
func Build(snap inbound.Snapshot, m *locale.Messages) Page {
	page := Page{
		Text:        m,
		CanGenerate: snap.CanGenerate(),
		Loading:     snap.Loading,
		ButtonLabel: m.GenerateLabel(recipeCount(snap)),
		Error:       snap.Error,
		HasResults:  len(snap.Recipes) > 0,
	}
	if snap.Loading {
		page.ButtonLabel = m.Generating
	}

	for _, ing := range snap.Ingredients {
		page.Ingredients = append(page.Ingredients, Chip{ID: ing.ID, Name: ing.Name})
	}

	for _, mt := range recipe.MealTimes() {
		page.MealTimes = append(page.MealTimes, MealOption{
			Value:    string(mt),
			Label:    m.MealTime(mt),
			Selected: mt == snap.MealTime,
		})
	}

	if page.HasResults {
		mt := snap.GeneratedFor
		if mt == "" {
			mt = snap.MealTime
		}
		page.ResultsSubtitle = m.PerfectFor(mt)
	}
	for _, r := range snap.Recipes {
		page.Cards = append(page.Cards, buildCard(r, m))
	}

	return page
}

func buildCard(r recipe.Recipe, m *locale.Messages) Card {
	card := Card{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		EstimatedTime:   r.EstimatedTime,
		Difficulty:      m.Difficulty(r.Difficulty),
		DifficultyClass: difficultyClass(r.Difficulty),
		IngredientCount: m.IngredientCount(len(r.Ingredients)),
		Ingredients:     r.Ingredients,
	}
	for i, text := range r.Instructions {
		card.Steps = append(card.Steps, Step{Number: i + 1, Text: text})
	}
	return card
}

func difficultyClass(d recipe.DifficultyLevel) string {
	switch d {
	case recipe.DifficultyLevelEasy:
		return "badge-easy"
	case recipe.DifficultyLevelMedium:
		return "badge-medium"
	default:
		return "badge-hard"
	}
}

func recipeCount(snap inbound.Snapshot) int {
	if snap.RecipeCount < 1 {
		return recipe.DefaultRecipeCount
	}
	return snap.RecipeCount
}
