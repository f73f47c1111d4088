// Package locale holds the display-language catalogs used by the page,
// the error banner and the generation prompt.
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/fridgechef/fridgechef/internal/domain/recipe"
)

// Locale identifies a supported display language
type Locale string

const (
	English Locale = "en"
	Korean  Locale = "ko"
)

var (
	supported = []language.Tag{language.English, language.Korean}
	matcher   = language.NewMatcher(supported)
)

// Parse returns the locale for a config value, falling back to English
func Parse(s string) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case Korean:
		return Korean
	default:
		return English
	}
}

// Negotiate picks a locale from an Accept-Language header.
// fallback is returned when the header is empty or matches nothing.
func Negotiate(acceptLanguage string, fallback Locale) Locale {
	if strings.TrimSpace(acceptLanguage) == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	if supported[idx] == language.Korean {
		return Korean
	}
	return English
}

// Messages is the text catalog for one locale
type Messages struct {
	Lang         string
	Title        string
	Tagline      string
	StepOne      string
	StepTwo      string
	Placeholder  string
	AddButton    string
	RemoveLabel  string
	NoIngredient string
	Generating   string
	ResultsTitle string
	NeededTitle  string
	StepsTitle   string
	StartOver    string
	Footer       string

	// Error banner text, one per error kind
	ErrEmptyList       string
	ErrBlankIngredient string
	ErrConfigMissing   string
	ErrService         string
	ErrInvalidShape    string
	ErrInProgress      string
	ErrRateLimited     string
	ErrGeneric         string

	mealTimes    map[recipe.MealTime]string
	difficulties map[recipe.DifficultyLevel]string
	perfectFor   string
	generate     string
	ingredientN  string
	ingredient1  string
	prompt       string
	languageName string
}

// MealTime returns the display label for m
func (m *Messages) MealTime(mt recipe.MealTime) string {
	if label, ok := m.mealTimes[mt]; ok {
		return label
	}
	return string(mt)
}

// Difficulty returns the display label for d
func (m *Messages) Difficulty(d recipe.DifficultyLevel) string {
	if label, ok := m.difficulties[d]; ok {
		return label
	}
	return string(d)
}

// PerfectFor is the subtitle shown above the recipe cards
func (m *Messages) PerfectFor(mt recipe.MealTime) string {
	return fmt.Sprintf(m.perfectFor, m.MealTime(mt))
}

// GenerateLabel is the primary button text for a request of n recipes
func (m *Messages) GenerateLabel(n int) string {
	return fmt.Sprintf(m.generate, n)
}

// IngredientCount renders "n ingredients"
func (m *Messages) IngredientCount(n int) string {
	if n == 1 && m.ingredient1 != "" {
		return m.ingredient1
	}
	return fmt.Sprintf(m.ingredientN, n)
}

// ConfigMissing fills the env var name into the configuration error text
func (m *Messages) ConfigMissing(envVar string) string {
	return fmt.Sprintf(m.ErrConfigMissing, envVar)
}

// Prompt builds the natural-language generation instruction
func (m *Messages) Prompt(ingredients []string, mt recipe.MealTime, count int) string {
	return fmt.Sprintf(m.prompt, strings.Join(ingredients, ", "), m.MealTime(mt), count, m.languageName)
}

// For returns the catalog for l
func For(l Locale) *Messages {
	if l == Korean {
		return korean
	}
	return english
}

var english = &Messages{
	Lang:         "en",
	Title:        "Fridge Chef",
	Tagline:      "Cook with what you already have",
	StepOne:      "What's in your fridge?",
	StepTwo:      "Which meal is it?",
	Placeholder:  "e.g. egg, tofu, kimchi...",
	AddButton:    "Add",
	RemoveLabel:  "Remove",
	NoIngredient: "No ingredients added yet.",
	Generating:   "Thinking up recipes...",
	ResultsTitle: "Recommended recipes",
	NeededTitle:  "Ingredients",
	StepsTitle:   "Instructions",
	StartOver:    "Start over",
	Footer:       "Fridge Chef. AI powered recipes.",

	ErrEmptyList:       "Please add at least one ingredient!",
	ErrBlankIngredient: "Please type an ingredient name.",
	ErrConfigMissing:   "The recipe service is not configured. Set the %s environment variable and try again.",
	ErrService:         "The recipe service could not be reached. Please try again.",
	ErrInvalidShape:    "The recipe service returned an unexpected answer. Please try again.",
	ErrInProgress:      "Recipes are already being generated.",
	ErrRateLimited:     "Too many requests. Please wait a moment.",
	ErrGeneric:         "Something went wrong while generating recipes.",

	mealTimes: map[recipe.MealTime]string{
		recipe.MealTimeBreakfast: "Breakfast",
		recipe.MealTimeLunch:     "Lunch",
		recipe.MealTimeDinner:    "Dinner",
	},
	difficulties: map[recipe.DifficultyLevel]string{
		recipe.DifficultyLevelEasy:   "easy",
		recipe.DifficultyLevelMedium: "medium",
		recipe.DifficultyLevelHard:   "hard",
	},
	perfectFor:  "Perfect for %s",
	generate:    "Suggest %d recipes",
	ingredientN: "%d ingredients",
	ingredient1: "1 ingredient",
	prompt: "Ingredients in my fridge: %s. Meal: %s.\n" +
		"Using as many of these ingredients as possible, recommend %[3]d delicious recipes that suit %[2]s.\n" +
		"If ingredients are missing you may assume basic seasonings are available.\n" +
		"Write every text field in %[4]s.",
	languageName: "English",
}

var korean = &Messages{
	Lang:         "ko",
	Title:        "Fridge Chef",
	Tagline:      "냉장고 파먹기 도우미",
	StepOne:      "냉장고에 어떤 재료가 있나요?",
	StepTwo:      "지금은 무슨 식사 시간인가요?",
	Placeholder:  "예: 계란, 두부, 김치...",
	AddButton:    "추가",
	RemoveLabel:  "삭제",
	NoIngredient: "아직 추가된 재료가 없습니다.",
	Generating:   "레시피 구상 중...",
	ResultsTitle: "추천 레시피",
	NeededTitle:  "필요한 재료",
	StepsTitle:   "조리 방법",
	StartOver:    "처음부터 다시 시작하기",
	Footer:       "Fridge Chef. AI Powered Recipes.",

	ErrEmptyList:       "재료를 하나 이상 입력해주세요!",
	ErrBlankIngredient: "재료 이름을 입력해주세요.",
	ErrConfigMissing:   "레시피 서비스가 설정되지 않았습니다. %s 환경 변수를 설정한 뒤 다시 시도해주세요.",
	ErrService:         "레시피 서비스에 연결하지 못했습니다. 잠시 후 다시 시도해주세요.",
	ErrInvalidShape:    "레시피 서비스가 예상하지 못한 응답을 보냈습니다. 다시 시도해주세요.",
	ErrInProgress:      "이미 레시피를 생성하고 있습니다.",
	ErrRateLimited:     "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.",
	ErrGeneric:         "레시피를 생성하는 중 오류가 발생했습니다.",

	mealTimes: map[recipe.MealTime]string{
		recipe.MealTimeBreakfast: "아침",
		recipe.MealTimeLunch:     "점심",
		recipe.MealTimeDinner:    "저녁",
	},
	difficulties: map[recipe.DifficultyLevel]string{
		recipe.DifficultyLevelEasy:   "쉬움",
		recipe.DifficultyLevelMedium: "보통",
		recipe.DifficultyLevelHard:   "어려움",
	},
	perfectFor:  "%s에 딱 맞는 요리",
	generate:    "최고의 레시피 %d가지 제안받기",
	ingredientN: "%d개 재료",
	prompt: "냉장고에 있는 재료: %s. 식사 시간: %s.\n" +
		"이 재료들을 최대한 활용하여 %[2]s에 먹기 좋은 맛있는 요리 레시피 %[3]d가지를 추천해줘.\n" +
		"재료가 부족하다면 최소한의 기본 조미료는 있다고 가정해도 좋아.\n" +
		"모든 텍스트 필드는 %[4]s로 작성해줘.",
	languageName: "한국어",
}
