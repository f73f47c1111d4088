// Package planner holds the per-session state controller: the ingredient
// list, the selected meal time and the outcome of the last generation.
package planner

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fridgechef/fridgechef/internal/domain/locale"
	"github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/internal/ports/inbound"
	"github.com/fridgechef/fridgechef/internal/ports/outbound"
	"github.com/fridgechef/fridgechef/pkg/errors"
)

// Options configures a Session
type Options struct {
	Locale locale.Locale
	// RequestsPerMin limits generations per session; zero disables the limit
	RequestsPerMin int
	BurstSize      int
	// RecipeCount is shown on the generate button; zero means the default
	RecipeCount int
}

// Session implements inbound.Planner for one browser session
type Session struct {
	id        string
	generator outbound.RecipeGenerator
	limiter   *rate.Limiter
	count     int
	logger    *zap.Logger
	now       func() time.Time

	mu           sync.Mutex
	lang         locale.Locale
	ingredients  []recipe.Ingredient
	mealTime     recipe.MealTime
	loading      bool
	errMsg       string
	recipes      []recipe.Recipe
	generatedFor recipe.MealTime
	updatedAt    time.Time
}

var _ inbound.Planner = (*Session)(nil)

// NewSession creates an empty session with the default meal time selected
func NewSession(id string, generator outbound.RecipeGenerator, opts Options, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMin > 0 {
		burst := opts.BurstSize
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMin)), burst)
	}

	count := opts.RecipeCount
	if count < 1 {
		count = recipe.DefaultRecipeCount
	}

	s := &Session{
		id:        id,
		generator: generator,
		limiter:   limiter,
		count:     count,
		logger:    logger.Named("planner").With(zap.String("session_id", id)),
		now:       time.Now,
		lang:      opts.Locale,
		mealTime:  recipe.DefaultMealTime,
	}
	s.updatedAt = s.now()
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// AddIngredient appends a trimmed, non-blank ingredient
func (s *Session) AddIngredient(name string) (recipe.Ingredient, error) {
	ing, err := recipe.NewIngredient(name)
	if err != nil {
		return recipe.Ingredient{}, errors.NewValidationError(err.Error()).WithCause(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingredients = append(s.ingredients, ing)
	s.touch()
	return ing, nil
}

// RemoveIngredient deletes the entry with the given id, keeping the order of the rest
func (s *Session) RemoveIngredient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, ing := range s.ingredients {
		if ing.ID == id {
			s.ingredients = append(s.ingredients[:i:i], s.ingredients[i+1:]...)
			s.touch()
			return nil
		}
	}
	return errors.NewNotFoundError("Ingredient").WithCause(recipe.ErrIngredientAbsent)
}

// SelectMealTime changes the meal time used by the next generation
func (s *Session) SelectMealTime(mt recipe.MealTime) error {
	if !mt.Valid() {
		return errors.NewValidationError(recipe.ErrUnknownMealTime.Error()).WithCause(recipe.ErrUnknownMealTime)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mealTime = mt
	s.touch()
	return nil
}

// SetLocale switches the display and generation language
func (s *Session) SetLocale(l locale.Locale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lang = l
}

// Generate runs one generation for the current ingredients and meal time.
// Input and gating failures are returned without touching state. Once the
// call has been issued, its failure is recorded as the session error and also
// returned.
func (s *Session) Generate(ctx context.Context) error {
	s.mu.Lock()
	if len(s.ingredients) == 0 {
		s.mu.Unlock()
		return errors.NewValidationError(recipe.ErrNoIngredients.Error()).WithCause(recipe.ErrNoIngredients)
	}
	if s.loading {
		s.mu.Unlock()
		return errors.NewGenerationInProgressError()
	}
	if s.limiter != nil && !s.limiter.Allow() {
		s.mu.Unlock()
		return errors.NewTooManyRequestsError()
	}

	req := outbound.GenerationRequest{
		Ingredients: recipe.IngredientNames(s.ingredients),
		MealTime:    s.mealTime,
		Language:    string(s.lang),
	}
	s.loading = true
	s.errMsg = ""
	s.touch()
	s.mu.Unlock()

	s.logger.Debug("Generating recipes",
		zap.Strings("ingredients", req.Ingredients),
		zap.String("meal_time", string(req.MealTime)))

	resp, err := s.generator.Generate(ctx, req)
	if err == nil && resp == nil {
		err = errors.NewInvalidResponseShapeError("generator", recipe.ErrInvalidResponseShape)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.touch()

	if err != nil {
		s.errMsg = Describe(err, locale.For(s.lang))
		s.logger.Warn("Generation failed", zap.Error(err))
		return err
	}

	s.recipes = resp.Recipes
	s.generatedFor = req.MealTime
	s.errMsg = ""
	return nil
}

// StartOver clears ingredients, recipes and any error
func (s *Session) StartOver() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingredients = nil
	s.recipes = nil
	s.errMsg = ""
	s.generatedFor = ""
	s.touch()
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() inbound.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := inbound.Snapshot{
		SessionID:    s.id,
		Locale:       s.lang,
		MealTime:     s.mealTime,
		RecipeCount:  s.count,
		Loading:      s.loading,
		Error:        s.errMsg,
		GeneratedFor: s.generatedFor,
		UpdatedAt:    s.updatedAt,
	}
	if len(s.ingredients) > 0 {
		snap.Ingredients = append([]recipe.Ingredient(nil), s.ingredients...)
	}
	if len(s.recipes) > 0 {
		snap.Recipes = append([]recipe.Recipe(nil), s.recipes...)
	}
	return snap
}

// touch must be called with mu held
func (s *Session) touch() {
	s.updatedAt = s.now()
}
