package planner

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fridgechef/fridgechef/internal/domain/locale"
	"github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/internal/ports/inbound"
	"github.com/fridgechef/fridgechef/internal/ports/outbound"
	"github.com/fridgechef/fridgechef/pkg/errors"
	"github.com/fridgechef/fridgechef/test/testutils"
)

func newSession(t *testing.T, gen outbound.RecipeGenerator) *Session {
	t.Helper()
	return NewSession("session-1", gen, Options{Locale: locale.English}, zaptest.NewLogger(t))
}

func TestNewSession_Defaults(t *testing.T) {
	s := newSession(t, testutils.NewMockRecipeGenerator())
	snap := s.Snapshot()

	assert.Equal(t, "session-1", snap.SessionID)
	assert.Equal(t, recipe.MealTimeLunch, snap.MealTime)
	assert.Equal(t, inbound.PhaseIdleEmpty, snap.Phase())
	assert.False(t, snap.CanGenerate())
	assert.False(t, snap.UpdatedAt.IsZero())
	assert.Equal(t, recipe.DefaultRecipeCount, snap.RecipeCount)
}

func TestAddIngredient(t *testing.T) {
	s := newSession(t, testutils.NewMockRecipeGenerator())
	seen := map[string]bool{}

	for i, name := range []string{"egg", "  kimchi ", "egg"} {
		ing, err := s.AddIngredient(name)
		require.NoError(t, err)
		assert.Equal(t, strings.TrimSpace(name), ing.Name)
		assert.False(t, seen[ing.ID], "id %s reused", ing.ID)
		seen[ing.ID] = true
		assert.Len(t, s.Snapshot().Ingredients, i+1)
	}
	assert.Equal(t, inbound.PhaseIdleIngredients, s.Snapshot().Phase())
}

func TestAddIngredient_BlankIsNoOp(t *testing.T) {
	s := newSession(t, testutils.NewMockRecipeGenerator())
	_, err := s.AddIngredient("egg")
	require.NoError(t, err)

	for _, blank := range []string{"", "   ", "\t\n"} {
		_, err := s.AddIngredient(blank)
		assert.True(t, errors.Is(err, errors.CodeValidationFailed))
		assert.ErrorIs(t, err, recipe.ErrEmptyIngredient)
		assert.Len(t, s.Snapshot().Ingredients, 1)
	}
}

func TestRemoveIngredient_PreservesOrder(t *testing.T) {
	s := newSession(t, testutils.NewMockRecipeGenerator())
	var ids []string
	for _, name := range []string{"egg", "kimchi", "rice", "tofu"} {
		ing, err := s.AddIngredient(name)
		require.NoError(t, err)
		ids = append(ids, ing.ID)
	}

	require.NoError(t, s.RemoveIngredient(ids[1]))
	assert.Equal(t, []string{"egg", "rice", "tofu"}, recipe.IngredientNames(s.Snapshot().Ingredients))

	err := s.RemoveIngredient(ids[1])
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	assert.Len(t, s.Snapshot().Ingredients, 3)

	for _, id := range []string{ids[0], ids[2], ids[3]} {
		require.NoError(t, s.RemoveIngredient(id))
	}
	assert.Equal(t, inbound.PhaseIdleEmpty, s.Snapshot().Phase())
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := newSession(t, testutils.NewMockRecipeGenerator())
	_, err := s.AddIngredient("egg")
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Ingredients[0].Name = "changed"

	assert.Equal(t, "egg", s.Snapshot().Ingredients[0].Name)
}

func TestSelectMealTime(t *testing.T) {
	s := newSession(t, testutils.NewMockRecipeGenerator())

	require.NoError(t, s.SelectMealTime(recipe.MealTimeDinner))
	assert.Equal(t, recipe.MealTimeDinner, s.Snapshot().MealTime)

	err := s.SelectMealTime("brunch")
	assert.ErrorIs(t, err, recipe.ErrUnknownMealTime)
	assert.Equal(t, recipe.MealTimeDinner, s.Snapshot().MealTime)
}

func TestGenerate_EmptyListNeverCallsGenerator(t *testing.T) {
	gen := testutils.NewMockRecipeGenerator()
	s := newSession(t, gen)

	err := s.Generate(context.Background())

	assert.True(t, errors.Is(err, errors.CodeValidationFailed))
	assert.ErrorIs(t, err, recipe.ErrNoIngredients)
	assert.Equal(t, "Please add at least one ingredient!", Describe(err, locale.For(locale.English)))
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
	assert.Equal(t, inbound.PhaseIdleEmpty, snap.Phase())
}

func TestGenerate_KimchiScenario(t *testing.T) {
	gen := testutils.NewMockRecipeGenerator()
	gen.On("Generate", mock.Anything, outbound.GenerationRequest{
		Ingredients: []string{"egg", "kimchi"},
		MealTime:    recipe.MealTimeLunch,
		Language:    "en",
	}).Return(testutils.KimchiFriedRice(), nil).Once()

	s := newSession(t, gen)
	_, err := s.AddIngredient("egg")
	require.NoError(t, err)
	_, err = s.AddIngredient("kimchi")
	require.NoError(t, err)

	require.NoError(t, s.Generate(context.Background()))
	gen.AssertExpectations(t)

	snap := s.Snapshot()
	assert.Equal(t, inbound.PhaseLoaded, snap.Phase())
	require.Len(t, snap.Recipes, 1)
	assert.Equal(t, "Kimchi Fried Rice", snap.Recipes[0].Name)
	assert.Equal(t, recipe.MealTimeLunch, snap.GeneratedFor)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
}

func TestGenerate_ReplacesRecipesWholesale(t *testing.T) {
	factory := testutils.NewRecipeFactory(42)
	first, second := factory.Response(3), factory.Response(2)

	gen := testutils.NewMockRecipeGenerator()
	gen.On("Generate", mock.Anything, mock.Anything).Return(first, nil).Once()
	gen.On("Generate", mock.Anything, mock.Anything).Return(second, nil).Once()

	s := newSession(t, gen)
	_, err := s.AddIngredient("egg")
	require.NoError(t, err)

	require.NoError(t, s.Generate(context.Background()))
	assert.Len(t, s.Snapshot().Recipes, 3)

	require.NoError(t, s.SelectMealTime(recipe.MealTimeBreakfast))
	require.NoError(t, s.Generate(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, second.Recipes, snap.Recipes)
	assert.Equal(t, recipe.MealTimeBreakfast, snap.GeneratedFor)
	assert.Equal(t, recipe.MealTimeBreakfast, gen.Requests()[1].MealTime)
}

func TestGenerate_FailureKeepsIngredients(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "service error",
			err:     errors.NewExternalServiceError("gemini", stderrors.New("quota exceeded")),
			message: "The recipe service could not be reached. Please try again. (quota exceeded)",
		},
		{
			name:    "missing credential",
			err:     errors.NewConfigurationMissingError("API_KEY"),
			message: "The recipe service is not configured. Set the API_KEY environment variable and try again.",
		},
		{
			name:    "invalid shape",
			err:     errors.NewInvalidResponseShapeError("gemini", recipe.ErrInvalidResponseShape),
			message: "The recipe service returned an unexpected answer. Please try again.",
		},
		{
			name:    "plain error",
			err:     stderrors.New("dial tcp: connection refused"),
			message: "dial tcp: connection refused",
		},
		{
			name:    "internal error with details",
			err:     errors.NewAppError(errors.CodeInternal, "Generation failed", "disk full"),
			message: "disk full",
		},
		{
			name:    "plain error without message",
			err:     stderrors.New(""),
			message: "Something went wrong while generating recipes.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := testutils.NewMockRecipeGenerator()
			gen.On("Generate", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			s := newSession(t, gen)
			_, err := s.AddIngredient("egg")
			require.NoError(t, err)
			_, err = s.AddIngredient("kimchi")
			require.NoError(t, err)
			before := s.Snapshot().Ingredients

			err = s.Generate(context.Background())
			assert.Equal(t, tt.err, err)

			snap := s.Snapshot()
			assert.Equal(t, before, snap.Ingredients)
			assert.False(t, snap.Loading)
			assert.Equal(t, tt.message, snap.Error)
			assert.Equal(t, inbound.PhaseErrored, snap.Phase())
		})
	}
}

func TestGenerate_NilResponseIsInvalidShape(t *testing.T) {
	gen := testutils.NewMockRecipeGenerator()
	gen.On("Generate", mock.Anything, mock.Anything).Return(nil, nil).Once()

	s := newSession(t, gen)
	_, err := s.AddIngredient("egg")
	require.NoError(t, err)

	err = s.Generate(context.Background())
	assert.True(t, errors.Is(err, errors.CodeInvalidResponseShape))

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Recipes)
	assert.Equal(t, "The recipe service returned an unexpected answer. Please try again.", snap.Error)
}

func TestGenerate_ErrorClearedOnNextAttempt(t *testing.T) {
	gen := testutils.NewMockRecipeGenerator()
	gen.On("Generate", mock.Anything, mock.Anything).
		Return(nil, errors.NewExternalServiceError("gemini", nil)).Once()
	gen.On("Generate", mock.Anything, mock.Anything).
		Return(testutils.KimchiFriedRice(), nil).Once()

	s := newSession(t, gen)
	_, err := s.AddIngredient("egg")
	require.NoError(t, err)

	require.Error(t, s.Generate(context.Background()))
	assert.NotEmpty(t, s.Snapshot().Error)

	require.NoError(t, s.Generate(context.Background()))
	snap := s.Snapshot()
	assert.Empty(t, snap.Error)
	assert.Equal(t, inbound.PhaseLoaded, snap.Phase())
}

func TestGenerate_RejectsConcurrentCall(t *testing.T) {
	gen := testutils.NewBlockingGenerator(testutils.KimchiFriedRice(), nil)
	s := newSession(t, gen)
	_, err := s.AddIngredient("egg")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Generate(context.Background()) }()
	<-gen.Started

	snap := s.Snapshot()
	assert.True(t, snap.Loading)
	assert.False(t, snap.CanGenerate())
	assert.Equal(t, inbound.PhaseLoading, snap.Phase())

	err = s.Generate(context.Background())
	assert.True(t, errors.Is(err, errors.CodeGenerationInProgress))

	// editing the list while loading is allowed
	_, err = s.AddIngredient("rice")
	require.NoError(t, err)

	gen.Release()
	require.NoError(t, <-done)

	snap = s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Len(t, snap.Ingredients, 2)
	assert.Len(t, snap.Recipes, 1)
}

func TestGenerate_RateLimited(t *testing.T) {
	gen := testutils.NewMockRecipeGenerator()
	gen.On("Generate", mock.Anything, mock.Anything).Return(testutils.KimchiFriedRice(), nil).Once()

	s := NewSession("s", gen, Options{Locale: locale.English, RequestsPerMin: 1, BurstSize: 1}, nil)
	_, err := s.AddIngredient("egg")
	require.NoError(t, err)

	require.NoError(t, s.Generate(context.Background()))
	err = s.Generate(context.Background())
	assert.True(t, errors.Is(err, errors.CodeTooManyRequests))
	assert.False(t, s.Snapshot().Loading)
	gen.AssertNumberOfCalls(t, "Generate", 1)
}

func TestGenerate_UsesSessionLocale(t *testing.T) {
	gen := testutils.NewMockRecipeGenerator()
	gen.On("Generate", mock.Anything, mock.Anything).
		Return(nil, errors.NewInvalidResponseShapeError("gemini", nil)).Once()

	s := newSession(t, gen)
	s.SetLocale(locale.Korean)
	_, err := s.AddIngredient("김치")
	require.NoError(t, err)

	require.Error(t, s.Generate(context.Background()))
	assert.Equal(t, "ko", gen.Requests()[0].Language)
	assert.Equal(t, locale.For(locale.Korean).ErrInvalidShape, s.Snapshot().Error)
}

func TestStartOver(t *testing.T) {
	gen := testutils.NewMockRecipeGenerator()
	gen.On("Generate", mock.Anything, mock.Anything).Return(testutils.KimchiFriedRice(), nil).Once()

	s := newSession(t, gen)
	_, err := s.AddIngredient("egg")
	require.NoError(t, err)
	_, err = s.AddIngredient("kimchi")
	require.NoError(t, err)
	require.NoError(t, s.SelectMealTime(recipe.MealTimeDinner))
	require.NoError(t, s.Generate(context.Background()))
	require.Equal(t, inbound.PhaseLoaded, s.Snapshot().Phase())

	s.StartOver()

	snap := s.Snapshot()
	assert.Empty(t, snap.Ingredients)
	assert.Empty(t, snap.Recipes)
	assert.Empty(t, snap.Error)
	assert.Equal(t, inbound.PhaseIdleEmpty, snap.Phase())
	assert.Equal(t, recipe.MealTimeDinner, snap.MealTime)
}

func TestDescribe(t *testing.T) {
	en := locale.For(locale.English)

	assert.Empty(t, Describe(nil, en))
	_, err := recipe.NewIngredient(" ")
	assert.Equal(t, en.ErrBlankIngredient,
		Describe(errors.NewValidationError(err.Error()).WithCause(err), en))
	assert.Equal(t, en.ErrInProgress, Describe(errors.NewGenerationInProgressError(), en))
	assert.Equal(t, en.ErrRateLimited, Describe(errors.NewTooManyRequestsError(), en))
}
