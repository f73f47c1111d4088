// Package gemini implements recipe generation on top of the Gemini API
package gemini

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/fridgechef/fridgechef/internal/domain/locale"
	"github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"github.com/fridgechef/fridgechef/internal/ports/outbound"
	apperrors "github.com/fridgechef/fridgechef/pkg/errors"
)

const serviceName = "gemini"

// Recorder receives one observation per generation call
type Recorder interface {
	ObserveGeneration(provider, model, status string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveGeneration(string, string, string, time.Duration) {}

// Options configures a Client
type Options struct {
	Model             string
	APIKeyEnv         string
	FallbackAPIKeyEnv string
	BaseURL           string
	APIVersion        string
	// Timeout bounds a single call; zero leaves it to the service
	Timeout     time.Duration
	RecipeCount int
	HTTPClient  *http.Client
	Recorder    Recorder
}

// OptionsFromConfig maps the ai config section onto Options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Model:             cfg.AI.Model,
		APIKeyEnv:         cfg.AI.APIKeyEnv,
		FallbackAPIKeyEnv: cfg.AI.FallbackAPIKeyEnv,
		BaseURL:           cfg.AI.BaseURL,
		APIVersion:        cfg.AI.APIVersion,
		Timeout:           cfg.AI.Timeout,
		RecipeCount:       cfg.AI.RecipeCount,
	}
}

// Client implements outbound.RecipeGenerator
type Client struct {
	opts   Options
	logger *zap.Logger
	tracer trace.Tracer
}

var _ outbound.RecipeGenerator = (*Client)(nil)

// NewClient creates a new Gemini client.
// No credential is read here; every Generate call looks it up again.
func NewClient(opts Options, logger *zap.Logger) *Client {
	if opts.APIKeyEnv == "" {
		opts.APIKeyEnv = "API_KEY"
	}
	if opts.RecipeCount < 1 {
		opts.RecipeCount = recipe.DefaultRecipeCount
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}

	logger.Info("Gemini client initialized",
		zap.String("model", opts.Model),
		zap.String("api_key_env", opts.APIKeyEnv),
		zap.Duration("timeout", opts.Timeout))

	return &Client{
		opts:   opts,
		logger: logger.Named("gemini-client"),
		tracer: otel.Tracer("github.com/fridgechef/fridgechef/internal/infrastructure/ai/gemini"),
	}
}

// Credential returns the API key currently present in the environment and
// the variable it came from. An empty key means none is configured.
func (c *Client) Credential() (key, envVar string) {
	for _, name := range []string{c.opts.APIKeyEnv, c.opts.FallbackAPIKeyEnv} {
		if name == "" {
			continue
		}
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v, name
		}
	}
	return "", c.opts.APIKeyEnv
}

// Generate asks Gemini for recipes that use the given ingredients
func (c *Client) Generate(ctx context.Context, req outbound.GenerationRequest) (*recipe.RecipeResponse, error) {
	if len(req.Ingredients) == 0 {
		return nil, apperrors.NewValidationError(recipe.ErrNoIngredients.Error()).WithCause(recipe.ErrNoIngredients)
	}

	key, envVar := c.Credential()
	if key == "" {
		c.logger.Warn("Generation requested without a credential", zap.String("env_var", envVar))
		return nil, apperrors.NewConfigurationMissingError(envVar).WithCause(recipe.ErrMissingCredential)
	}

	ctx, span := c.tracer.Start(ctx, "gemini.GenerateRecipes", trace.WithAttributes(
		attribute.String("gemini.model", c.opts.Model),
		attribute.String("recipe.meal_time", string(req.MealTime)),
		attribute.Int("recipe.ingredient_count", len(req.Ingredients)),
	))
	defer span.End()

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.generate(ctx, key, req)
	status := "success"
	if err != nil {
		status = strings.ToLower(string(apperrors.GetCode(err)))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	c.opts.Recorder.ObserveGeneration(serviceName, c.opts.Model, status, time.Since(start))

	if err != nil {
		c.logger.Error("Recipe generation failed",
			zap.Strings("ingredients", req.Ingredients),
			zap.String("meal_time", string(req.MealTime)),
			zap.Error(err))
		return nil, err
	}

	c.logger.Info("Recipes generated",
		zap.Int("count", len(resp.Recipes)),
		zap.String("meal_time", string(req.MealTime)),
		zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}

func (c *Client) generate(ctx context.Context, key string, req outbound.GenerationRequest) (*recipe.RecipeResponse, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.opts.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    c.opts.BaseURL,
			APIVersion: c.opts.APIVersion,
		},
	})
	if err != nil {
		return nil, apperrors.NewExternalServiceError(serviceName, err)
	}

	prompt := locale.For(locale.Parse(req.Language)).Prompt(req.Ingredients, req.MealTime, c.opts.RecipeCount)
	c.logger.Debug("Sending generation request", zap.Int("prompt_bytes", len(prompt)))

	out, err := cli.Models.GenerateContent(ctx, c.opts.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	})
	if err != nil {
		return nil, serviceError(err)
	}

	text := responseText(out)
	parsed, err := recipe.DecodeResponse([]byte(text))
	if err != nil {
		return nil, apperrors.NewInvalidResponseShapeError(serviceName, err)
	}
	return parsed, nil
}

// serviceError keeps the API's own message so the user sees it
func serviceError(err error) *apperrors.AppError {
	appErr := apperrors.NewExternalServiceError(serviceName, err)
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			appErr.Details = apiErr.Message
		}
		appErr.WithMetadata("status_code", apiErr.Code)
	}
	return appErr
}

// responseText concatenates the non-thought text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
