// Package recipe contains the domain vocabulary shared by the generation
// client, the session controller and the presentation layer.
package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Recipe is a suggestion produced by the generation service.
// It is never authored locally and is not modified after it is received.
type Recipe struct {
	ID            string          `json:"id" validate:"required"`
	Name          string          `json:"name" validate:"required"`
	Description   string          `json:"description" validate:"required"`
	Ingredients   []string        `json:"ingredients" validate:"required"`
	Instructions  []string        `json:"instructions" validate:"required"`
	EstimatedTime string          `json:"estimatedTime" validate:"required"`
	Difficulty    DifficultyLevel `json:"difficulty" validate:"required,difficulty"`
}

// RecipeResponse is the envelope returned by a single generation call
type RecipeResponse struct {
	Recipes []Recipe `json:"recipes" validate:"required,dive"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func shapeValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
			return DifficultyLevel(fl.Field().String()).Valid()
		})
	})
	return validate
}

// Validate checks the structural contract of a response.
// Missing fields or an unknown difficulty yield ErrInvalidResponseShape.
func (r *RecipeResponse) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: empty response", ErrInvalidResponseShape)
	}
	if err := shapeValidator().Struct(r); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidResponseShape, describeValidation(err))
	}
	return nil
}

// DecodeResponse parses raw service text into a validated RecipeResponse
func DecodeResponse(raw []byte) (*RecipeResponse, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidResponseShape)
	}

	var resp RecipeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponseShape, err)
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return &resp, nil
}

func describeValidation(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
