package planner

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/fridgechef/fridgechef/internal/domain/locale"
	"github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/pkg/errors"
)

// Describe turns err into the banner text shown to the user
func Describe(err error, m *locale.Messages) string {
	if err == nil {
		return ""
	}

	appErr := errors.Wrap(err, "generation failed")
	switch appErr.Code {
	case errors.CodeValidationFailed:
		switch {
		case stderrors.Is(err, recipe.ErrEmptyIngredient):
			return m.ErrBlankIngredient
		case stderrors.Is(err, recipe.ErrNoIngredients):
			return m.ErrEmptyList
		}
		return m.ErrGeneric
	case errors.CodeConfigurationMissing:
		envVar, _ := appErr.Metadata["env_var"].(string)
		return m.ConfigMissing(envVar)
	case errors.CodeExternalServiceError:
		if appErr.Details != "" {
			return fmt.Sprintf("%s (%s)", m.ErrService, appErr.Details)
		}
		return m.ErrService
	case errors.CodeInvalidResponseShape:
		return m.ErrInvalidShape
	case errors.CodeGenerationInProgress:
		return m.ErrInProgress
	case errors.CodeTooManyRequests:
		return m.ErrRateLimited
	default:
		// Failures of no known kind still show their own message when they have one
		var known *errors.AppError
		if !stderrors.As(err, &known) {
			if msg := strings.TrimSpace(err.Error()); msg != "" {
				return msg
			}
		} else if known.Details != "" {
			return known.Details
		}
		return m.ErrGeneric
	}
}
