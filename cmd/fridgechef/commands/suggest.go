package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fridgechef/fridgechef/internal/domain/locale"
	"github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/internal/infrastructure/ai/gemini"
	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"github.com/fridgechef/fridgechef/internal/ports/outbound"
)

// SuggestCmd asks for recipes once and prints them as JSON
var SuggestCmd = &cobra.Command{
	Use:     "suggest [ingredient...]",
	Short:   "Print recipe suggestions for the given ingredients",
	Example: `  fridgechef suggest egg kimchi
  fridgechef suggest --meal dinner --lang ko tofu "green onion"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mealFlag, _ := cmd.Flags().GetString("meal")
		langFlag, _ := cmd.Flags().GetString("lang")

		mealTime, err := recipe.ParseMealTime(mealFlag)
		if err != nil {
			return err
		}

		var names []string
		for _, arg := range args {
			ing, err := recipe.NewIngredient(arg)
			if err != nil {
				return fmt.Errorf("ingredient %q: %w", arg, err)
			}
			names = append(names, ing.Name)
		}

		cfg, err := config.Load(ConfigFile)
		if err != nil {
			return err
		}
		if langFlag == "" {
			langFlag = cfg.App.Language
		}
		// Logs share stdout with the JSON answer, so only errors by default
		if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
			cfg.App.LogLevel = "error"
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		client := gemini.NewClient(gemini.OptionsFromConfig(cfg), log)
		resp, err := client.Generate(cmd.Context(), outbound.GenerationRequest{
			Ingredients: names,
			MealTime:    mealTime,
			Language:    string(locale.Parse(langFlag)),
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

func init() {
	SuggestCmd.Flags().String("meal", string(recipe.DefaultMealTime), "meal time: breakfast, lunch or dinner")
	SuggestCmd.Flags().String("lang", "", "answer language: en or ko (default app.language)")
	SuggestCmd.Flags().BoolP("verbose", "v", false, "log at the configured level")
}
