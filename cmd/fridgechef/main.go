// Package main provides the entry point for Fridge Chef
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fridgechef/fridgechef/cmd/fridgechef/commands"
)

var rootCmd = &cobra.Command{
	Use:   "fridgechef",
	Short: "Fridge Chef - recipe suggestions from what is in your fridge",
	Long: `Fridge Chef turns a list of ingredients and a meal time into recipe
suggestions generated by Gemini. Run "serve" for the web page or "suggest"
for a one-off answer on the command line.`,
	SilenceUsage: true,
}

func main() {
	// A missing .env file is fine; the environment may already be set
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&commands.ConfigFile, "config", "", "config file (default ./config.yaml)")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.SuggestCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
