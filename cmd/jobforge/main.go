// Command jobforge discovers openings on company career sites, scores them
// against a career profile and writes application artifacts.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jobforge/internal/config"
	"jobforge/internal/domain"
)

const (
	matchesDir     = "results/matches"
	resumesDir     = "results/resumes"
	aggregatorsDir = "results/aggregators"
	careerDir      = "career"
)

var settingsPath string

var rootCmd = &cobra.Command{
	Use:           "jobforge",
	Short:         "Find, score and act on job openings",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "config/settings.yaml", "Settings file")

	rootCmd.AddCommand(discoverCmd, matchCmd, forgeCmd, showCmd, exportCmd, referralCmd, searchCmd, initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, domain.ErrMissingData) {
			color.Red("❌ %v", err)
		} else {
			color.Red("Error: %v", err)
		}
		os.Exit(1)
	}
}

// loadSettings reads, normalizes and validates the settings file, printing
// warnings. An invalid file is an error.
func loadSettings() (config.Settings, error) {
	raw, err := config.LoadSettings(settingsPath)
	if err != nil {
		return raw, err
	}
	cfg, v := config.NormalizeAndValidate(raw)
	for _, w := range v.Warnings {
		color.Yellow("⚠️  %s", w)
	}
	if err := v.Err(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// minScoreFlag returns the flag value when the user set it and fallback
// otherwise.
func minScoreFlag(cmd *cobra.Command, flag int, fallback float64) int {
	if cmd.Flags().Changed("min-score") {
		return flag
	}
	return int(fallback)
}

func header(title string) {
	color.New(color.Bold).Println(title)
	fmt.Println(rule(70))
}
