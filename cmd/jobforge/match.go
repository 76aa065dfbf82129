package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jobforge/internal/domain"
	"jobforge/internal/rank"
	"jobforge/internal/store"
)

var (
	matchCareerDir string
	matchMinScore  int
	matchOutput    string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score every discovered job against your career profile",
	RunE:  runMatch,
}

func init() {
	f := matchCmd.Flags()
	f.StringVar(&matchCareerDir, "career-dir", careerDir, "Directory of career/*.md files")
	f.IntVar(&matchMinScore, "min-score", 40, "Minimum match score (0-100)")
	f.StringVar(&matchOutput, "output", matchesDir, "Directory for dated match runs")
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	minScore := minScoreFlag(cmd, matchMinScore, cfg.MinMatchScore)

	header("🎯 JobForge - Job Matching")
	profile, err := rank.ExtractProfile(matchCareerDir, cfg.Locations)
	if err != nil {
		return err
	}
	fmt.Printf("📊 Profile: %d skills, %d titles, ~%d years\n", len(profile.Skills), len(profile.Titles), profile.Years)

	jobs, err := store.LoadAll(cfg.Discovery.OutputDir)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		return fmt.Errorf("no jobs in %s (run `jobforge discover`): %w", cfg.Discovery.OutputDir, domain.ErrMissingData)
	}
	fmt.Printf("🔍 %d jobs to analyze (min score %d)\n", len(jobs), minScore)
	if profile.RemoteOnly() {
		fmt.Println("   🌍 Remote jobs only")
	}

	scored := rank.WeightedScorer{W: cfg.Scoring}.Rank(jobs, profile, minScore)
	run, err := rank.SaveRun(matchOutput, time.Now(), scored)
	if err != nil {
		return err
	}

	fmt.Printf("\n✨ %d matching jobs\n", len(scored))
	for i, s := range scored[:min(10, len(scored))] {
		printScored(i+1, s)
	}
	color.Green("\n✅ Results saved to: %s", run)
	return nil
}
