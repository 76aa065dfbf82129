package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jobforge/internal/boards"
	"jobforge/internal/domain"
	"jobforge/internal/rank"
	"jobforge/internal/report"
	"jobforge/internal/scrape/util"
)

var (
	searchLocation string
	searchFetch    bool
	searchMinScore int
)

var searchCmd = &cobra.Command{
	Use:   "search <keywords>",
	Short: "Build job-site searches and optionally pull free job boards",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchLocation, "location", "Remote", "Location for the aggregator searches")
	f.BoolVar(&searchFetch, "fetch", false, "Also fetch and score RemoteOK, Remotive and Arbeitnow")
	f.IntVar(&searchMinScore, "min-score", 40, "Minimum match score for fetched listings")
}

func runSearch(cmd *cobra.Command, args []string) error {
	keywords := strings.Join(args, " ")
	header("🔍 JobForge - Aggregator Search")
	fmt.Printf("Keywords: %s | Location: %s\n", keywords, searchLocation)

	now := time.Now()
	links := report.AggregatorLinks(keywords, searchLocation)
	for i, a := range links {
		fmt.Printf("\n%d. %s\n   %s\n   %s\n", i+1, color.CyanString(a.Source), a.URL, a.Instructions)
	}
	path, err := report.SaveSearch(aggregatorsDir, now, keywords, searchLocation, links)
	if err != nil {
		return err
	}
	color.Green("\n✅ Search links saved to: %s", path)

	if !searchFetch {
		fmt.Println("💡 Add --fetch to pull and score the free job boards")
		return nil
	}

	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	profile, err := rank.ExtractProfile(careerDir, nil)
	if err != nil {
		if !errors.Is(err, domain.ErrMissingData) {
			return err
		}
		color.Yellow("⚠️  %v; scoring without skills", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	hc := util.NewClient(cfg.Discovery.Timeout(), cfg.Discovery.UserAgent, nil)
	fmt.Println("\n🌐 Fetching job boards...")
	listings := boards.Search(ctx, boards.Default(hc), boards.BroadTerms, cfg.Discovery.Timeout())
	fmt.Printf("📦 %d unique listings\n", len(listings))

	matches := report.ScoreListings(rank.WeightedScorer{W: cfg.Scoring}, listings, profile, searchMinScore)
	out, err := report.SaveBoardMatches(aggregatorsDir, now, matches)
	if err != nil {
		return err
	}
	fmt.Printf("\n✨ %d listings scored >= %d\n", len(matches), searchMinScore)
	for i, m := range matches[:min(10, len(matches))] {
		printScored(i+1, m.Scored)
		fmt.Printf("   Board: %s\n", m.Board)
	}
	color.Green("\n✅ Matches saved to: %s", out)
	return nil
}
