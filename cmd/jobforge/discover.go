package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jobforge/internal/config"
	"jobforge/internal/discover"
	"jobforge/internal/domain"
	"jobforge/internal/scrape"
	"jobforge/internal/scrape/browser"
	"jobforge/internal/scrape/detect"
	"jobforge/internal/scrape/types"
	"jobforge/internal/scrape/util"
	"jobforge/internal/store"
)

var (
	discoverCompanies []string
	discoverTimeout   int
	discoverConfig    string
	discoverNoBrowser bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Fetch openings from every configured company",
	RunE:  runDiscover,
}

func init() {
	f := discoverCmd.Flags()
	f.StringSliceVar(&discoverCompanies, "companies", nil, "Only these companies (comma-separated names)")
	f.IntVar(&discoverTimeout, "timeout", 30, "Per-request timeout in seconds")
	f.StringVar(&discoverConfig, "config", "config/companies.yaml", "Companies file")
	f.BoolVar(&discoverNoBrowser, "no-browser", false, "Skip vendors that need a headless browser")
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Discovery.TimeoutSeconds = discoverTimeout
	}

	companies, err := loadCompanies(discoverConfig)
	if err != nil {
		return err
	}
	if len(discoverCompanies) > 0 {
		picked, missing := config.Select(companies, discoverCompanies)
		for _, m := range missing {
			color.Yellow("⚠️  company %q is not in %s", m, discoverConfig)
		}
		companies = picked
	}
	if len(companies) == 0 {
		return fmt.Errorf("no companies to discover in %s: %w", discoverConfig, domain.ErrMissingData)
	}

	header("🔍 JobForge - Discovery")
	fmt.Printf("Companies: %d | timeout: %ds | browser: %v\n",
		len(companies), cfg.Discovery.TimeoutSeconds, cfg.Browser.Enabled && !discoverNoBrowser)

	limiter := util.NewHostLimiter(cfg.Discovery.RequestsPerSecond, cfg.Discovery.Burst)
	hc := util.NewClient(cfg.Discovery.Timeout(), cfg.Discovery.UserAgent, limiter)

	var br browser.Launcher
	if cfg.Browser.Enabled && !discoverNoBrowser {
		pw := browser.NewPlaywright(browser.Config{
			Headless:   cfg.Browser.Headless,
			NavTimeout: cfg.Browser.NavTimeout(),
			UserAgent:  cfg.Discovery.UserAgent,
		})
		defer pw.Close()
		br = pw
	}

	jobs, err := store.Open(cfg.Discovery.OutputDir)
	if err != nil {
		return err
	}
	reg, err := store.OpenRegistry(cfg.Discovery.RegistryPath)
	if err != nil {
		return err
	}
	defer reg.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	runner := &discover.Runner{
		Fetchers: scrape.NewFetchers(cfg, hc, br),
		Detector: detect.New(hc),
		Filters:  discover.NewFilters(cfg),
		Jobs:     jobs,
		Registry: reg,
	}
	start := time.Now()
	sum, err := runner.Run(ctx, companies)
	printDiscovery(sum, time.Since(start))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func loadCompanies(path string) ([]domain.Company, error) {
	cf, err := config.LoadCompanies(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("companies file %s (run `jobforge init --example`): %w", path, domain.ErrMissingData)
		}
		return nil, err
	}
	companies, v := cf.Normalize()
	for _, w := range v.Warnings {
		color.Yellow("⚠️  %s", w)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	return companies, nil
}

func printDiscovery(sum discover.Summary, took time.Duration) {
	fmt.Println()
	fmt.Printf("%-24s %-11s %7s %5s %4s  %s\n", "Company", "Source", "Fetched", "Kept", "New", "Outcome")
	fmt.Println(rule(70))
	for _, r := range sum.Companies {
		outcome := color.GreenString(r.Outcome.String())
		switch r.Outcome {
		case types.OutcomeTransient:
			outcome = color.YellowString("%s: %s", r.Outcome, util.Truncate(r.Reason, 60))
		case types.OutcomePermanent:
			outcome = color.RedString("%s: %s", r.Outcome, util.Truncate(r.Reason, 60))
		}
		fmt.Printf("%-24s %-11s %7d %5d %4d  %s\n",
			util.Truncate(r.Company, 24), r.Vendor, r.Fetched, r.Kept, r.New, outcome)
	}
	fmt.Println(rule(70))
	fmt.Printf("✅ %d new jobs | %d unique stored | %d failed | %s\n",
		sum.NewJobs, sum.Stats.TotalJobs, sum.Failed, took.Round(time.Second))
	fmt.Printf("📂 %s\n", sum.Stats.OutputDir)
}
