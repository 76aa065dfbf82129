package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jobforge/internal/domain"
	"jobforge/internal/rank"
	"jobforge/internal/report"
)

var (
	forgeTop      int
	forgeMinScore int
	forgeOutput   string

	showTop      int
	showCompany  string
	showMinScore int

	exportOutput      string
	exportMinScore    int
	exportActionSheet bool

	referralTop int
)

var forgeCmd = &cobra.Command{
	Use:   "forge",
	Short: "Write tailored resumes for the best matches",
	RunE:  runForge,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the latest match results",
	RunE:  runShow,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the latest match results to CSV",
	RunE:  runExport,
}

var referralCmd = &cobra.Command{
	Use:   "referral",
	Short: "Build LinkedIn searches for referrals at the top companies",
	RunE:  runReferral,
}

func init() {
	f := forgeCmd.Flags()
	f.IntVar(&forgeTop, "top", 5, "Number of resumes")
	f.IntVar(&forgeMinScore, "min-score", 70, "Minimum match score")
	f.StringVar(&forgeOutput, "output", resumesDir, "Output directory")

	f = showCmd.Flags()
	f.IntVar(&showTop, "top", 10, "Number of jobs to show")
	f.StringVar(&showCompany, "company", "", "Only companies containing this text")
	f.IntVar(&showMinScore, "min-score", 0, "Minimum match score")

	f = exportCmd.Flags()
	f.StringVar(&exportOutput, "output", "jobforge-results.csv", "CSV file to write")
	f.IntVar(&exportMinScore, "min-score", 0, "Minimum match score")
	f.BoolVar(&exportActionSheet, "action-sheet", false, "Also write ACTION_SHEET.csv into the match run")

	referralCmd.Flags().IntVar(&referralTop, "top", 10, "Number of top jobs to group by company")
}

func runForge(_ *cobra.Command, _ []string) error {
	header("📄 JobForge - Resume Generation")
	run, scored, err := rank.LoadLatest(matchesDir)
	if err != nil {
		return err
	}
	years := 0
	if p, err := rank.ExtractProfile(careerDir, nil); err == nil {
		years = p.Years
	}

	paths, err := report.Forge(scored, report.ForgeOptions{
		Top:       forgeTop,
		MinScore:  forgeMinScore,
		OutDir:    forgeOutput,
		CareerDir: careerDir,
		Years:     years,
	})
	if err != nil {
		return err
	}
	fmt.Printf("📊 %d scored jobs in %s\n", len(scored), run)
	if len(paths) == 0 {
		return fmt.Errorf("no jobs with score >= %d (try a lower --min-score): %w", forgeMinScore, domain.ErrMissingData)
	}
	for i, p := range paths {
		fmt.Printf("   [%d/%d] %s\n", i+1, len(paths), p)
	}
	color.Green("\n✅ Generated %d resumes in %s", len(paths), forgeOutput)
	return nil
}

func runShow(_ *cobra.Command, _ []string) error {
	header("📊 JobForge - Match Results")
	_, scored, err := rank.LoadLatest(matchesDir)
	if err != nil {
		return err
	}
	picked := report.Select(scored, showCompany, showMinScore)
	shown := picked[:min(showTop, len(picked))]
	fmt.Printf("Showing top %d of %d matches\n", len(shown), len(picked))
	for i, s := range shown {
		printScored(i+1, s)
	}
	return nil
}

func runExport(_ *cobra.Command, _ []string) error {
	run, scored, err := rank.LoadLatest(matchesDir)
	if err != nil {
		return err
	}
	picked := report.Select(scored, "", exportMinScore)
	if err := report.Export(exportOutput, picked); err != nil {
		return err
	}
	color.Green("✅ Exported %d jobs to %s", len(picked), exportOutput)

	if exportActionSheet {
		path, err := report.ActionSheet(run, resumesDir, picked)
		if err != nil {
			return err
		}
		color.Green("✅ Action sheet created: %s", path)
		fmt.Println("   Status column: TODO / CONTACTED / APPLIED / INTERVIEW")
	}
	return nil
}

func runReferral(_ *cobra.Command, _ []string) error {
	header("🔍 JobForge - Employee Finder")
	run, scored, err := rank.LoadLatest(matchesDir)
	if err != nil {
		return err
	}
	contacts := report.Referrals(scored, referralTop)
	fmt.Printf("📋 %d companies in the top %d matches\n", len(contacts), referralTop)
	for i, c := range contacts {
		fmt.Printf("\n%d. %s (%d matching jobs)\n", i+1, color.CyanString(c.Company), c.JobsCount)
		fmt.Printf("   🔗 Employees:  %s\n", c.All)
		fmt.Printf("   🔗 Engineers:  %s\n", c.Engineers)
		fmt.Printf("   🔗 Recruiters: %s\n", c.Recruiters)
		for _, j := range c.TopJobs {
			fmt.Printf("      • %s (%d%%)\n", j.Title, j.Score)
		}
	}

	path, err := report.SaveReferrals(run, contacts)
	if err != nil {
		return err
	}
	if len(contacts) > 0 {
		msg, _ := report.FormatMessage("connection_request", report.MessageVars{
			Name: "[Name]", Company: contacts[0].Company, Role: contacts[0].TopJobs[0].Title,
		})
		fmt.Printf("\n💬 Connection request:\n%s\n", msg)
	}
	color.Green("\n✅ Results saved to: %s", path)
	return nil
}
