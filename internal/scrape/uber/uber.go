package uber

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/browser"
	"jobforge/internal/scrape/types"
	"jobforge/internal/scrape/util"
)

type Config struct {
	CareersURL string
	JobURLBase string
	Settle     time.Duration
	Loop       browser.Loop
}

func DefaultConfig() Config {
	return Config{
		CareersURL: "https://www.uber.com/us/en/careers/list/",
		JobURLBase: "https://www.uber.com/us/en/careers/list/",
		Settle:     3 * time.Second,
		Loop:       browser.Loop{MaxIterations: 100, Pause: 1500 * time.Millisecond},
	}
}

const (
	resultsMatch   = "loadSearchJobsResults"
	showMoreButton = "button:has-text('Show more openings')"
)

// Scraper reads Uber's careers list by intercepting the search API calls the
// page makes while "Show more openings" is clicked.
type Scraper struct {
	cfg Config
	br  browser.Launcher
}

func New(cfg Config, br browser.Launcher) *Scraper {
	return &Scraper{cfg: cfg, br: br}
}

func (s *Scraper) Vendor() domain.Vendor { return domain.VendorUber }

type uberJob struct {
	ID       json.RawMessage `json:"id"`
	Title    string          `json:"title"`
	Location json.RawMessage `json:"location"`
	Team     string          `json:"team"`
}

type uberLocation struct {
	City        string `json:"city"`
	Region      string `json:"region"`
	CountryName string `json:"countryName"`
}

func decodeResults(body []byte) ([]uberJob, error) {
	var env struct {
		Data struct {
			Results []uberJob `json:"results"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return env.Data.Results, nil
}

func (s *Scraper) Fetch(ctx context.Context, co domain.Company) types.Result {
	if s.br == nil {
		return types.Permanent(s.Vendor(), "browser disabled")
	}
	page, err := s.br.NewPage(ctx)
	if err != nil {
		return types.Failure(s.Vendor(), nil, fmt.Errorf("uber open page: %w", err))
	}
	defer page.Close()

	results := browser.Collect(page, resultsMatch, decodeResults)

	if err := page.Goto(ctx, s.cfg.CareersURL); err != nil {
		return types.Failure(s.Vendor(), nil, fmt.Errorf("uber load: %w", err))
	}
	if err := browser.Sleep(ctx, s.cfg.Settle); err != nil {
		return types.Failure(s.Vendor(), nil, err)
	}

	clicks, loopErr := s.cfg.Loop.Run(ctx, func(int) (bool, error) {
		return page.Click(showMoreButton)
	}, results.Len)

	jobs := toJobs(co.Name, s.cfg.JobURLBase, results.Items())
	log.Printf("[ats:uber] company=%q clicks=%d raw=%d jobs=%d", co.Name, clicks, results.Len(), len(jobs))
	if loopErr != nil {
		return types.Failure(s.Vendor(), jobs, fmt.Errorf("uber show more: %w", loopErr))
	}
	return types.Success(s.Vendor(), jobs)
}

func toJobs(company, base string, raw []uberJob) []domain.Job {
	seen := map[string]bool{}
	var out []domain.Job
	for _, j := range raw {
		id := util.RawID(j.ID)
		if id == "" || j.Title == "" || seen[id] {
			continue
		}
		seen[id] = true
		jobURL := strings.TrimRight(base, "/") + "/" + id + "/"
		out = append(out, domain.NewJob(company, j.Title, jobURL, formatLocation(j.Location), j.Team, domain.VendorUber))
	}
	return out
}

func formatLocation(raw json.RawMessage) string {
	if s, ok := util.StringOr(raw); ok {
		return util.CleanText(s)
	}
	var loc uberLocation
	if len(raw) == 0 || json.Unmarshal(raw, &loc) != nil {
		return ""
	}
	country := loc.CountryName
	if country == "United States" {
		country = ""
	}
	return util.JoinNonEmpty(", ", loc.City, loc.Region, country)
}
