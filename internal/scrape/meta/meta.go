package meta

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
	SearchURL  string
	JobURLBase string
	Settle     time.Duration
	Loop       browser.Loop
}

func DefaultConfig() Config {
	return Config{
		SearchURL:  "https://www.metacareers.com/jobsearch",
		JobURLBase: "https://www.metacareers.com/jobs",
		Settle:     3 * time.Second,
		Loop:       browser.Loop{MaxIterations: 50, MaxIdle: 3, Pause: 1500 * time.Millisecond},
	}
}

const graphqlMatch = "graphql"

const maxListedLocations = 3

// Scraper scrolls metacareers.com and keeps the job lists from the GraphQL
// responses the page fetches as it goes.
type Scraper struct {
	cfg Config
	br  browser.Launcher
}

func New(cfg Config, br browser.Launcher) *Scraper {
	return &Scraper{cfg: cfg, br: br}
}

func (s *Scraper) Vendor() domain.Vendor { return domain.VendorMeta }

type metaJob struct {
	ID        json.RawMessage `json:"id"`
	Title     string          `json:"title"`
	Locations []string        `json:"locations"`
	Teams     []string        `json:"teams"`
}

func decodeSearch(body []byte) ([]metaJob, error) {
	var env struct {
		Data struct {
			Search struct {
				AllJobs []metaJob `json:"all_jobs"`
			} `json:"job_search_with_featured_jobs"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return env.Data.Search.AllJobs, nil
}

func (s *Scraper) Fetch(ctx context.Context, co domain.Company) types.Result {
	if s.br == nil {
		return types.Permanent(s.Vendor(), "browser disabled")
	}
	page, err := s.br.NewPage(ctx)
	if err != nil {
		return types.Failure(s.Vendor(), nil, fmt.Errorf("meta open page: %w", err))
	}
	defer page.Close()

	found := browser.Collect(page, graphqlMatch, decodeSearch)

	if err := page.Goto(ctx, s.cfg.SearchURL); err != nil {
		return types.Failure(s.Vendor(), nil, fmt.Errorf("meta load: %w", err))
	}
	if err := browser.Sleep(ctx, s.cfg.Settle); err != nil {
		return types.Failure(s.Vendor(), nil, err)
	}

	scrolls, loopErr := s.cfg.Loop.Run(ctx, func(int) (bool, error) {
		return true, page.Scroll()
	}, found.Len)

	jobs := toJobs(co.Name, s.cfg.JobURLBase, found.Items())
	log.Printf("[ats:meta] company=%q scrolls=%d raw=%d jobs=%d", co.Name, scrolls, found.Len(), len(jobs))
	if loopErr != nil {
		return types.Failure(s.Vendor(), jobs, fmt.Errorf("meta scroll: %w", loopErr))
	}
	return types.Success(s.Vendor(), jobs)
}

func toJobs(company, base string, raw []metaJob) []domain.Job {
	seen := map[string]bool{}
	var out []domain.Job
	for _, j := range raw {
		id := util.RawID(j.ID)
		if id == "" || j.Title == "" || seen[id] {
			continue
		}
		seen[id] = true
		jobURL := strings.TrimRight(base, "/") + "/" + id
		out = append(out, domain.NewJob(company, j.Title, jobURL,
			formatLocations(j.Locations), strings.Join(j.Teams, ", "), domain.VendorMeta))
	}
	return out
}

func formatLocations(locs []string) string {
	if len(locs) <= maxListedLocations {
		return strings.Join(locs, ", ")
	}
	return fmt.Sprintf("%s +%d more", strings.Join(locs[:maxListedLocations], ", "), len(locs)-maxListedLocations)
}
