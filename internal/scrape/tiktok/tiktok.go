package tiktok

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
	PositionsURL string
	JobURLBase   string
	Settle       time.Duration
	Loop         browser.Loop
}

func DefaultConfig() Config {
	return Config{
		PositionsURL: "https://lifeattiktok.com/position",
		JobURLBase:   "https://lifeattiktok.com/position",
		Settle:       3 * time.Second,
		Loop:         browser.Loop{MaxIterations: 500, Pause: 2 * time.Second},
	}
}

const postsMatch = "search/job/posts"

// Scraper clicks through lifeattiktok.com's numbered pages and keeps the
// post lists returned by its search API.
type Scraper struct {
	cfg Config
	br  browser.Launcher
}

func New(cfg Config, br browser.Launcher) *Scraper {
	return &Scraper{cfg: cfg, br: br}
}

func (s *Scraper) Vendor() domain.Vendor { return domain.VendorTikTok }

type cityInfo struct {
	EnName   string    `json:"en_name"`
	I18nName string    `json:"i18n_name"`
	Parent   *cityInfo `json:"parent"`
}

func (c *cityInfo) name() string {
	if c == nil {
		return ""
	}
	return util.FirstNonEmpty(c.EnName, c.I18nName)
}

type post struct {
	ID              json.RawMessage `json:"id"`
	Title           string          `json:"title"`
	CityInfo        *cityInfo       `json:"city_info"`
	JobFunctionName string          `json:"job_function_name"`
}

func decodePosts(body []byte) ([]post, error) {
	var env struct {
		Data struct {
			Posts []post `json:"job_post_list"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return env.Data.Posts, nil
}

func pageButton(n int) string {
	return fmt.Sprintf("button:text-is('%d')", n)
}

func (s *Scraper) Fetch(ctx context.Context, co domain.Company) types.Result {
	if s.br == nil {
		return types.Permanent(s.Vendor(), "browser disabled")
	}
	page, err := s.br.NewPage(ctx)
	if err != nil {
		return types.Failure(s.Vendor(), nil, fmt.Errorf("tiktok open page: %w", err))
	}
	defer page.Close()

	posts := browser.Collect(page, postsMatch, decodePosts)

	if err := page.Goto(ctx, s.cfg.PositionsURL); err != nil {
		return types.Failure(s.Vendor(), nil, fmt.Errorf("tiktok load: %w", err))
	}
	if err := browser.Sleep(ctx, s.cfg.Settle); err != nil {
		return types.Failure(s.Vendor(), nil, err)
	}

	// Page 1 is already loaded; step i clicks page i+2.
	pages, loopErr := s.cfg.Loop.Run(ctx, func(i int) (bool, error) {
		return page.Click(pageButton(i + 2))
	}, posts.Len)

	jobs := toJobs(co.Name, s.cfg.JobURLBase, posts.Items())
	log.Printf("[ats:tiktok] company=%q pages=%d raw=%d jobs=%d", co.Name, pages+1, posts.Len(), len(jobs))
	if loopErr != nil {
		return types.Failure(s.Vendor(), jobs, fmt.Errorf("tiktok paginate: %w", loopErr))
	}
	return types.Success(s.Vendor(), jobs)
}

func toJobs(company, base string, raw []post) []domain.Job {
	seen := map[string]bool{}
	var out []domain.Job
	for _, p := range raw {
		id := util.RawID(p.ID)
		if id == "" || p.Title == "" || seen[id] {
			continue
		}
		seen[id] = true
		jobURL := strings.TrimRight(base, "/") + "/" + id
		out = append(out, domain.NewJob(company, p.Title, jobURL, formatLocation(p.CityInfo), p.JobFunctionName, domain.VendorTikTok))
	}
	return out
}

func formatLocation(c *cityInfo) string {
	if c == nil {
		return ""
	}
	city := c.name()
	var state, country string
	if c.Parent != nil {
		state = c.Parent.name()
		if state == city {
			state = ""
		}
		country = c.Parent.Parent.name()
		if country == "United States of America" {
			country = ""
		}
	}
	return util.JoinNonEmpty(", ", city, state, country)
}
