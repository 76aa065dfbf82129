package lever

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/types"
	"jobforge/internal/scrape/util"
)

type Config struct {
	APIBase   string // https://api.lever.co
	BoardBase string // https://jobs.lever.co
}

func DefaultConfig() Config {
	return Config{
		APIBase:   "https://api.lever.co",
		BoardBase: "https://jobs.lever.co",
	}
}

type Scraper struct {
	cfg Config
	hc  *util.Client
}

func New(cfg Config, hc *util.Client) *Scraper {
	return &Scraper{cfg: cfg, hc: hc}
}

func (s *Scraper) Vendor() domain.Vendor { return domain.VendorLever }

type leverPosting struct {
	ID         string `json:"id"`
	Text       string `json:"text"` // title
	HostedURL  string `json:"hostedUrl"`
	Categories struct {
		Location string `json:"location"`
		Team     string `json:"team"`
	} `json:"categories"`
}

var (
	postingTitleRe = regexp.MustCompile(`(?is)<a[^>]+class="[^"]*posting-title[^"]*"[^>]+href="([^"]+)"[^>]*>.*?<h5[^>]*>([^<]+)</h5>`)
	postingLinkRe  = regexp.MustCompile(`(?i)href="(https://jobs\.lever\.co/[^/"]+/[^"]+)"[^>]*>([^<]+)</a>`)
)

func Slug(co domain.Company) string {
	if seg, ok := util.FirstPathSegment(co.CareerURL, "lever.co"); ok {
		return seg
	}
	return util.SlugFromName(co.Name)
}

func (s *Scraper) Fetch(ctx context.Context, co domain.Company) types.Result {
	slug := Slug(co)
	if slug == "" {
		return types.Permanent(s.Vendor(), "no lever slug")
	}

	jobs, apiErr := s.fetchAPI(ctx, co, slug)
	if apiErr == nil {
		return types.Success(s.Vendor(), jobs)
	}
	log.Printf("[ats:lever] company=%q slug=%q api err=%v", co.Name, slug, apiErr)

	jobs, err := s.fetchHTML(ctx, co, slug)
	if err != nil {
		log.Printf("[ats:lever] company=%q slug=%q html err=%v", co.Name, slug, err)
	}
	if len(jobs) > 0 {
		return types.Success(s.Vendor(), jobs)
	}
	return types.Failure(s.Vendor(), nil, apiErr)
}

func (s *Scraper) fetchAPI(ctx context.Context, co domain.Company, slug string) ([]domain.Job, error) {
	apiURL := fmt.Sprintf("%s/v0/postings/%s", s.cfg.APIBase, url.PathEscape(slug))

	var postings []leverPosting
	if err := s.hc.GetJSON(ctx, apiURL, url.Values{"mode": {"json"}}, &postings); err != nil {
		return nil, fmt.Errorf("lever api: %w", err)
	}

	out := make([]domain.Job, 0, len(postings))
	for _, p := range postings {
		if p.HostedURL == "" || strings.TrimSpace(p.Text) == "" {
			continue
		}
		out = append(out, domain.NewJob(co.Name, p.Text, p.HostedURL,
			util.NormalizeLocation(p.Categories.Location), p.Categories.Team, domain.VendorLever))
	}
	return out, nil
}

func (s *Scraper) fetchHTML(ctx context.Context, co domain.Company, slug string) ([]domain.Job, error) {
	boardURL := fmt.Sprintf("%s/%s", s.cfg.BoardBase, url.PathEscape(slug))
	body, err := s.hc.Get(ctx, boardURL, nil)
	if err != nil {
		return nil, fmt.Errorf("lever board: %w", err)
	}
	return parseBoard(string(body), boardURL, co.Name), nil
}

// parseBoard tries the posting-title markup first and falls back to any
// absolute jobs.lever.co posting link.
func parseBoard(html, pageURL, company string) []domain.Job {
	matches := postingTitleRe.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		matches = postingLinkRe.FindAllStringSubmatch(html, -1)
	}

	seen := map[string]bool{}
	var out []domain.Job
	for _, m := range matches {
		abs := util.AbsURL(pageURL, m[1])
		title := util.CleanText(m[2])
		if abs == "" || title == "" {
			continue
		}
		key := domain.CanonicalURL(abs)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, domain.NewJob(company, title, abs, "", "", domain.VendorLever))
	}
	return out
}
