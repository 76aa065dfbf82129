package generic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/browser"
	"jobforge/internal/scrape/types"
	"jobforge/internal/scrape/util"
)

type Config struct {
	Settle time.Duration
	Loop   browser.Loop
	// LoadMore selectors are tried in order before every scroll.
	LoadMore []string
}

func DefaultConfig() Config {
	return Config{
		Settle: 3 * time.Second,
		Loop:   browser.Loop{MaxIterations: 10, MaxIdle: 2, Pause: 2 * time.Second},
		LoadMore: []string{
			"button:has-text('Load More')",
			"button:has-text('Show More')",
			"button:has-text('View More')",
			"button:has-text('See More')",
			"a:has-text('Load More')",
			"a:has-text('Show More')",
			"[data-testid='load-more']",
			".load-more",
			".show-more",
		},
	}
}

var jobKeywords = []string{
	"job", "career", "position", "role", "opening",
	"opportunity", "apply", "hiring", "vacancy",
}

var excludeRes = compileAll(
	`/blog/`, `/news/`, `/about/`, `/contact/`,
	`/privacy`, `/terms`, `/legal/`, `/login`,
	`/signin`, `/signup`, `\.pdf$`, `\.png$`,
	`\.jpg$`, `javascript:`, `mailto:`, `tel:`,
)

var jobIDRe = regexp.MustCompile(`/(\d{5,}|[a-f0-9-]{8,})`)

var titleNoise = []string{" - Apply", " - View", " - Learn More", "Apply Now", "View Job"}

const (
	minLinkText = 3
	minTitleLen = 6
)

func compileAll(pats ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(pats))
	for i, p := range pats {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// Scraper handles career pages on no recognised platform: a plain GET and
// link scan first, then a rendered page with scrolling when a browser is
// available.
type Scraper struct {
	cfg Config
	hc  *util.Client
	br  browser.Launcher
}

// New returns a generic scraper. br may be nil to disable the rendered pass.
func New(cfg Config, hc *util.Client, br browser.Launcher) *Scraper {
	if cfg.LoadMore == nil {
		cfg.LoadMore = DefaultConfig().LoadMore
	}
	return &Scraper{cfg: cfg, hc: hc, br: br}
}

func (s *Scraper) Vendor() domain.Vendor { return domain.VendorGeneric }

func (s *Scraper) Fetch(ctx context.Context, co domain.Company) types.Result {
	if co.CareerURL == "" {
		return types.Permanent(s.Vendor(), "company has no career_url")
	}

	body, httpErr := s.hc.Get(ctx, co.CareerURL, nil)
	if httpErr == nil {
		if jobs := ExtractJobs(co.Name, co.CareerURL, body); len(jobs) > 0 {
			log.Printf("[ats:generic] company=%q source=http jobs=%d", co.Name, len(jobs))
			return types.Success(s.Vendor(), jobs)
		}
	} else {
		log.Printf("[ats:generic] company=%q http err=%v", co.Name, httpErr)
	}

	if s.br == nil {
		if httpErr != nil {
			return types.Failure(s.Vendor(), nil, fmt.Errorf("generic get: %w", httpErr))
		}
		return types.Success(s.Vendor(), nil)
	}

	jobs, err := s.fetchRendered(ctx, co)
	if err != nil {
		log.Printf("[ats:generic] company=%q browser err=%v", co.Name, err)
		// A missing browser should not hide a plain HTTP answer of zero jobs.
		if httpErr == nil && errors.Is(err, browser.ErrUnavailable) {
			return types.Success(s.Vendor(), nil)
		}
		return types.Failure(s.Vendor(), jobs, fmt.Errorf("generic render: %w", err))
	}
	log.Printf("[ats:generic] company=%q source=browser jobs=%d", co.Name, len(jobs))
	return types.Success(s.Vendor(), jobs)
}

func (s *Scraper) fetchRendered(ctx context.Context, co domain.Company) ([]domain.Job, error) {
	page, err := s.br.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.Goto(ctx, co.CareerURL); err != nil {
		return nil, err
	}
	if err := browser.Sleep(ctx, s.cfg.Settle); err != nil {
		return nil, err
	}

	var jobs []domain.Job
	_, err = s.cfg.Loop.Run(ctx, func(int) (bool, error) {
		for _, sel := range s.cfg.LoadMore {
			if ok, _ := page.Click(sel); ok {
				if err := browser.Sleep(ctx, 1500*time.Millisecond); err != nil {
					return false, err
				}
			}
		}
		if err := page.Scroll(); err != nil {
			return false, err
		}
		return true, nil
	}, func() int {
		html, err := page.Content()
		if err != nil {
			return len(jobs)
		}
		jobs = ExtractJobs(co.Name, co.CareerURL, []byte(html))
		return len(jobs)
	})
	return jobs, err
}

// ExtractJobs returns job-looking links from an HTML page, resolved against
// base and deduplicated by canonical URL.
func ExtractJobs(company, base string, html []byte) []domain.Job {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil
	}

	seen := map[string]bool{}
	var out []domain.Job
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		text := util.CleanText(a.Text())
		if len(text) < minLinkText || excluded(href) {
			return
		}
		if !looksLikeJob(href, text) {
			return
		}

		abs := util.AbsURL(base, href)
		if abs == "" {
			return
		}
		key := domain.CanonicalURL(abs)
		if seen[key] {
			return
		}
		seen[key] = true

		title := cleanTitle(text)
		if len(title) < minTitleLen {
			return
		}
		out = append(out, domain.NewJob(company, title, abs, "", "", domain.VendorGeneric))
	})
	return out
}

func excluded(href string) bool {
	for _, re := range excludeRes {
		if re.MatchString(href) {
			return true
		}
	}
	return false
}

func looksLikeJob(href, text string) bool {
	combined := strings.ToLower(href + " " + text)
	for _, kw := range jobKeywords {
		if strings.Contains(combined, kw) {
			return true
		}
	}
	return jobIDRe.MatchString(href)
}

func cleanTitle(text string) string {
	text = util.CleanText(text)
	for _, n := range titleNoise {
		text = strings.ReplaceAll(text, n, "")
	}
	return strings.TrimSpace(text)
}
