// Package google reads Google's careers results pages. The pages carry no
// structured data, so titles and locations are recovered from the rendered
// text layout; expect this to break whenever the page design changes.
package google

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/browser"
	"jobforge/internal/scrape/types"
	"jobforge/internal/scrape/util"
)

type Config struct {
	ResultsURL string
	Settle     time.Duration
	Loop       browser.Loop
}

func DefaultConfig() Config {
	return Config{
		ResultsURL: "https://www.google.com/about/careers/applications/jobs/results/",
		Settle:     2 * time.Second,
		Loop:       browser.Loop{MaxIterations: 200},
	}
}

var jobIDRe = regexp.MustCompile(`jobs/results/(\d{15,})`)

const (
	companyMarker = "corporate_fare"
	placeMarker   = "place"
	minTitleLen   = 6
)

type Scraper struct {
	cfg Config
	br  browser.Launcher
}

func New(cfg Config, br browser.Launcher) *Scraper {
	return &Scraper{cfg: cfg, br: br}
}

func (s *Scraper) Vendor() domain.Vendor { return domain.VendorGoogle }

func (s *Scraper) pageURL(n int) string {
	u, err := url.Parse(s.cfg.ResultsURL)
	if err != nil {
		return s.cfg.ResultsURL + "?page=" + strconv.Itoa(n)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *Scraper) Fetch(ctx context.Context, co domain.Company) types.Result {
	if s.br == nil {
		return types.Permanent(s.Vendor(), "browser disabled")
	}
	page, err := s.br.NewPage(ctx)
	if err != nil {
		return types.Failure(s.Vendor(), nil, fmt.Errorf("google open page: %w", err))
	}
	defer page.Close()

	seen := map[string]bool{}
	var jobs []domain.Job

	pages, loopErr := s.cfg.Loop.Run(ctx, func(i int) (bool, error) {
		n := i + 1
		if err := page.Goto(ctx, s.pageURL(n)); err != nil {
			return false, err
		}
		if err := browser.Sleep(ctx, s.cfg.Settle); err != nil {
			return false, err
		}
		html, err := page.Content()
		if err != nil {
			return false, err
		}
		text, err := page.Text()
		if err != nil {
			return false, err
		}
		found := extractJobs(co.Name, s.cfg.ResultsURL, html, text, seen)
		jobs = append(jobs, found...)
		if n%10 == 0 {
			log.Printf("[ats:google] page=%d jobs=%d", n, len(jobs))
		}
		return len(found) > 0, nil
	}, func() int { return len(jobs) })

	log.Printf("[ats:google] company=%q pages=%d jobs=%d", co.Name, pages, len(jobs))
	if loopErr != nil {
		if len(jobs) > 0 {
			return types.Failure(s.Vendor(), jobs, fmt.Errorf("google page %d: %w", pages+1, loopErr))
		}
		return types.Failure(s.Vendor(), nil, fmt.Errorf("google load: %w", loopErr))
	}
	return types.Success(s.Vendor(), jobs)
}

type listing struct {
	title    string
	location string
}

// extractJobs pairs job ids found in the HTML, in order, with listings read
// from the body text. The text repeats the block
// "Title / corporate_fare / Company / place / Location" for each job.
func extractJobs(company, base, html, text string, seen map[string]bool) []domain.Job {
	var ids []string
	inPage := map[string]bool{}
	for _, m := range jobIDRe.FindAllStringSubmatch(html, -1) {
		if !inPage[m[1]] {
			inPage[m[1]] = true
			ids = append(ids, m[1])
		}
	}

	listings := parseListings(text)

	var out []domain.Job
	for i, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		l := listing{title: "Job " + id}
		if i < len(listings) {
			l = listings[i]
		}
		jobURL := strings.TrimRight(base, "/") + "/" + id
		out = append(out, domain.NewJob(company, l.title, jobURL, l.location, "", domain.VendorGoogle))
	}
	return out
}

func parseListings(text string) []listing {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}

	var out []listing
	for i := 0; i+4 < len(lines); i++ {
		if lines[i+1] != companyMarker {
			continue
		}
		var loc string
		for j := i + 2; j < min(i+10, len(lines)); j++ {
			if lines[j] == placeMarker && j+1 < len(lines) {
				loc, _, _ = strings.Cut(lines[j+1], ";")
				loc = util.CleanText(loc)
				break
			}
		}
		if len(lines[i]) >= minTitleLen {
			out = append(out, listing{title: lines[i], location: loc})
		}
	}
	return out
}
