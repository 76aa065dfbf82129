package greenhouse

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/types"
	"jobforge/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

type Config struct {
	APIBase   string // https://boards-api.greenhouse.io
	BoardBase string // https://boards.greenhouse.io
}

func DefaultConfig() Config {
	return Config{
		APIBase:   "https://boards-api.greenhouse.io",
		BoardBase: "https://boards.greenhouse.io",
	}
}

type Scraper struct {
	cfg Config
	hc  *util.Client
}

func New(cfg Config, hc *util.Client) *Scraper {
	return &Scraper{cfg: cfg, hc: hc}
}

func (s *Scraper) Vendor() domain.Vendor { return domain.VendorGreenhouse }

type ghJobs struct {
	Jobs []struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		AbsoluteURL string `json:"absolute_url"`
		Location    struct {
			Name string `json:"name"`
		} `json:"location"`
		Departments []struct {
			Name string `json:"name"`
		} `json:"departments"`
	} `json:"jobs"`
}

// BoardToken is the first path segment of a greenhouse.io URL, or the
// company name squashed to lower case.
func BoardToken(co domain.Company) string {
	if seg, ok := util.FirstPathSegment(co.CareerURL, "greenhouse.io"); ok {
		if seg == "embed" {
			if u, err := url.Parse(co.CareerURL); err == nil {
				if f := u.Query().Get("for"); f != "" {
					return f
				}
			}
		}
		return seg
	}
	return util.SlugFromName(co.Name)
}

func (s *Scraper) Fetch(ctx context.Context, co domain.Company) types.Result {
	token := BoardToken(co)
	if token == "" {
		return types.Permanent(s.Vendor(), "no board token")
	}

	jobs, apiErr := s.fetchAPI(ctx, co, token)
	if apiErr == nil {
		return types.Success(s.Vendor(), jobs)
	}
	log.Printf("[ats:greenhouse] company=%q token=%q api err=%v", co.Name, token, apiErr)

	jobs, err := s.fetchEmbed(ctx, co, token)
	if err != nil {
		log.Printf("[ats:greenhouse] company=%q token=%q embed err=%v", co.Name, token, err)
	}
	if len(jobs) > 0 {
		return types.Success(s.Vendor(), jobs)
	}
	return types.Failure(s.Vendor(), nil, apiErr)
}

func (s *Scraper) fetchAPI(ctx context.Context, co domain.Company, token string) ([]domain.Job, error) {
	apiURL := fmt.Sprintf("%s/v1/boards/%s/jobs", s.cfg.APIBase, url.PathEscape(token))

	var body ghJobs
	if err := s.hc.GetJSON(ctx, apiURL, nil, &body); err != nil {
		return nil, fmt.Errorf("greenhouse api: %w", err)
	}

	out := make([]domain.Job, 0, len(body.Jobs))
	for _, j := range body.Jobs {
		if strings.TrimSpace(j.Title) == "" || j.AbsoluteURL == "" {
			continue
		}
		team := ""
		if len(j.Departments) > 0 {
			team = j.Departments[0].Name
		}
		out = append(out, domain.NewJob(co.Name, j.Title, j.AbsoluteURL,
			util.NormalizeLocation(j.Location.Name), team, domain.VendorGreenhouse))
	}
	return out, nil
}

func (s *Scraper) fetchEmbed(ctx context.Context, co domain.Company, token string) ([]domain.Job, error) {
	embedURL := s.cfg.BoardBase + "/embed/job_board"
	body, err := s.hc.Get(ctx, embedURL, url.Values{"for": {token}})
	if err != nil {
		return nil, fmt.Errorf("greenhouse embed: %w", err)
	}
	return parseEmbed(body, embedURL, co.Name)
}

// parseEmbed keeps anchors pointing at greenhouse job pages.
func parseEmbed(body []byte, pageURL, company string) ([]domain.Job, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("greenhouse parse embed html: %w", err)
	}

	seen := map[string]bool{}
	var jobs []domain.Job
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		abs := util.AbsURL(pageURL, href)
		low := strings.ToLower(abs)
		if !strings.Contains(low, "greenhouse") || !strings.Contains(low, "/jobs/") {
			return
		}
		title := util.CleanText(a.Text())
		if title == "" {
			return
		}
		key := domain.CanonicalURL(abs)
		if seen[key] {
			return
		}
		seen[key] = true

		loc := util.NormalizeLocation(a.Closest(".opening").Find(".location").First().Text())
		jobs = append(jobs, domain.NewJob(company, title, abs, loc, "", domain.VendorGreenhouse))
	})
	return jobs, nil
}
