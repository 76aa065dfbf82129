package ashby

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
	Base string // https://jobs.ashbyhq.com
}

func DefaultConfig() Config {
	return Config{Base: "https://jobs.ashbyhq.com"}
}

type Scraper struct {
	cfg Config
	hc  *util.Client
}

func New(cfg Config, hc *util.Client) *Scraper {
	return &Scraper{cfg: cfg, hc: hc}
}

func (s *Scraper) Vendor() domain.Vendor { return domain.VendorAshby }

const boardQuery = `query ApiJobBoardWithTeams($organizationHostedJobsPageName: String!) {
  jobBoard: jobBoardWithTeams(organizationHostedJobsPageName: $organizationHostedJobsPageName) {
    teams { id name }
    jobPostings { id title locationName employmentType teamId }
  }
}`

type gqlRequest struct {
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	Query         string         `json:"query"`
}

type gqlResponse struct {
	Data struct {
		JobBoard *struct {
			Teams []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"teams"`
			JobPostings []struct {
				ID             string `json:"id"`
				Title          string `json:"title"`
				LocationName   string `json:"locationName"`
				EmploymentType string `json:"employmentType"`
				TeamID         string `json:"teamId"`
			} `json:"jobPostings"`
		} `json:"jobBoard"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

var postingLinkRe = regexp.MustCompile(`(?is)href="(/[^/"]+/[a-f0-9-]+)"[^>]*>.*?<[^>]+>([^<]+)</[^>]+>`)

func Slug(co domain.Company) string {
	if seg, ok := util.FirstPathSegment(co.CareerURL, "ashbyhq.com"); ok && seg != "api" {
		return seg
	}
	return util.SlugFromName(co.Name)
}

func (s *Scraper) Fetch(ctx context.Context, co domain.Company) types.Result {
	slug := Slug(co)
	if slug == "" {
		return types.Permanent(s.Vendor(), "no ashby slug")
	}

	jobs, apiErr := s.fetchAPI(ctx, co, slug)
	if apiErr == nil {
		return types.Success(s.Vendor(), jobs)
	}
	log.Printf("[ats:ashby] company=%q slug=%q api err=%v", co.Name, slug, apiErr)

	jobs, err := s.fetchHTML(ctx, co, slug)
	if err != nil {
		log.Printf("[ats:ashby] company=%q slug=%q html err=%v", co.Name, slug, err)
	}
	if len(jobs) > 0 {
		return types.Success(s.Vendor(), jobs)
	}
	return types.Failure(s.Vendor(), nil, apiErr)
}

func (s *Scraper) fetchAPI(ctx context.Context, co domain.Company, slug string) ([]domain.Job, error) {
	req := gqlRequest{
		OperationName: "ApiJobBoardWithTeams",
		Variables:     map[string]any{"organizationHostedJobsPageName": slug},
		Query:         boardQuery,
	}
	var res gqlResponse
	if err := s.hc.PostJSON(ctx, s.cfg.Base+"/api/non-user-graphql", req, &res, nil); err != nil {
		return nil, fmt.Errorf("ashby graphql: %w", err)
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("ashby graphql: %w: %s", util.ErrDecode, res.Errors[0].Message)
	}
	if res.Data.JobBoard == nil {
		return nil, fmt.Errorf("ashby graphql: %w: no job board for %q", util.ErrDecode, slug)
	}

	teams := make(map[string]string, len(res.Data.JobBoard.Teams))
	for _, t := range res.Data.JobBoard.Teams {
		teams[t.ID] = t.Name
	}

	out := make([]domain.Job, 0, len(res.Data.JobBoard.JobPostings))
	for _, p := range res.Data.JobBoard.JobPostings {
		if p.ID == "" || strings.TrimSpace(p.Title) == "" {
			continue
		}
		jobURL := fmt.Sprintf("%s/%s/%s", s.cfg.Base, slug, p.ID)
		out = append(out, domain.NewJob(co.Name, p.Title, jobURL,
			util.NormalizeLocation(p.LocationName), teams[p.TeamID], domain.VendorAshby))
	}
	return out, nil
}

func (s *Scraper) fetchHTML(ctx context.Context, co domain.Company, slug string) ([]domain.Job, error) {
	boardURL := fmt.Sprintf("%s/%s", s.cfg.Base, url.PathEscape(slug))
	body, err := s.hc.Get(ctx, boardURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ashby board: %w", err)
	}
	return parseBoard(string(body), s.cfg.Base, slug, co.Name), nil
}

// parseBoard keeps /{slug}/{posting-id} links from the board page.
func parseBoard(html, base, slug, company string) []domain.Job {
	prefix := "/" + slug + "/"
	seen := map[string]bool{}
	var out []domain.Job
	for _, m := range postingLinkRe.FindAllStringSubmatch(html, -1) {
		path, title := m[1], util.CleanText(m[2])
		if !strings.HasPrefix(path, prefix) || title == "" {
			continue
		}
		jobURL := base + path
		if seen[jobURL] {
			continue
		}
		seen[jobURL] = true
		out = append(out, domain.NewJob(company, title, jobURL, "", "", domain.VendorAshby))
	}
	return out
}
