package amazon

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/types"
	"jobforge/internal/scrape/util"
)

type Config struct {
	Base      string // https://www.amazon.jobs
	PageSize  int
	MaxOffset int
}

func DefaultConfig() Config {
	return Config{Base: "https://www.amazon.jobs", PageSize: 100, MaxOffset: 15000}
}

// Scraper pages through amazon.jobs' public search JSON. It is tied to that
// site's current response shape and is expected to break when it changes.
type Scraper struct {
	cfg Config
	hc  *util.Client
}

func New(cfg Config, hc *util.Client) *Scraper {
	def := DefaultConfig()
	if cfg.Base == "" {
		cfg.Base = def.Base
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = def.PageSize
	}
	if cfg.MaxOffset <= 0 {
		cfg.MaxOffset = def.MaxOffset
	}
	return &Scraper{cfg: cfg, hc: hc}
}

func (s *Scraper) Vendor() domain.Vendor { return domain.VendorAmazon }

type searchResponse struct {
	Hits int `json:"hits"`
	Jobs []struct {
		IDIcims          string `json:"id_icims"`
		Title            string `json:"title"`
		Location         string `json:"location"`
		BusinessCategory string `json:"business_category"`
	} `json:"jobs"`
}

func (s *Scraper) Fetch(ctx context.Context, co domain.Company) types.Result {
	searchURL := s.cfg.Base + "/en/search.json"

	var out []domain.Job
	for offset := 0; ; offset += s.cfg.PageSize {
		if offset > s.cfg.MaxOffset {
			log.Printf("[ats:amazon] offset cap %d reached with %d jobs", s.cfg.MaxOffset, len(out))
			break
		}

		q := url.Values{
			"radius":       {"24km"},
			"offset":       {strconv.Itoa(offset)},
			"result_limit": {strconv.Itoa(s.cfg.PageSize)},
			"sort":         {"relevant"},
		}
		var page searchResponse
		if err := s.hc.GetJSON(ctx, searchURL, q, &page); err != nil {
			log.Printf("[ats:amazon] offset=%d err=%v", offset, err)
			return types.Failure(s.Vendor(), out, fmt.Errorf("amazon search offset=%d: %w", offset, err))
		}
		if len(page.Jobs) == 0 {
			break
		}

		for _, j := range page.Jobs {
			if j.IDIcims == "" || j.Title == "" {
				continue
			}
			jobURL := fmt.Sprintf("%s/en/jobs/%s", s.cfg.Base, url.PathEscape(j.IDIcims))
			out = append(out, domain.NewJob(co.Name, j.Title, jobURL,
				util.NormalizeLocation(j.Location), j.BusinessCategory, domain.VendorAmazon))
		}

		if len(out) >= page.Hits || len(page.Jobs) < s.cfg.PageSize {
			break
		}
	}
	return types.Success(s.Vendor(), out)
}
