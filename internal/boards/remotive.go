package boards

import (
	"context"
	"fmt"

	"jobforge/internal/scrape/util"
)

type Remotive struct {
	URL string // https://remotive.com/api/remote-jobs
	hc  *util.Client
}

func NewRemotive(hc *util.Client) *Remotive {
	return &Remotive{URL: "https://remotive.com/api/remote-jobs", hc: hc}
}

func (r *Remotive) Name() string { return "remotive" }

func (r *Remotive) Feed(ctx context.Context) ([]Listing, error) {
	var resp struct {
		Jobs []struct {
			Title       string `json:"title"`
			CompanyName string `json:"company_name"`
			URL         string `json:"url"`
			Category    string `json:"category"`
			Description string `json:"description"`
		} `json:"jobs"`
	}
	if err := r.hc.GetJSON(ctx, r.URL, nil, &resp); err != nil {
		return nil, fmt.Errorf("remotive feed: %w", err)
	}
	out := make([]Listing, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		var tags []string
		if j.Category != "" {
			tags = []string{j.Category}
		}
		out = append(out, listing(r.Name(), util.FirstNonEmpty(j.CompanyName, "Unknown"), util.CleanText(j.Title),
			j.URL, "Remote", tags, util.StripTags(j.Description)))
	}
	return out, nil
}
