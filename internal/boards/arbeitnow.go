package boards

import (
	"context"
	"fmt"

	"jobforge/internal/scrape/util"
)

// Arbeitnow lists mostly European jobs, some remote.
type Arbeitnow struct {
	URL string // https://www.arbeitnow.com/api/job-board-api
	hc  *util.Client
}

func NewArbeitnow(hc *util.Client) *Arbeitnow {
	return &Arbeitnow{URL: "https://www.arbeitnow.com/api/job-board-api", hc: hc}
}

func (a *Arbeitnow) Name() string { return "arbeitnow" }

func (a *Arbeitnow) Feed(ctx context.Context) ([]Listing, error) {
	var resp struct {
		Data []struct {
			Title       string   `json:"title"`
			CompanyName string   `json:"company_name"`
			Location    string   `json:"location"`
			URL         string   `json:"url"`
			Description string   `json:"description"`
			Tags        []string `json:"tags"`
		} `json:"data"`
	}
	if err := a.hc.GetJSON(ctx, a.URL, nil, &resp); err != nil {
		return nil, fmt.Errorf("arbeitnow feed: %w", err)
	}
	out := make([]Listing, 0, len(resp.Data))
	for _, j := range resp.Data {
		out = append(out, listing(a.Name(), util.FirstNonEmpty(j.CompanyName, "Unknown"), util.CleanText(j.Title),
			j.URL, j.Location, j.Tags, util.StripTags(j.Description)))
	}
	return out, nil
}
