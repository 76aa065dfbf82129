package boards

import (
	"context"
	"encoding/json"
	"fmt"

	"jobforge/internal/scrape/util"
)

type RemoteOK struct {
	URL string // https://remoteok.com/api
	hc  *util.Client
}

func NewRemoteOK(hc *util.Client) *RemoteOK {
	return &RemoteOK{URL: "https://remoteok.com/api", hc: hc}
}

func (r *RemoteOK) Name() string { return "remoteok" }

type remoteOKJob struct {
	Position    string   `json:"position"`
	Company     string   `json:"company"`
	URL         string   `json:"url"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Feed decodes the API array. Its first element is a legal notice rather
// than a job and is skipped along with anything else lacking a position.
func (r *RemoteOK) Feed(ctx context.Context) ([]Listing, error) {
	var raw []json.RawMessage
	if err := r.hc.GetJSON(ctx, r.URL, nil, &raw); err != nil {
		return nil, fmt.Errorf("remoteok feed: %w", err)
	}
	var out []Listing
	for _, m := range raw {
		var j remoteOKJob
		if err := json.Unmarshal(m, &j); err != nil || j.Position == "" {
			continue
		}
		out = append(out, listing(r.Name(), util.FirstNonEmpty(j.Company, "Unknown"), util.CleanText(j.Position),
			j.URL, "Remote", j.Tags, util.StripTags(j.Description)))
	}
	return out, nil
}
