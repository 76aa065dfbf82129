package domain

import (
	"strings"
	"time"
)

// Job is one posting as returned by a fetcher. Fetchers build it with NewJob
// and nothing downstream mutates it.
type Job struct {
	Company      string    `json:"company"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Location     string    `json:"location,omitempty"`
	Team         string    `json:"team,omitempty"`
	Source       Vendor    `json:"source"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

func NewJob(company, title, url, location, team string, source Vendor) Job {
	return Job{
		Company:      strings.TrimSpace(company),
		Title:        strings.TrimSpace(title),
		URL:          strings.TrimSpace(url),
		Location:     strings.TrimSpace(location),
		Team:         strings.TrimSpace(team),
		Source:       source,
		DiscoveredAt: time.Now().UTC().Truncate(time.Second),
	}
}

// CanonicalURL is the dedupe key: query stripped, trailing slash removed,
// lower-cased.
func (j Job) CanonicalURL() string {
	return CanonicalURL(j.URL)
}

func CanonicalURL(raw string) string {
	u := strings.TrimSpace(raw)
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimRight(u, "/")
	return strings.ToLower(u)
}
