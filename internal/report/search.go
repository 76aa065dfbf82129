package report

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"jobforge/internal/boards"
	"jobforge/internal/rank"
	"jobforge/internal/store"
)

// Aggregator is a ready-made search on a job site the tool does not scrape.
type Aggregator struct {
	Source       string `json:"source"`
	URL          string `json:"url"`
	Instructions string `json:"instructions"`
}

const openInBrowser = "Open this URL in browser to see all matching jobs"

// AggregatorLinks builds searches for the last week's postings on LinkedIn,
// Indeed, Glassdoor, Wellfound and Y Combinator.
func AggregatorLinks(keywords, location string) []Aggregator {
	kw, loc := queryEscape(keywords), queryEscape(location)
	return []Aggregator{
		{"LinkedIn Jobs", "https://www.linkedin.com/jobs/search/?keywords=" + kw + "&location=" + loc + "&f_TPR=r604800", openInBrowser},
		{"Indeed", "https://www.indeed.com/jobs?q=" + kw + "&l=" + loc + "&fromage=7", openInBrowser},
		{"Glassdoor", "https://www.glassdoor.com/Job/jobs.htm?sc.keyword=" + kw + "&fromAge=7", openInBrowser},
		{"Wellfound (Startups)", "https://wellfound.com/jobs?query=" + kw, "Open this URL in browser to see startup jobs"},
		{"Y Combinator Jobs", "https://www.ycombinator.com/jobs", "Search for your role on this page"},
	}
}

type searchFile struct {
	Keywords    string       `json:"keywords"`
	Location    string       `json:"location"`
	Aggregators []Aggregator `json:"aggregators"`
	Timestamp   time.Time    `json:"timestamp"`
}

// SaveSearch writes dir/search-YYYY-MM-DD.json.
func SaveSearch(dir string, now time.Time, keywords, location string, links []Aggregator) (string, error) {
	path := filepath.Join(dir, "search-"+now.Format("2006-01-02")+".json")
	f := searchFile{Keywords: keywords, Location: location, Aggregators: links, Timestamp: now}
	if err := store.WriteJSON(path, f); err != nil {
		return "", fmt.Errorf("search save: %w", err)
	}
	return path, nil
}

// BoardMatch is a scored job-board listing.
type BoardMatch struct {
	rank.Scored
	Board string
}

// ScoreListings scores board listings with s and keeps those at or above
// minScore, best first. Skills are also looked up in each description.
func ScoreListings(s rank.WeightedScorer, listings []boards.Listing, p rank.Profile, minScore int) []BoardMatch {
	byURL := make(map[string]string, len(listings))
	cs := make([]rank.Candidate, 0, len(listings))
	for _, l := range listings {
		byURL[l.Job.URL] = l.Board
		cs = append(cs, rank.Candidate{Job: l.Job, Text: l.Description})
	}
	// Board listings are already location-scoped, so remote-only mode is off.
	p.Locations = nil
	ranked := s.RankCandidates(cs, p, minScore)
	out := make([]BoardMatch, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, BoardMatch{Scored: r, Board: byURL[r.URL]})
	}
	return out
}

var boardHeader = []string{"Match %", "Title", "Company", "Location", "Apply URL", "LinkedIn Contacts", "Applied", "Status", "Notes"}

// SaveBoardMatches writes dir/matches-YYYY-MM-DD.csv with blank tracking
// columns for the user to fill in.
func SaveBoardMatches(dir string, now time.Time, matches []BoardMatch) (string, error) {
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, []string{
			strconv.Itoa(m.Score) + "%", m.Title, m.Company, m.Location, m.URL,
			ContactSearch(m.Company, m.Title), "", "", "",
		})
	}
	path := filepath.Join(dir, "matches-"+now.Format("2006-01-02")+".csv")
	if err := writeCSV(path, boardHeader, rows); err != nil {
		return "", fmt.Errorf("search save matches: %w", err)
	}
	return path, nil
}
