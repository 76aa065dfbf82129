// Package boards searches free public job-board APIs that need no account.
package boards

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/util"
)

// BroadTerms cast a wide net; the scorer narrows the result.
var BroadTerms = []string{"engineer", "developer", "software"}

// maxPerTerm caps how many listings one board contributes per term.
const maxPerTerm = 100

// Listing is one board posting. Job.Team carries the board's tags so the
// scorer sees them.
type Listing struct {
	Job         domain.Job
	Board       string
	Description string
}

// Board returns a board's whole current feed.
type Board interface {
	Name() string
	Feed(ctx context.Context) ([]Listing, error)
}

// Search pulls every board concurrently, keeps listings matching any of
// terms and drops repeated URLs. A failing board is logged and skipped.
func Search(ctx context.Context, boards []Board, terms []string, timeout time.Duration) []Listing {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	slots := make([][]Listing, len(boards))

	var g errgroup.Group
	for i, b := range boards {
		g.Go(func() error {
			bctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			feed, err := b.Feed(bctx)
			if err != nil {
				log.Printf("[boards:%s] error: %v", b.Name(), err)
				return nil
			}
			slots[i] = filterTerms(feed, terms)
			log.Printf("[boards:%s] feed=%d kept=%d", b.Name(), len(feed), len(slots[i]))
			return nil
		})
	}
	_ = g.Wait()

	seen := map[string]bool{}
	var out []Listing
	for _, s := range slots {
		for _, l := range s {
			if l.Job.URL == "" || seen[l.Job.URL] {
				continue
			}
			seen[l.Job.URL] = true
			out = append(out, l)
		}
	}
	return out
}

// filterTerms keeps, per term, the first maxPerTerm listings whose title,
// description or tags mention it. No terms keeps the first maxPerTerm.
func filterTerms(feed []Listing, terms []string) []Listing {
	if len(terms) == 0 {
		if len(feed) > maxPerTerm {
			return feed[:maxPerTerm]
		}
		return feed
	}
	var out []Listing
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		n := 0
		for _, l := range feed {
			if n == maxPerTerm {
				break
			}
			if l.mentions(t) {
				out = append(out, l)
				n++
			}
		}
	}
	return out
}

func (l Listing) mentions(term string) bool {
	return strings.Contains(strings.ToLower(l.Job.Title), term) ||
		strings.Contains(strings.ToLower(l.Description), term) ||
		strings.Contains(strings.ToLower(l.Job.Team), term)
}

func listing(board, company, title, url, location string, tags []string, desc string) Listing {
	if location == "" {
		location = "Remote"
	}
	return Listing{
		Job:         domain.NewJob(company, title, url, location, strings.Join(tags, ", "), domain.VendorGeneric),
		Board:       board,
		Description: desc,
	}
}

// Default returns RemoteOK, Remotive and Arbeitnow sharing hc.
func Default(hc *util.Client) []Board {
	return []Board{NewRemoteOK(hc), NewRemotive(hc), NewArbeitnow(hc)}
}
