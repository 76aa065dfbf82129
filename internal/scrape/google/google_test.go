package google

import (
	"fmt"
	"strings"
	"testing"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/browser/browsertest"
)

const (
	id1 = "123456789012345678"
	id2 = "223456789012345678"
	id3 = "323456789012345678"
)

func resultsHTML(ids ...string) string {
	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, `<a href="jobs/results/%s-software-engineer">x</a><a href="jobs/results/%s-software-engineer?hl=en">y</a>`, id, id)
	}
	return b.String()
}

const page1Text = `
Jobs search results
Software Engineer III, Infrastructure
corporate_fare
Google
place
Mountain View, CA, USA; +2 more locations
Learn more
Staff Research Scientist
corporate_fare
DeepMind
bar_chart
Advanced
place
London, UK
Learn more
`

func TestExtractJobsPairsIDsWithText(t *testing.T) {
	seen := map[string]bool{}
	jobs := extractJobs("Google", "https://www.google.com/about/careers/applications/jobs/results/",
		resultsHTML(id1, id2, id3), page1Text, seen)
	if len(jobs) != 3 {
		t.Fatalf("got %d jobs", len(jobs))
	}
	if jobs[0].Title != "Software Engineer III, Infrastructure" || jobs[0].Location != "Mountain View, CA, USA" {
		t.Fatalf("first = %+v", jobs[0])
	}
	if jobs[1].Title != "Staff Research Scientist" || jobs[1].Location != "London, UK" {
		t.Fatalf("second = %+v", jobs[1])
	}
	if jobs[2].Title != "Job "+id3 {
		t.Fatalf("third title = %q", jobs[2].Title)
	}
	if jobs[0].URL != "https://www.google.com/about/careers/applications/jobs/results/"+id1 {
		t.Fatalf("url = %q", jobs[0].URL)
	}

	if again := extractJobs("Google", "https://x/", resultsHTML(id1), page1Text, seen); len(again) != 0 {
		t.Fatalf("seen ids were returned again: %+v", again)
	}
}

func TestFetchStopsOnEmptyPage(t *testing.T) {
	p := &browsertest.Page{
		OnGoto: func(p *browsertest.Page, url string) error {
			switch {
			case strings.HasSuffix(url, "page=1"):
				p.SetHTML(resultsHTML(id1, id2))
				p.SetText(page1Text)
			case strings.HasSuffix(url, "page=2"):
				p.SetHTML(resultsHTML(id3))
				p.SetText("Principal Engineer\ncorporate_fare\nGoogle\nplace\nAustin, TX, USA\nLearn more")
			default:
				p.SetHTML("<p>No jobs</p>")
				p.SetText("No jobs")
			}
			return nil
		},
	}
	cfg := DefaultConfig()
	cfg.Settle = 0
	res := New(cfg, &browsertest.Launcher{Page: p}).Fetch(t.Context(), domain.Company{Name: "Google"})
	if !res.OK() || len(res.Jobs) != 3 {
		t.Fatalf("outcome=%v jobs=%d", res.Outcome, len(res.Jobs))
	}
	if v := p.Visited(); len(v) != 3 {
		t.Fatalf("visited %v", v)
	}
	if res.Jobs[2].Location != "Austin, TX, USA" {
		t.Fatalf("third = %+v", res.Jobs[2])
	}
}
