package generic

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/browser"
	"jobforge/internal/scrape/browser/browsertest"
	"jobforge/internal/scrape/types"
	"jobforge/internal/scrape/util"
)

const careersPage = `<html><body>
<a href="/careers/senior-backend-engineer">Senior Backend Engineer - Apply</a>
<a href="/careers/senior-backend-engineer?utm_source=x">Senior Backend Engineer</a>
<a href="https://acme.com/openings/48213">Data Scientist</a>
<a href="/positions/abcdef12-3456">Platform Lead</a>
<a href="/blog/we-are-hiring">We are hiring engineers!</a>
<a href="/careers/benefits.pdf">Career benefits</a>
<a href="mailto:jobs@acme.com">Email jobs</a>
<a href="/jobs/1">Go</a>
<a href="/team">Meet the team</a>
<a href="/careers/apply">Apply Now</a>
</body></html>`

func TestExtractJobs(t *testing.T) {
	jobs := ExtractJobs("Acme", "https://acme.com/careers", []byte(careersPage))
	want := []struct{ title, url string }{
		{"Senior Backend Engineer", "https://acme.com/careers/senior-backend-engineer"},
		{"Data Scientist", "https://acme.com/openings/48213"},
		{"Platform Lead", "https://acme.com/positions/abcdef12-3456"},
	}
	if len(jobs) != len(want) {
		t.Fatalf("got %d jobs: %+v", len(jobs), jobs)
	}
	for i, w := range want {
		if jobs[i].Title != w.title || jobs[i].URL != w.url {
			t.Errorf("job[%d] = %q %q, want %q %q", i, jobs[i].Title, jobs[i].URL, w.title, w.url)
		}
		if jobs[i].Source != domain.VendorGeneric {
			t.Errorf("job[%d] source = %v", i, jobs[i].Source)
		}
	}
}

func TestFetchPrefersPlainHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, careersPage)
	}))
	defer srv.Close()

	p := &browsertest.Page{}
	s := New(DefaultConfig(), util.NewClient(5*time.Second, "", nil), &browsertest.Launcher{Page: p})
	res := s.Fetch(t.Context(), domain.Company{Name: "Acme", CareerURL: srv.URL + "/careers"})
	if !res.OK() || len(res.Jobs) != 3 {
		t.Fatalf("outcome=%v jobs=%d", res.Outcome, len(res.Jobs))
	}
	if len(p.Visited()) != 0 {
		t.Fatal("browser used although HTTP found jobs")
	}
}

func TestFetchFallsBackToBrowser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<div id="root"></div>`)
	}))
	defer srv.Close()

	rendered := 0
	p := &browsertest.Page{
		OnScroll: func(p *browsertest.Page) {
			if rendered < 2 {
				rendered++
			}
			html := ""
			for i := 0; i < rendered; i++ {
				html += fmt.Sprintf(`<a href="/careers/role-%d">Software Engineer %d</a>`, i, i)
			}
			p.SetHTML(html)
		},
	}
	cfg := DefaultConfig()
	cfg.Settle = 0
	cfg.Loop.Pause = 0
	cfg.LoadMore = []string{}
	s := New(cfg, util.NewClient(5*time.Second, "", nil), &browsertest.Launcher{Page: p})

	res := s.Fetch(t.Context(), domain.Company{Name: "Acme", CareerURL: srv.URL + "/careers"})
	if !res.OK() || len(res.Jobs) != 2 {
		t.Fatalf("outcome=%v jobs=%+v", res.Outcome, res.Jobs)
	}
	// two growing scrolls, then two idle ones
	if got := p.Scrolls(); got != 4 {
		t.Fatalf("scrolls = %d, want 4", got)
	}
}

func TestFetchWithoutBrowserKeepsEmptyHTTPAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<p>No openings right now</p>`)
	}))
	defer srv.Close()

	s := New(DefaultConfig(), util.NewClient(5*time.Second, "", nil),
		&browsertest.Launcher{Err: fmt.Errorf("%w: driver missing", browser.ErrUnavailable)})
	res := s.Fetch(t.Context(), domain.Company{Name: "Acme", CareerURL: srv.URL})
	if !res.OK() || len(res.Jobs) != 0 {
		t.Fatalf("outcome=%v jobs=%d", res.Outcome, len(res.Jobs))
	}
}

func TestFetchHTTPErrorWithoutBrowser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	s := New(DefaultConfig(), util.NewClient(5*time.Second, "", nil), nil)
	res := s.Fetch(t.Context(), domain.Company{Name: "Acme", CareerURL: srv.URL})
	if res.Outcome != types.OutcomePermanent {
		t.Fatalf("outcome = %v", res.Outcome)
	}
}
