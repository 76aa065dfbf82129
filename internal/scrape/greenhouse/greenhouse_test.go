package greenhouse

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/types"
	"jobforge/internal/scrape/util"
)

const sampleAPI = `{"jobs":[
 {"id":1,"title":"Machine Learning Engineer","absolute_url":"https://boards.greenhouse.io/acme/jobs/1","location":{"name":"San Francisco, CA"},"departments":[{"name":"AI"}]},
 {"id":2,"title":"Recruiter","absolute_url":"https://boards.greenhouse.io/acme/jobs/2","location":{"name":"Remote"},"departments":[]},
 {"id":3,"title":"","absolute_url":"https://boards.greenhouse.io/acme/jobs/3"}
]}`

const sampleEmbed = `<html><body>
<div class="opening"><a href="https://boards.greenhouse.io/acme/jobs/10?gh_jid=10">Data Engineer</a><span class="location">Austin, TX</span></div>
<div class="opening"><a href="https://boards.greenhouse.io/acme/jobs/10">Data Engineer</a></div>
<a href="https://acme.com/about">About us</a>
</body></html>`

func newTestScraper(srv *httptest.Server) *Scraper {
	return New(Config{APIBase: srv.URL, BoardBase: srv.URL}, util.NewClient(5*time.Second, "", nil))
}

func TestBoardToken(t *testing.T) {
	tests := []struct {
		co   domain.Company
		want string
	}{
		{domain.Company{Name: "Acme", CareerURL: "https://boards.greenhouse.io/acmeco"}, "acmeco"},
		{domain.Company{Name: "Acme", CareerURL: "https://boards.greenhouse.io/embed/job_board?for=acme2"}, "acme2"},
		{domain.Company{Name: "Scale AI", CareerURL: "https://scale.com/careers"}, "scaleai"},
	}
	for _, tt := range tests {
		if got := BoardToken(tt.co); got != tt.want {
			t.Errorf("BoardToken(%+v) = %q, want %q", tt.co, got, tt.want)
		}
	}
}

func TestFetchAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/boards/acme/jobs" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sampleAPI))
	}))
	defer srv.Close()

	res := newTestScraper(srv).Fetch(t.Context(), domain.Company{Name: "Acme", CareerURL: "https://boards.greenhouse.io/acme"})
	if !res.OK() {
		t.Fatalf("outcome = %v (%s)", res.Outcome, res.Reason)
	}
	if len(res.Jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(res.Jobs))
	}
	j := res.Jobs[0]
	if j.Team != "AI" || j.Location != "San Francisco, CA" || j.Source != domain.VendorGreenhouse {
		t.Fatalf("unexpected job %+v", j)
	}
}

func TestFetchFallsBackToEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/embed/job_board" && r.URL.Query().Get("for") == "acme" {
			w.Write([]byte(sampleEmbed))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	res := newTestScraper(srv).Fetch(t.Context(), domain.Company{Name: "Acme", CareerURL: "https://boards.greenhouse.io/acme"})
	if !res.OK() {
		t.Fatalf("outcome = %v (%s)", res.Outcome, res.Reason)
	}
	if len(res.Jobs) != 1 {
		t.Fatalf("got %d jobs, want 1 (deduped): %+v", len(res.Jobs), res.Jobs)
	}
	if res.Jobs[0].Location != "Austin, TX" {
		t.Fatalf("location = %q", res.Jobs[0].Location)
	}
}

func TestFetchReportsPermanentFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	res := newTestScraper(srv).Fetch(t.Context(), domain.Company{Name: "Acme", CareerURL: "https://boards.greenhouse.io/acme"})
	if res.Outcome != types.OutcomePermanent {
		t.Fatalf("outcome = %v, want permanent", res.Outcome)
	}
	if len(res.Jobs) != 0 {
		t.Fatalf("expected no jobs")
	}
}
