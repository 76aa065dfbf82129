package workday

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/types"
	"jobforge/internal/scrape/util"
)

func TestParseBoardURL(t *testing.T) {
	b, err := parseBoardURL("https://nvidia.wd5.myworkdayjobs.com/en-us/NVIDIAExternalCareerSite")
	if err != nil {
		t.Fatal(err)
	}
	if b.Tenant != "nvidia" || b.Site != "NVIDIAExternalCareerSite" || b.Locale != "en-US" {
		t.Fatalf("board = %+v", b)
	}
	if got := b.jobsEndpoint(); got != "https://nvidia.wd5.myworkdayjobs.com/wday/cxs/nvidia/NVIDIAExternalCareerSite/jobs" {
		t.Fatalf("endpoint = %q", got)
	}

	if _, err := parseBoardURL("https://workday.com"); err == nil {
		t.Fatal("expected error for host without tenant path")
	}
}

func TestPostingLocation(t *testing.T) {
	p := wdPosting{BulletFields: []string{"R123", "Location: Seattle, WA"}}
	if got := p.location(); got != "Location: Seattle, WA" {
		t.Fatalf("location = %q", got)
	}
	p.LocationsText = "2 Locations"
	if got := p.location(); got != "2 Locations" {
		t.Fatalf("location = %q", got)
	}
}

func TestFetchPaginatesSearchAPI(t *testing.T) {
	const total = 25
	var sawToken bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/en-US/External":
			http.SetCookie(w, &http.Cookie{Name: "CALYPSO_CSRF_TOKEN", Value: "tok", Path: "/"})
			w.Write([]byte("<html></html>"))
		case r.Method == http.MethodPost && r.URL.Path == "/wday/cxs/127/External/jobs":
			if r.Header.Get("x-calypso-csrf-token") == "tok" {
				sawToken = true
			}
			var req wdRequest
			json.NewDecoder(r.Body).Decode(&req)
			var res wdResponse
			res.Total = total
			for i := req.Offset; i < req.Offset+req.Limit && i < total; i++ {
				res.JobPostings = append(res.JobPostings, wdPosting{
					Title:         fmt.Sprintf("Engineer %d", i),
					ExternalPath:  fmt.Sprintf("/en-US/External/job/Seattle/Engineer_R%d", i),
					LocationsText: "Seattle, WA",
				})
			}
			json.NewEncoder(w).Encode(res)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s := New(DefaultConfig(), util.NewClient(5*time.Second, "", nil))
	res := s.Fetch(t.Context(), domain.Company{Name: "Acme", CareerURL: srv.URL + "/en-US/External"})
	if !res.OK() {
		t.Fatalf("outcome = %v (%s)", res.Outcome, res.Reason)
	}
	if len(res.Jobs) != total {
		t.Fatalf("got %d jobs, want %d", len(res.Jobs), total)
	}
	if !sawToken {
		t.Fatal("csrf token from bootstrap cookie was not forwarded")
	}
	if !strings.HasPrefix(res.Jobs[0].URL, srv.URL+"/en-US/External/job/") {
		t.Fatalf("url = %q", res.Jobs[0].URL)
	}
}

func TestFetchFallsBackToInitialState(t *testing.T) {
	page := `<html><script>window.__INITIAL_STATE__ = {"jobPostings":{"entities":{"R2":{"title":"Data Scientist","location":"Austin, TX"},"R1":{"title":"ML Engineer"}}}};</script></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/External" {
			w.Write([]byte(page))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := New(DefaultConfig(), util.NewClient(5*time.Second, "", nil))
	res := s.Fetch(t.Context(), domain.Company{Name: "Acme", CareerURL: srv.URL + "/External"})
	if !res.OK() || len(res.Jobs) != 2 {
		t.Fatalf("outcome=%v jobs=%+v", res.Outcome, res.Jobs)
	}
	if res.Jobs[0].URL != srv.URL+"/External/R1" || res.Jobs[1].Location != "Austin, TX" {
		t.Fatalf("jobs = %+v", res.Jobs)
	}
}

func TestParseLinks(t *testing.T) {
	b := board{Scheme: "https", Host: "acme.wd1.myworkdayjobs.com"}
	page := []byte(`<a href="/en-US/External/job/NYC/SWE_R1">Software Engineer</a><a href="/jobs">Job</a><a href="/about">About Acme</a>`)
	jobs := parseLinks(page, b, "Acme")
	if len(jobs) != 1 || jobs[0].URL != "https://acme.wd1.myworkdayjobs.com/en-US/External/job/NYC/SWE_R1" {
		t.Fatalf("jobs = %+v", jobs)
	}
}

func TestBlockedHostIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "cloudflare")
		w.Header().Set("CF-RAY", "abc")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := New(DefaultConfig(), util.NewClient(5*time.Second, "", nil))
	res := s.Fetch(t.Context(), domain.Company{Name: "Acme", CareerURL: srv.URL + "/External"})
	if res.Outcome != types.OutcomeTransient {
		t.Fatalf("outcome = %v, want transient", res.Outcome)
	}
}
