package detect

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/util"
)

func TestDetectURL(t *testing.T) {
	tests := []struct {
		url  string
		want domain.Vendor
	}{
		{"https://boards.greenhouse.io/stripe", domain.VendorGreenhouse},
		{"https://boards.greenhouse.io/embed/job_board?for=acme", domain.VendorGreenhouse},
		{"https://jobs.lever.co/netflix", domain.VendorLever},
		{"https://jobs.ashbyhq.com/openai", domain.VendorAshby},
		{"https://nvidia.wd5.myworkdayjobs.com/NVIDIAExternalCareerSite", domain.VendorWorkday},
		{"https://acme.wd3.myworkdaysite.com/recruiting", domain.VendorWorkday},
		{"https://JOBS.LEVER.CO/Acme", domain.VendorLever},
		{"https://acme.com/careers", domain.VendorUnknown},
		{"", domain.VendorUnknown},
	}
	for _, tt := range tests {
		if got := DetectURL(tt.url); got != tt.want {
			t.Errorf("DetectURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestDetectURLNeedsNoNetwork(t *testing.T) {
	d := New(nil)
	if got := d.Detect(t.Context(), "https://boards.greenhouse.io/acme"); got != domain.VendorGreenhouse {
		t.Fatalf("got %v", got)
	}
}

func TestDetectHTML(t *testing.T) {
	tests := []struct {
		name string
		page string
		want domain.Vendor
	}{
		{"greenhouse script", `<script src="https://boards.greenhouse.io/embed/job_board/js?for=acme"></script><div id="grnhse_app"></div>`, domain.VendorGreenhouse},
		{"lever container", `<div class="lever-jobs-container"></div>`, domain.VendorLever},
		{"ashby class", `<div class="ashby-job-posting-brief"></div>`, domain.VendorAshby},
		{"workday widget", `<div data-automation-id="WD-jobs"></div>`, domain.VendorWorkday},
		{"greenhouse wins order", `<div>jobs.lever.co and greenhouse</div>`, domain.VendorGreenhouse},
		{"lever iframe", `<iframe title="openings" src="https://lever.co/embed/acme"></iframe>`, domain.VendorLever},
		{"plain page", `<h1>Join us</h1><a href="/jobs">Jobs</a>`, domain.VendorUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectHTML([]byte(tt.page)); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFetchesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/careers":
			fmt.Fprint(w, `<html><div class="lever-job-title">SWE</div></html>`)
		default:
			http.Error(w, "down", http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	d := New(util.NewClient(5*time.Second, "", nil))
	if got := d.Detect(t.Context(), srv.URL+"/careers"); got != domain.VendorLever {
		t.Fatalf("got %v, want lever", got)
	}
	if got := d.Detect(t.Context(), srv.URL+"/broken"); got != domain.VendorUnknown {
		t.Fatalf("got %v, want unknown on fetch failure", got)
	}
}
