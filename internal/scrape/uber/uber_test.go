package uber

import (
	"fmt"
	"testing"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/browser"
	"jobforge/internal/scrape/browser/browsertest"
	"jobforge/internal/scrape/types"
)

func page(n int) string {
	return fmt.Sprintf(`{"data":{"results":[
	  {"id":%d,"title":"Software Engineer %d","location":{"city":"San Francisco","region":"California","countryName":"United States"},"team":"Engineering"},
	  {"id":"%d","title":"Ops Lead","location":{"city":"Amsterdam","countryName":"Netherlands"},"team":"Operations"}
	]}}`, 100+n, n, 200+n)
}

func TestFetchClicksUntilButtonDisappears(t *testing.T) {
	clicks := 0
	p := &browsertest.Page{
		OnGoto: func(p *browsertest.Page, url string) error {
			p.Emit("https://www.uber.com/api/loadSearchJobsResults?localeCode=en", page(0))
			return nil
		},
		OnClick: func(p *browsertest.Page, sel string) bool {
			if clicks == 2 {
				return false
			}
			clicks++
			p.Emit("https://www.uber.com/api/loadSearchJobsResults", page(clicks))
			p.Emit("https://www.uber.com/api/other", `{"data":{"results":[{"id":999,"title":"x"}]}}`)
			return true
		},
	}
	cfg := DefaultConfig()
	cfg.Settle = 0
	cfg.Loop.Pause = 0
	s := New(cfg, &browsertest.Launcher{Page: p})

	res := s.Fetch(t.Context(), domain.Company{Name: "Uber"})
	if !res.OK() {
		t.Fatalf("outcome = %v (%s)", res.Outcome, res.Reason)
	}
	if len(res.Jobs) != 6 {
		t.Fatalf("got %d jobs, want 6", len(res.Jobs))
	}
	first := res.Jobs[0]
	if first.URL != "https://www.uber.com/us/en/careers/list/100/" || first.Location != "San Francisco, California" || first.Team != "Engineering" {
		t.Fatalf("first = %+v", first)
	}
	if res.Jobs[1].Location != "Amsterdam, Netherlands" {
		t.Fatalf("location = %q", res.Jobs[1].Location)
	}
	if !p.Closed() {
		t.Fatal("page not closed")
	}
}

func TestFetchDedupesRepeatedResults(t *testing.T) {
	p := &browsertest.Page{
		OnGoto: func(p *browsertest.Page, url string) error {
			p.Emit("loadSearchJobsResults", page(0))
			p.Emit("loadSearchJobsResults", page(0))
			return nil
		},
	}
	cfg := DefaultConfig()
	cfg.Settle = 0
	res := New(cfg, &browsertest.Launcher{Page: p}).Fetch(t.Context(), domain.Company{Name: "Uber"})
	if len(res.Jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(res.Jobs))
	}
}

func TestFetchWithoutBrowserIsPermanent(t *testing.T) {
	res := New(DefaultConfig(), &browsertest.Launcher{Err: fmt.Errorf("%w: no driver", browser.ErrUnavailable)}).
		Fetch(t.Context(), domain.Company{Name: "Uber"})
	if res.Outcome != types.OutcomePermanent {
		t.Fatalf("outcome = %v", res.Outcome)
	}
	if res.Reason == "" {
		t.Fatal("missing reason")
	}
}

func TestFormatLocationAcceptsString(t *testing.T) {
	if got := formatLocation([]byte(`"Remote - US"`)); got != "Remote - US" {
		t.Fatalf("got %q", got)
	}
}
