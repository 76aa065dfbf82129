package amazon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/types"
	"jobforge/internal/scrape/util"
)

type fakeJob struct {
	IDIcims          string `json:"id_icims"`
	Title            string `json:"title"`
	Location         string `json:"location"`
	BusinessCategory string `json:"business_category"`
}

func searchServer(t *testing.T, hits int, failAt int) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("result_limit"))
		if failAt >= 0 && offset >= failAt {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var jobs []fakeJob
		for i := offset; i < offset+limit && i < hits; i++ {
			jobs = append(jobs, fakeJob{IDIcims: strconv.Itoa(1000 + i), Title: fmt.Sprintf("SDE %d", i), Location: "US, WA, Seattle", BusinessCategory: "aws"})
		}
		json.NewEncoder(w).Encode(map[string]any{"hits": hits, "jobs": jobs})
	}))
	return srv, &calls
}

func TestFetchStopsAtHits(t *testing.T) {
	srv, calls := searchServer(t, 25, -1)
	defer srv.Close()

	s := New(Config{Base: srv.URL, PageSize: 10}, util.NewClient(5*time.Second, "", nil))
	res := s.Fetch(t.Context(), domain.Company{Name: "Amazon"})
	if !res.OK() || len(res.Jobs) != 25 {
		t.Fatalf("outcome=%v jobs=%d", res.Outcome, len(res.Jobs))
	}
	if *calls != 3 {
		t.Fatalf("calls = %d, want 3", *calls)
	}
	if res.Jobs[0].URL != srv.URL+"/en/jobs/1000" || res.Jobs[0].Team != "aws" {
		t.Fatalf("job = %+v", res.Jobs[0])
	}
}

func TestFetchRespectsOffsetCap(t *testing.T) {
	srv, calls := searchServer(t, 1000, -1)
	defer srv.Close()

	s := New(Config{Base: srv.URL, PageSize: 10, MaxOffset: 30}, util.NewClient(5*time.Second, "", nil))
	res := s.Fetch(t.Context(), domain.Company{Name: "Amazon"})
	if len(res.Jobs) != 40 || *calls != 4 {
		t.Fatalf("jobs=%d calls=%d", len(res.Jobs), *calls)
	}
}

func TestFetchKeepsPartialJobsOnFailure(t *testing.T) {
	srv, _ := searchServer(t, 100, 20)
	defer srv.Close()

	s := New(Config{Base: srv.URL, PageSize: 10}, util.NewClient(5*time.Second, "", nil))
	res := s.Fetch(t.Context(), domain.Company{Name: "Amazon"})
	if res.Outcome != types.OutcomeTransient || len(res.Jobs) != 20 {
		t.Fatalf("outcome=%v jobs=%d", res.Outcome, len(res.Jobs))
	}
}
