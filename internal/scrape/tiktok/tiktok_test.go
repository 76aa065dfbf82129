package tiktok

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/browser/browsertest"
)

func postsBody(ids ...int) string {
	var posts []string
	for _, id := range ids {
		posts = append(posts, fmt.Sprintf(`{"id":"%d","title":"Backend Engineer","job_function_name":"R&D",
		  "city_info":{"en_name":"San Jose","parent":{"en_name":"California","parent":{"en_name":"United States of America"}}}}`, id))
	}
	return `{"data":{"job_post_list":[` + strings.Join(posts, ",") + `]}}`
}

func TestFetchClicksNumberedPages(t *testing.T) {
	p := &browsertest.Page{
		OnGoto: func(p *browsertest.Page, url string) error {
			p.Emit("https://api.lifeattiktok.com/api/v1/public/supplier/search/job/posts", postsBody(1, 2))
			return nil
		},
		OnClick: func(p *browsertest.Page, sel string) bool {
			for n := 2; n <= 3; n++ {
				if sel == pageButton(n) {
					p.Emit("search/job/posts", postsBody(n*10, n*10+1, 1))
					return true
				}
			}
			return false
		},
	}
	cfg := DefaultConfig()
	cfg.Settle = 0
	cfg.Loop.Pause = 0
	res := New(cfg, &browsertest.Launcher{Page: p}).Fetch(t.Context(), domain.Company{Name: "TikTok"})
	if !res.OK() {
		t.Fatalf("outcome = %v (%s)", res.Outcome, res.Reason)
	}

	clicks := p.Clicks()
	want := []string{pageButton(2), pageButton(3), pageButton(4)}
	if fmt.Sprint(clicks) != fmt.Sprint(want) {
		t.Fatalf("clicks = %v, want %v", clicks, want)
	}
	if len(res.Jobs) != 6 {
		t.Fatalf("got %d jobs, want 6", len(res.Jobs))
	}
	j := res.Jobs[0]
	if j.URL != "https://lifeattiktok.com/position/1" || j.Location != "San Jose, California" || j.Team != "R&D" {
		t.Fatalf("job = %+v", j)
	}
}

func TestFormatLocation(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"en_name":"Tokyo","parent":{"en_name":"Tokyo","parent":{"en_name":"Japan"}}}`, "Tokyo, Japan"},
		{`{"i18n_name":"London","parent":{"en_name":"England","parent":{"i18n_name":"United Kingdom"}}}`, "London, England, United Kingdom"},
		{`{"en_name":"Seattle","parent":{"en_name":"Washington","parent":{"en_name":"United States of America"}}}`, "Seattle, Washington"},
		{`{"en_name":"Singapore"}`, "Singapore"},
	}
	for _, tt := range tests {
		var c cityInfo
		if err := json.Unmarshal([]byte(tt.raw), &c); err != nil {
			t.Fatal(err)
		}
		if got := formatLocation(&c); got != tt.want {
			t.Errorf("formatLocation(%s) = %q, want %q", tt.raw, got, tt.want)
		}
	}
	if formatLocation(nil) != "" {
		t.Error("nil city_info should be empty")
	}
}
