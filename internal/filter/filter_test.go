package filter

import (
	"reflect"
	"testing"
)

func TestTitleFilterMatches(t *testing.T) {
	f := NewTitleFilter([]string{"Machine Learning Engineer", "Research Scientist"}, 0.7, []string{"junior"})

	tests := []struct {
		title string
		want  bool
	}{
		{"ML Engineer", true},
		{"Senior Machine Learning Engineer", true},
		{"Machine Learning Eng, Ads", true},
		{"Research Scientist, Applied AI", true},
		{"[Remote] ML Engineer (Contract)", true},
		{"Junior Software Engineer", false},
		{"Jr. ML Engineer", false},
		{"Associate Machine Learning Engineer", false},
		{"Machine Learning Scientist", true},
		{"Data Analyst", false},
		{"Software Engineer", false},
		{"Product Manager, ML", false},
	}
	for _, tt := range tests {
		got, score := f.Matches(tt.title)
		if got != tt.want {
			t.Errorf("Matches(%q) = %v (%.2f), want %v", tt.title, got, score, tt.want)
		}
	}
}

func TestDomainWordsInSuffixesCount(t *testing.T) {
	f := NewTitleFilter([]string{"Machine Learning Engineer"}, 0.7, nil)
	tests := []string{
		"Software Engineer (Machine Learning)",
		"Engineer (ML Platform)",
		"Software Engineer - Intern Tools, Machine Learning",
		"Software Engineer, Remote - Machine Learning",
	}
	for _, title := range tests {
		if ok, score := f.Matches(title); !ok || score != 1 {
			t.Errorf("Matches(%q) = %v, %.2f; want true, 1", title, ok, score)
		}
	}
}

func TestExcludedLevelScoresZero(t *testing.T) {
	f := NewTitleFilter([]string{"Software Engineer"}, 0.7, []string{"junior", "staff"})
	for _, title := range []string{"Junior Software Engineer", "Staff Software Engineer", "Software Engineer - Entry Level"} {
		if ok, score := f.Matches(title); ok || score != 0 {
			t.Errorf("Matches(%q) = %v, %.2f; want false, 0", title, ok, score)
		}
	}
}

func TestTargetWithoutDomainMatchesRole(t *testing.T) {
	f := NewTitleFilter([]string{"Senior Engineer"}, 0.7, nil)
	ok, score := f.Matches("Backend Engineer")
	if !ok || score != 1 {
		t.Fatalf("got %v %.2f", ok, score)
	}
	if ok, _ := f.Matches("Research Scientist"); ok {
		t.Fatal("role mismatch should not match")
	}
}

func TestPartialDomainOverlap(t *testing.T) {
	f := NewTitleFilter([]string{"Distributed Systems Platform Engineer"}, 0.7, nil)
	ok, score := f.Matches("Platform Engineer")
	if ok {
		t.Fatalf("1/3 overlap should not pass, score %.2f", score)
	}
	if score < 0.33 || score > 0.34 {
		t.Fatalf("score = %.4f, want 1/3", score)
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := map[string]string{
		"[Remote] Data Engineer":              "Data Engineer",
		"Data Engineer (Contract)":            "Data Engineer",
		"Backend Engineer - Remote, US":       "Backend Engineer",
		"Software Engineer, Hybrid":           "Software Engineer",
		"  Staff   Engineer  ":                "Staff Engineer",
		"Research Intern - Summer":            "Research Intern - Summer",
		"Research Scientist - Internship 2025": "Research Scientist",
	}
	for in, want := range tests {
		if got := NormalizeTitle(in); got != want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLocationFilterCalifornia(t *testing.T) {
	f := NewLocationFilter([]string{"California"}, true)
	tests := []struct {
		loc  string
		want bool
	}{
		{"Remote", true},
		{"Remote - US", true},
		{"Austin, TX", false},
		{"Menlo Park, CA", true},
		{"San Francisco", true},
		{"Chicago, IL", false},
		{"Atlanta, GA", false},
		{"Los Angeles", true},
		{"LA", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := f.Matches(tt.loc); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.loc, got, tt.want)
		}
	}
}

func TestLocationFilterAliasExpandsToState(t *testing.T) {
	f := NewLocationFilter([]string{"Seattle"}, false)
	if !f.Matches("Redmond, WA") {
		t.Fatal("alias should expand to sibling cities")
	}
	if f.Matches("Remote") {
		t.Fatal("remote should be rejected when not allowed")
	}
}

func TestLocationFilterFreeForm(t *testing.T) {
	f := NewLocationFilter([]string{"London"}, false)
	if !f.Matches("London, UK") || f.Matches("Dublin, Ireland") {
		t.Fatal("free-form location should match as substring")
	}
}

func TestSplitRemote(t *testing.T) {
	places, remote := SplitRemote([]string{"California", "Remote", "New York"})
	if !remote || !reflect.DeepEqual(places, []string{"California", "New York"}) {
		t.Fatalf("places=%v remote=%v", places, remote)
	}
}
