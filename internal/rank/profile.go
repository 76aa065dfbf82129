package rank

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"jobforge/internal/domain"
)

// Profile is what the scorer knows about the candidate.
type Profile struct {
	Skills    []string `json:"skills"`
	Titles    []string `json:"titles"`
	Years     int      `json:"years"`
	Locations []string `json:"locations"`
}

// RemoteOnly reports whether any target location asks for remote work.
func (p Profile) RemoteOnly() bool {
	for _, l := range p.Locations {
		if strings.Contains(strings.ToLower(l), "remote") {
			return true
		}
	}
	return false
}

var techKeywords = []string{
	"python", "java", "javascript", "typescript", "go", "rust",
	"react", "node", "django", "flask", "fastapi",
	"aws", "azure", "gcp", "docker", "kubernetes",
	"postgresql", "mongodb", "redis", "sql",
	"tensorflow", "pytorch", "machine learning", "ml", "ai",
}

var titleWords = []string{"engineer", "scientist", "developer"}

// ExtractProfile reads every *.md under careerDir. Skills are the known tech
// keywords mentioned anywhere, titles come from "##" headings naming an
// engineering role, and each file counts as one year of experience.
func ExtractProfile(careerDir string, locations []string) (Profile, error) {
	if st, err := os.Stat(careerDir); err != nil || !st.IsDir() {
		return Profile{}, fmt.Errorf("career directory %s: %w", careerDir, domain.ErrMissingData)
	}
	files, err := filepath.Glob(filepath.Join(careerDir, "*.md"))
	if err != nil {
		return Profile{}, fmt.Errorf("profile glob: %w", err)
	}
	sort.Strings(files)

	skills := map[string]bool{}
	titles := map[string]bool{}
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return Profile{}, fmt.Errorf("profile read %s: %w", f, err)
		}
		content := strings.ToLower(string(b))
		for _, kw := range techKeywords {
			if containsWord(content, kw) {
				skills[kw] = true
			}
		}
		for _, line := range strings.Split(content, "\n") {
			if t, ok := headingTitle(line); ok {
				titles[t] = true
			}
		}
	}

	return Profile{
		Skills:    sortedKeys(skills),
		Titles:    sortedKeys(titles),
		Years:     len(files),
		Locations: locations,
	}, nil
}

func headingTitle(line string) (string, bool) {
	if !strings.Contains(line, "##") {
		return "", false
	}
	found := false
	for _, w := range titleWords {
		if strings.Contains(line, w) {
			found = true
			break
		}
	}
	if !found {
		return "", false
	}
	t := strings.TrimSpace(strings.ReplaceAll(line, "#", ""))
	if i := strings.Index(t, " at "); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	if t == "" {
		return "", false
	}
	return titleCase(t), true
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, n := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[n:]
	}
	return strings.Join(words, " ")
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// containsWord reports whether kw occurs in text without a letter or digit
// on either side, so "go" does not match "google".
func containsWord(text, kw string) bool {
	for start := 0; ; {
		i := strings.Index(text[start:], kw)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(kw)
		if (i == 0 || !isAlnum(text[i-1])) && (end == len(text) || !isAlnum(text[end])) {
			return true
		}
		start = i + 1
	}
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
