// Package filter decides which discovered jobs are worth keeping, by title
// similarity to the configured targets and by location.
package filter

import (
	"regexp"
	"strings"
)

var roleWords = map[string]bool{"engineer": true, "scientist": true, "researcher": true}

// roleSynonyms maps an abbreviation to the role word it stands for.
var roleSynonyms = map[string]string{
	"eng":      "engineer",
	"sci":      "scientist",
	"research": "researcher",
}

var domainSynonyms = map[string][]string{
	"machine":      {"ml"},
	"learning":     {"ml"},
	"ml":           {"machine", "learning"},
	"ai":           {"artificial", "intelligence"},
	"artificial":   {"ai"},
	"intelligence": {"ai"},
	"applied":      {"applications"},
}

var levelSynonyms = map[string][]string{
	"senior":    {"sr", "sr."},
	"staff":     {"staff"},
	"principal": {"principal"},
	"junior":    {"jr", "jr.", "associate", "entry"},
	"lead":      {"lead"},
	"director":  {"director"},
	"manager":   {"manager", "mgr"},
	"head":      {"head"},
	"vp":        {"vp", "vice president"},
}

var levelWords = func() map[string]bool {
	out := map[string]bool{}
	for lvl, syns := range levelSynonyms {
		out[lvl] = true
		for _, s := range syns {
			out[s] = true
		}
	}
	return out
}()

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

// tokenize lower-cases text, turns punctuation other than '-' into spaces and
// splits on whitespace. Order is preserved; duplicates are dropped.
func tokenize(text string) []string {
	text = nonWordRe.ReplaceAllString(strings.ToLower(text), " ")
	seen := map[string]bool{}
	var out []string
	for _, f := range strings.Fields(text) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

type parsedTitle struct {
	role   string
	domain map[string]bool
}

// parseTitle splits a title into its role and domain tokens. A full role
// word wins over an abbreviation, so "Research Scientist" is a scientist.
// Parentheticals and suffixes are tokenized too; they often carry the domain.
func parseTitle(title string) parsedTitle {
	p := parsedTitle{domain: map[string]bool{}}
	var abbrev string
	for _, tok := range tokenize(title) {
		switch {
		case roleWords[tok]:
			if p.role == "" {
				p.role = tok
			}
		case roleSynonyms[tok] != "":
			if abbrev == "" {
				abbrev = roleSynonyms[tok]
			}
		case levelWords[tok]:
		default:
			p.domain[tok] = true
		}
	}
	if p.role == "" {
		p.role = abbrev
	}
	return p
}

func expand(domain map[string]bool) map[string]bool {
	out := make(map[string]bool, len(domain))
	for tok := range domain {
		out[tok] = true
		for _, syn := range domainSynonyms[tok] {
			out[syn] = true
		}
	}
	return out
}

// TitleFilter scores job titles against a list of target titles.
type TitleFilter struct {
	minScore float64
	excluded map[string]bool
	targets  []parsedTitle
}

// NewTitleFilter builds a filter. Levels in excludeLevels (and their
// synonyms) reject a title outright.
func NewTitleFilter(targets []string, minScore float64, excludeLevels []string) *TitleFilter {
	f := &TitleFilter{minScore: minScore, excluded: map[string]bool{}}
	for _, lvl := range excludeLevels {
		lvl = strings.ToLower(strings.TrimSpace(lvl))
		if lvl == "" {
			continue
		}
		f.excluded[lvl] = true
		for _, s := range levelSynonyms[lvl] {
			f.excluded[s] = true
		}
	}
	for _, t := range targets {
		if strings.TrimSpace(t) != "" {
			f.targets = append(f.targets, parseTitle(t))
		}
	}
	return f
}

func (f *TitleFilter) hasExcludedLevel(title string) bool {
	if len(f.excluded) == 0 {
		return false
	}
	for _, tok := range tokenize(title) {
		if f.excluded[tok] {
			return true
		}
	}
	return false
}

func (f *TitleFilter) matchTarget(job, target parsedTitle) (bool, float64) {
	if target.role != "" && job.role != target.role {
		return false, 0
	}
	want := expand(target.domain)
	if len(want) == 0 {
		return true, 1
	}
	have := expand(job.domain)
	hit := 0
	for tok := range want {
		if have[tok] {
			hit++
		}
	}
	score := float64(hit) / float64(len(want))
	return score >= f.minScore, score
}

// Matches reports whether title matches any target and the best score seen.
// The verdict comes from the target with the strictly highest score.
func (f *TitleFilter) Matches(title string) (bool, float64) {
	if f.hasExcludedLevel(title) {
		return false, 0
	}
	job := parseTitle(title)
	var (
		best  float64
		match bool
	)
	for _, t := range f.targets {
		ok, score := f.matchTarget(job, t)
		if score > best {
			best, match = score, ok
		}
	}
	return match, best
}

var titleStripRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*\[.*?\]\s*`),
	regexp.MustCompile(`(?i)\s*\(.*?\)\s*$`),
	regexp.MustCompile(`(?i)\s*-\s*(remote|hybrid|onsite|contract|temporary|intern).*$`),
	regexp.MustCompile(`(?i)\s*,\s*(remote|hybrid|onsite).*$`),
}

// NormalizeTitle strips bracketed tags and work-mode suffixes such as
// "[Remote] Data Engineer (Contract)" and collapses whitespace. It is for
// display; matching tokenizes the full title.
func NormalizeTitle(title string) string {
	s := strings.TrimSpace(title)
	for _, re := range titleStripRes {
		s = re.ReplaceAllString(s, "")
	}
	return strings.Join(strings.Fields(s), " ")
}
