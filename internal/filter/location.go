package filter

import (
	"regexp"
	"strings"
)

var remoteKeywords = []string{"remote", "work from home", "wfh", "distributed", "anywhere"}

// stateAliases lists abbreviations and major cities per state.
var stateAliases = map[string][]string{
	"california": {
		"ca", "calif", "california",
		"san francisco", "sf", "bay area",
		"los angeles", "la", "santa monica",
		"san diego", "san jose", "palo alto",
		"mountain view", "sunnyvale", "menlo park",
		"cupertino", "oakland", "berkeley",
		"south san francisco", "redwood city",
		"santa clara", "irvine", "pasadena",
	},
	"new york":      {"ny", "new york", "nyc", "manhattan", "brooklyn"},
	"texas":         {"tx", "texas", "austin", "dallas", "houston"},
	"washington":    {"wa", "washington", "seattle", "bellevue", "redmond"},
	"massachusetts": {"ma", "mass", "massachusetts", "boston", "cambridge"},
	"colorado":      {"co", "colorado", "denver", "boulder"},
	"illinois":      {"il", "illinois", "chicago"},
	"georgia":       {"ga", "georgia", "atlanta"},
	"pennsylvania":  {"pa", "penn", "pennsylvania", "pittsburgh", "philadelphia"},
	"florida":       {"fl", "florida", "miami"},
}

// Aliases this short ("ca", "la", "sf") would otherwise match inside words
// like "Chicago" or "Atlanta".
const shortAliasLen = 3

// LocationFilter accepts jobs in one of the target places, or remote jobs
// when allowed.
type LocationFilter struct {
	allowRemote bool
	substrings  []string
	words       []*regexp.Regexp
}

func NewLocationFilter(locations []string, allowRemote bool) *LocationFilter {
	seen := map[string]bool{}
	var patterns []string
	add := func(p ...string) {
		for _, s := range p {
			if !seen[s] {
				seen[s] = true
				patterns = append(patterns, s)
			}
		}
	}

	for _, loc := range locations {
		loc = strings.ToLower(strings.TrimSpace(loc))
		if loc == "" {
			continue
		}
		if aliases, ok := stateAliases[loc]; ok {
			add(aliases...)
		} else {
			add(loc)
		}
		if state, ok := stateForAlias(loc); ok {
			add(stateAliases[state]...)
		}
	}

	f := &LocationFilter{allowRemote: allowRemote}
	for _, p := range patterns {
		if len(p) <= shortAliasLen {
			f.words = append(f.words, regexp.MustCompile(`\b`+regexp.QuoteMeta(p)+`\b`))
		} else {
			f.substrings = append(f.substrings, p)
		}
	}
	return f
}

var stateOrder = []string{
	"california", "new york", "texas", "washington", "massachusetts",
	"colorado", "illinois", "georgia", "pennsylvania", "florida",
}

func stateForAlias(alias string) (string, bool) {
	for _, st := range stateOrder {
		for _, a := range stateAliases[st] {
			if a == alias {
				return st, true
			}
		}
	}
	return "", false
}

// IsRemote reports whether a location string describes remote work.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	for _, kw := range remoteKeywords {
		if strings.Contains(l, kw) {
			return true
		}
	}
	return false
}

// Matches reports whether location is acceptable. An empty location never
// matches.
func (f *LocationFilter) Matches(location string) bool {
	l := strings.ToLower(strings.TrimSpace(location))
	if l == "" {
		return false
	}
	if f.allowRemote && IsRemote(l) {
		return true
	}
	for _, s := range f.substrings {
		if strings.Contains(l, s) {
			return true
		}
	}
	for _, re := range f.words {
		if re.MatchString(l) {
			return true
		}
	}
	return false
}

// SplitRemote removes "remote" from a configured location list and reports
// whether it was present.
func SplitRemote(locations []string) (places []string, remote bool) {
	for _, l := range locations {
		if strings.EqualFold(strings.TrimSpace(l), "remote") {
			remote = true
			continue
		}
		places = append(places, l)
	}
	return places, remote
}
