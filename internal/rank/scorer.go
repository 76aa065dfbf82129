package rank

import (
	"math"
	"sort"
	"strings"

	"jobforge/internal/config"
	"jobforge/internal/domain"
)

// Scored is a job with its match score. The job fields are flattened into
// the JSON object.
type Scored struct {
	domain.Job
	Score         int      `json:"score"`
	MatchedSkills []string `json:"matched_skills"`
	IsRemote      bool     `json:"is_remote"`
}

type Scorer interface {
	Score(job domain.Job, p Profile) Scored
}

// roleKeywords earn the role boost when any appears in the title.
var roleKeywords = []string{
	"software engineer", "software developer", "backend", "back-end",
	"full stack", "fullstack", "platform", "infrastructure",
	"site reliability", "sre", "devops", "engineer", "developer",
}

var seniorWords = []string{"senior", "sr", "lead", "staff", "principal"}

// mismatchCategories are role families outside a software engineering
// search. A title in a family costs the penalty unless a profile skill
// names one of the family's keywords.
var mismatchCategories = [][]string{
	{"machine learning", "ml engineer", "data scientist"},
	{"sales", "account executive", "business development"},
	{"marketing", "growth", "seo", "content"},
	{"designer", "ux designer", "ui designer", "graphic"},
}

// WeightedScorer adds up title, skill, seniority and remote signals using
// the configured weights and clamps the total to 0..100.
type WeightedScorer struct {
	W config.Scoring
}

func (s WeightedScorer) Score(job domain.Job, p Profile) Scored {
	return s.ScoreText(job, "", p)
}

// ScoreText is Score with extra text, such as a board listing's
// description, searched for skills alongside the title, team and location.
func (s WeightedScorer) ScoreText(job domain.Job, extra string, p Profile) Scored {
	title := strings.ToLower(job.Title)
	location := strings.ToLower(job.Location)
	text := strings.Join([]string{title, strings.ToLower(job.Team), location, strings.ToLower(extra)}, " ")

	var pts float64

	var matched []string
	for _, sk := range p.Skills {
		if containsWord(text, strings.ToLower(sk)) {
			matched = append(matched, sk)
		}
	}
	if len(p.Skills) > 0 {
		pts += s.W.Skills * float64(len(matched)) / float64(len(p.Skills))
	}

	for _, t := range p.Titles {
		if t != "" && strings.Contains(title, strings.ToLower(t)) {
			pts += s.W.Title
			break
		}
	}

	for _, kw := range roleKeywords {
		if containsWord(title, kw) {
			pts += s.W.RoleBoost
			break
		}
	}

	if hasAny(title, seniorWords) {
		pts += s.W.Seniority
		if p.Years >= 3 {
			pts += s.W.Alignment
		}
	}

	remote := strings.Contains(title, "remote") || strings.Contains(location, "remote")
	if remote {
		pts += s.W.Remote
	}

	pts -= s.W.MismatchPenalty * float64(mismatches(title, p))

	return Scored{
		Job:           job,
		Score:         int(math.Round(math.Max(0, math.Min(100, pts)))),
		MatchedSkills: matched,
		IsRemote:      remote,
	}
}

// mismatches counts the categories title falls in that no profile skill
// covers.
func mismatches(title string, p Profile) int {
	skills := strings.ToLower(strings.Join(p.Skills, " "))
	n := 0
	for _, cat := range mismatchCategories {
		if !hasAny(title, cat) {
			continue
		}
		covered := false
		for _, kw := range cat {
			if strings.Contains(skills, kw) {
				covered = true
				break
			}
		}
		if !covered {
			n++
		}
	}
	return n
}

// Candidate is a job plus any extra text to search for skills.
type Candidate struct {
	Job  domain.Job
	Text string
}

// Rank scores jobs and keeps those at or above minScore, best first. Equal scores
// keep their input order. In remote-only mode non-remote jobs are dropped
// before scoring.
func (s WeightedScorer) Rank(jobs []domain.Job, p Profile, minScore int) []Scored {
	cs := make([]Candidate, len(jobs))
	for i, j := range jobs {
		cs[i] = Candidate{Job: j}
	}
	return s.RankCandidates(cs, p, minScore)
}

// RankCandidates is Rank over jobs that carry extra text.
func (s WeightedScorer) RankCandidates(cs []Candidate, p Profile, minScore int) []Scored {
	remoteOnly := p.RemoteOnly()
	var out []Scored
	for _, c := range cs {
		if remoteOnly && !strings.Contains(strings.ToLower(c.Job.Location), "remote") {
			continue
		}
		sc := s.ScoreText(c.Job, c.Text, p)
		if sc.Score >= minScore {
			out = append(out, sc)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	return out
}

func hasAny(text string, words []string) bool {
	for _, w := range words {
		if containsWord(text, w) {
			return true
		}
	}
	return false
}

// Stars renders a score band for terminal output.
func Stars(score int) string {
	switch {
	case score >= 80:
		return "⭐⭐⭐"
	case score >= 60:
		return "⭐⭐"
	default:
		return "⭐"
	}
}
