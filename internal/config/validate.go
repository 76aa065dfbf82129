package config

import (
	"errors"
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Err folds the errors into one error, or nil.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return errors.New("config validation failed:\n- " + strings.Join(v.Errors, "\n- "))
}

func trimList(xs []string) []string {
	seen := map[string]bool{}
	var ys []string
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		key := strings.ToLower(x)
		if seen[key] {
			continue
		}
		seen[key] = true
		ys = append(ys, x)
	}
	return ys
}

// NormalizeAndValidate returns a cleaned copy of cfg with zero-valued
// limits and timeouts filled from Default. Scoring weights are taken as
// given.
func NormalizeAndValidate(cfg Settings) (Settings, Validation) {
	out := cfg
	var res Validation
	def := Default()

	out.JobTitles = trimList(out.JobTitles)
	out.Locations = trimList(out.Locations)
	out.ExcludeLevels = trimList(out.ExcludeLevels)
	for i, l := range out.ExcludeLevels {
		out.ExcludeLevels[i] = strings.ToLower(l)
	}

	if len(out.JobTitles) == 0 {
		res.addWarn("job_titles is empty; discovery will keep every title.")
	}
	if len(out.Locations) == 0 {
		res.addWarn("locations is empty; discovery will keep every location.")
	}

	if out.MinMatchScore < 0 || out.MinMatchScore > 100 {
		res.addErr("min_match_score must be 0..100 (got %v)", out.MinMatchScore)
	}
	if out.TitleMinScore == 0 {
		out.TitleMinScore = def.TitleMinScore
	}
	if out.TitleMinScore < 0 || out.TitleMinScore > 1 {
		res.addErr("title_min_score must be 0..1 (got %v)", out.TitleMinScore)
	}

	d := &out.Discovery
	if d.TimeoutSeconds == 0 {
		d.TimeoutSeconds = def.Discovery.TimeoutSeconds
	}
	if d.TimeoutSeconds < 0 {
		res.addErr("discovery.timeout_seconds must be > 0")
	}
	if d.RequestsPerSecond < 0 {
		res.addErr("discovery.requests_per_second must be >= 0")
	} else if d.RequestsPerSecond > 10 {
		res.addWarn("discovery.requests_per_second is high (%v) and may get you rate limited.", d.RequestsPerSecond)
	}
	if d.OutputDir == "" {
		d.OutputDir = def.Discovery.OutputDir
	}
	if d.RegistryPath == "" {
		d.RegistryPath = def.Discovery.RegistryPath
	}
	if d.WorkdayMaxOffset <= 0 {
		d.WorkdayMaxOffset = def.Discovery.WorkdayMaxOffset
	}
	if d.AmazonMaxOffset <= 0 {
		d.AmazonMaxOffset = def.Discovery.AmazonMaxOffset
	}

	b := &out.Browser
	fill := func(v *int, d int) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&b.NavTimeoutSeconds, def.Browser.NavTimeoutSeconds)
	fill(&b.UberMaxClicks, def.Browser.UberMaxClicks)
	fill(&b.MetaMaxScrolls, def.Browser.MetaMaxScrolls)
	fill(&b.MetaMaxIdle, def.Browser.MetaMaxIdle)
	fill(&b.TikTokMaxPages, def.Browser.TikTokMaxPages)
	fill(&b.GoogleMaxPages, def.Browser.GoogleMaxPages)
	fill(&b.GenericMaxScrolls, def.Browser.GenericMaxScrolls)
	fill(&b.GenericMaxIdle, def.Browser.GenericMaxIdle)

	// Scoring weights keep an explicit 0; LoadSettings already supplied
	// defaults for missing keys.
	s := out.Scoring
	for _, w := range []struct {
		name string
		v    float64
	}{
		{"skills", s.Skills},
		{"title", s.Title},
		{"role_boost", s.RoleBoost},
		{"seniority", s.Seniority},
		{"seniority_alignment", s.Alignment},
		{"remote", s.Remote},
		{"mismatch_penalty", s.MismatchPenalty},
	} {
		if w.v < 0 {
			res.addErr("scoring.%s must be >= 0", w.name)
		}
	}

	// location sanity
	places, remote := 0, false
	for _, l := range out.Locations {
		if strings.EqualFold(l, "remote") {
			remote = true
		} else {
			places++
		}
	}
	if remote && places == 0 {
		res.addWarn("locations only lists remote; on-site jobs will be dropped.")
	}

	return out, res
}
