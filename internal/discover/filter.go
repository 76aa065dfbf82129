package discover

import (
	"jobforge/internal/config"
	"jobforge/internal/domain"
	"jobforge/internal/filter"
)

// Filters decides which fetched jobs are worth keeping. A nil filter lets
// every job through on that axis.
type Filters struct {
	Title    *filter.TitleFilter
	Location *filter.LocationFilter
}

// NewFilters builds the filters from settings. Empty job_titles or
// locations disable the corresponding filter.
func NewFilters(cfg config.Settings) Filters {
	var f Filters
	if len(cfg.JobTitles) > 0 {
		f.Title = filter.NewTitleFilter(cfg.JobTitles, cfg.TitleMinScore, cfg.ExcludeLevels)
	}
	if len(cfg.Locations) > 0 {
		places, remote := filter.SplitRemote(cfg.Locations)
		f.Location = filter.NewLocationFilter(places, remote)
	}
	return f
}

// Keep applies the title filter, then the location filter, and names the
// one that rejected j.
func (f Filters) Keep(j domain.Job) (keep bool, reason string) {
	if f.Title != nil {
		if ok, _ := f.Title.Matches(j.Title); !ok {
			return false, "title"
		}
	}
	if f.Location != nil && !f.Location.Matches(j.Location) {
		return false, "location"
	}
	return true, ""
}
