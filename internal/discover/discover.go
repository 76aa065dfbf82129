// Package discover walks the configured companies, fetches their openings
// through the matching ATS fetcher, filters them and persists new ones.
package discover

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/types"
	"jobforge/internal/store"
)

// FetcherSource resolves a vendor to its fetcher.
type FetcherSource interface {
	For(v domain.Vendor) (types.Fetcher, error)
}

// Detector guesses the vendor behind a career URL.
type Detector interface {
	Detect(ctx context.Context, careerURL string) domain.Vendor
}

type Runner struct {
	Fetchers FetcherSource
	Detector Detector
	Filters  Filters
	Jobs     *store.JobStore
	Registry *store.Registry

	now func() time.Time
}

// CompanyReport is the per-company line of a discovery run.
type CompanyReport struct {
	Company string
	Vendor  domain.Vendor
	Fetched int
	Kept    int
	New     int
	Outcome types.Outcome
	Reason  string
}

type Summary struct {
	Companies []CompanyReport
	NewJobs   int
	Failed    int
	Stats     store.Stats
}

// Run processes companies one at a time. Fetch failures are recorded in the
// summary and do not stop the run; store and registry errors do.
func (r *Runner) Run(ctx context.Context, companies []domain.Company) (Summary, error) {
	now := r.now
	if now == nil {
		now = time.Now
	}

	var sum Summary
	for _, co := range companies {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		rep, err := r.company(ctx, co, now)
		if err != nil {
			return sum, err
		}
		sum.Companies = append(sum.Companies, rep)
		sum.NewJobs += rep.New
		if rep.Outcome != types.OutcomeOK {
			sum.Failed++
		}
	}
	sum.Stats = r.Jobs.Stats()
	log.Printf("[discover] companies=%d new=%d failed=%d total_unique=%d",
		len(sum.Companies), sum.NewJobs, sum.Failed, sum.Stats.TotalJobs)
	return sum, nil
}

func (r *Runner) company(ctx context.Context, co domain.Company, now func() time.Time) (CompanyReport, error) {
	rep := CompanyReport{Company: co.Name}

	if r.Registry != nil {
		if err := r.Registry.Upsert(co); err != nil {
			return rep, fmt.Errorf("discover %s: %w", co.Name, err)
		}
		if known, ok := r.Registry.Get(co.Name); ok {
			co = known
		}
	}

	if co.ATSType == domain.VendorUnknown && r.Detector != nil {
		if v := r.Detector.Detect(ctx, co.CareerURL); v != domain.VendorUnknown {
			co.ATSType = v
			if r.Registry != nil {
				if err := r.Registry.SetVendor(co.Name, v); err != nil {
					return rep, fmt.Errorf("discover %s: %w", co.Name, err)
				}
			}
		}
	}
	rep.Vendor = co.ATSType

	f, err := r.Fetchers.For(co.ATSType)
	if err != nil {
		log.Printf("[discover] company=%q vendor=%s err=%v", co.Name, co.ATSType, err)
		rep.Outcome, rep.Reason = types.OutcomePermanent, err.Error()
		return rep, nil
	}

	res := f.Fetch(ctx, co)
	rep.Fetched = len(res.Jobs)
	rep.Outcome, rep.Reason = res.Outcome, res.Reason
	if !res.OK() {
		log.Printf("[discover] company=%q source=%s outcome=%s reason=%q partial=%d",
			co.Name, res.Source, res.Outcome, res.Reason, len(res.Jobs))
	}

	var kept []domain.Job
	for _, j := range res.Jobs {
		if ok, why := r.Filters.Keep(j); !ok {
			log.Printf("[discover] skipped (%s) company=%q title=%q loc=%q", why, co.Name, j.Title, j.Location)
			continue
		}
		kept = append(kept, j)
	}
	rep.Kept = len(kept)

	n, err := r.Jobs.Save(co.Name, kept)
	if err != nil {
		return rep, fmt.Errorf("discover %s: %w", co.Name, err)
	}
	rep.New = n

	// Only a completed listing counts as a crawl.
	if res.OK() && r.Registry != nil {
		if err := r.Registry.MarkCrawled(co.Name, now()); err != nil {
			return rep, fmt.Errorf("discover %s: %w", co.Name, err)
		}
	}

	log.Printf("[discover] company=%q vendor=%s fetched=%d kept=%d new=%d outcome=%s",
		co.Name, co.ATSType, rep.Fetched, rep.Kept, rep.New, rep.Outcome)
	return rep, nil
}
