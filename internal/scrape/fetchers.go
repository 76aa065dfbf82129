package scrape

import (
	"errors"
	"fmt"

	"jobforge/internal/config"
	"jobforge/internal/domain"
	"jobforge/internal/scrape/amazon"
	"jobforge/internal/scrape/ashby"
	"jobforge/internal/scrape/browser"
	"jobforge/internal/scrape/generic"
	"jobforge/internal/scrape/google"
	"jobforge/internal/scrape/greenhouse"
	"jobforge/internal/scrape/lever"
	"jobforge/internal/scrape/meta"
	"jobforge/internal/scrape/tiktok"
	"jobforge/internal/scrape/types"
	"jobforge/internal/scrape/uber"
	"jobforge/internal/scrape/util"
	"jobforge/internal/scrape/workday"
)

// ErrUnsupportedVendor is returned by For for a Vendor outside the known set.
var ErrUnsupportedVendor = errors.New("unsupported vendor")

// Fetchers holds one configured fetcher per vendor. Browser-backed vendors
// report a permanent failure when br is nil.
type Fetchers struct {
	greenhouse types.Fetcher
	lever      types.Fetcher
	ashby      types.Fetcher
	workday    types.Fetcher
	amazon     types.Fetcher
	uber       types.Fetcher
	meta       types.Fetcher
	google     types.Fetcher
	tiktok     types.Fetcher
	generic    types.Fetcher
}

func NewFetchers(cfg config.Settings, hc *util.Client, br browser.Launcher) *Fetchers {
	b := cfg.Browser

	wd := workday.DefaultConfig()
	wd.MaxOffset = cfg.Discovery.WorkdayMaxOffset

	az := amazon.DefaultConfig()
	az.MaxOffset = cfg.Discovery.AmazonMaxOffset

	ub := uber.DefaultConfig()
	ub.Loop.MaxIterations = b.UberMaxClicks

	mt := meta.DefaultConfig()
	mt.Loop.MaxIterations = b.MetaMaxScrolls
	mt.Loop.MaxIdle = b.MetaMaxIdle

	gg := google.DefaultConfig()
	gg.Loop.MaxIterations = b.GoogleMaxPages

	tt := tiktok.DefaultConfig()
	tt.Loop.MaxIterations = b.TikTokMaxPages

	gn := generic.DefaultConfig()
	gn.Loop.MaxIterations = b.GenericMaxScrolls
	gn.Loop.MaxIdle = b.GenericMaxIdle

	return &Fetchers{
		greenhouse: greenhouse.New(greenhouse.DefaultConfig(), hc),
		lever:      lever.New(lever.DefaultConfig(), hc),
		ashby:      ashby.New(ashby.DefaultConfig(), hc),
		workday:    workday.New(wd, hc),
		amazon:     amazon.New(az, hc),
		uber:       uber.New(ub, br),
		meta:       meta.New(mt, br),
		google:     google.New(gg, br),
		tiktok:     tiktok.New(tt, br),
		generic:    generic.New(gn, hc, br),
	}
}

// For picks the fetcher for v. Unknown falls through to the generic link
// scanner.
func (f *Fetchers) For(v domain.Vendor) (types.Fetcher, error) {
	switch v {
	case domain.VendorGreenhouse:
		return f.greenhouse, nil
	case domain.VendorLever:
		return f.lever, nil
	case domain.VendorAshby:
		return f.ashby, nil
	case domain.VendorWorkday:
		return f.workday, nil
	case domain.VendorAmazon:
		return f.amazon, nil
	case domain.VendorUber:
		return f.uber, nil
	case domain.VendorMeta:
		return f.meta, nil
	case domain.VendorGoogle:
		return f.google, nil
	case domain.VendorTikTok:
		return f.tiktok, nil
	case domain.VendorUnknown, domain.VendorGeneric:
		return f.generic, nil
	default:
		return nil, fmt.Errorf("fetcher for vendor %d: %w", int(v), ErrUnsupportedVendor)
	}
}
