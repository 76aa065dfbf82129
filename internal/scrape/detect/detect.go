// Package detect guesses which applicant tracking system serves a careers
// page, first from the URL alone and then from the page markup.
package detect

import (
	"bytes"
	"context"
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/util"
)

type rule struct {
	vendor  domain.Vendor
	urlRes  []*regexp.Regexp
	markers []string
}

func compile(pats ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(pats))
	for i, p := range pats {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// rules are checked in order; the first hit wins.
var rules = []rule{
	{
		vendor:  domain.VendorGreenhouse,
		urlRes:  compile(`boards\.greenhouse\.io`, `greenhouse\.io/embed`, `api\.greenhouse\.io`),
		markers: []string{"greenhouse", "grnhse_app", "greenhouse-job-board"},
	},
	{
		vendor:  domain.VendorLever,
		urlRes:  compile(`jobs\.lever\.co`, `lever\.co/embed`),
		markers: []string{"lever-jobs-container", "lever-job-title", "jobs.lever.co"},
	},
	{
		vendor:  domain.VendorAshby,
		urlRes:  compile(`jobs\.ashbyhq\.com`, `ashbyhq\.com/api`),
		markers: []string{"ashby-job-posting", "ashbyhq"},
	},
	{
		vendor:  domain.VendorWorkday,
		urlRes:  compile(`\.myworkdayjobs\.com`, `workday\.com`, `wd\d+\.myworkdaysite\.com`),
		markers: []string{"workday", "wd-"},
	},
}

// DetectURL matches the URL against known ATS hosts without any I/O.
func DetectURL(raw string) domain.Vendor {
	for _, r := range rules {
		for _, re := range r.urlRes {
			if re.MatchString(raw) {
				return r.vendor
			}
		}
	}
	return domain.VendorUnknown
}

// DetectHTML looks for vendor markers in a fetched page, then for iframes
// pointing at a known ATS host.
func DetectHTML(page []byte) domain.Vendor {
	lower := strings.ToLower(string(page))
	for _, r := range rules {
		for _, m := range r.markers {
			if strings.Contains(lower, m) {
				return r.vendor
			}
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return domain.VendorUnknown
	}
	found := domain.VendorUnknown
	doc.Find("iframe[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src, _ := s.Attr("src")
		if v := DetectURL(src); v != domain.VendorUnknown {
			found = v
			return false
		}
		return true
	})
	return found
}

type Detector struct {
	hc *util.Client
}

func New(hc *util.Client) *Detector {
	return &Detector{hc: hc}
}

// Detect returns the ATS for a careers URL, or VendorUnknown when nothing
// matches or the page cannot be fetched.
func (d *Detector) Detect(ctx context.Context, careerURL string) domain.Vendor {
	if v := DetectURL(careerURL); v != domain.VendorUnknown {
		return v
	}
	if d.hc == nil || careerURL == "" {
		return domain.VendorUnknown
	}
	body, err := d.hc.Get(ctx, careerURL, nil)
	if err != nil {
		log.Printf("[detect] url=%q err=%v", careerURL, err)
		return domain.VendorUnknown
	}
	return DetectHTML(body)
}
