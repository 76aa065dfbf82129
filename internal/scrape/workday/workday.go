package workday

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"

	"jobforge/internal/domain"
	"jobforge/internal/scrape/types"
	"jobforge/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

type Config struct {
	// PageSize is the search API page; Workday rejects limits above 20.
	PageSize int
	// MaxOffset stops pagination on boards that never report a total.
	MaxOffset int
}

func DefaultConfig() Config {
	return Config{PageSize: 20, MaxOffset: 5000}
}

type Scraper struct {
	cfg Config
	hc  *util.Client

	mu          sync.Mutex
	blockedHost map[string]bool
}

type board struct {
	Scheme string
	Host   string
	Tenant string
	Site   string
	Locale string
}

func New(cfg Config, hc *util.Client) *Scraper {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultConfig().PageSize
	}
	if cfg.MaxOffset <= 0 {
		cfg.MaxOffset = DefaultConfig().MaxOffset
	}
	return &Scraper{
		cfg:         cfg,
		hc:          hc,
		blockedHost: map[string]bool{},
	}
}

func (s *Scraper) Vendor() domain.Vendor { return domain.VendorWorkday }

type wdRequest struct {
	AppliedFacets map[string]any `json:"appliedFacets"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
}

type wdResponse struct {
	Total       int         `json:"total"`
	JobPostings []wdPosting `json:"jobPostings"`
}

type wdPosting struct {
	Title         string   `json:"title"`
	ExternalPath  string   `json:"externalPath"`
	LocationsText string   `json:"locationsText"`
	BulletFields  []string `json:"bulletFields"`
}

// ErrBlocked marks a Cloudflare challenge in front of the tenant.
var ErrBlocked = fmt.Errorf("workday blocked by cloudflare: %w", types.ErrTransient)

var initialStateRe = regexp.MustCompile(`window\.__INITIAL_STATE__\s*=\s*`)

func parseBoardURL(raw string) (board, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return board{}, errors.New("empty board url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return board{}, err
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	if u.Host == "" {
		return board{}, fmt.Errorf("missing host in %q", raw)
	}

	parts := strings.Split(u.Host, ".")
	if len(parts) < 3 {
		return board{}, fmt.Errorf("unexpected host %q", u.Host)
	}
	tenant := parts[0]

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) == 0 || segs[0] == "" {
		return board{}, fmt.Errorf("unexpected path %q", u.Path)
	}

	locale := ""
	if len(segs) >= 2 && looksLikeLocale(segs[0]) {
		locale = normalizeLocale(segs[0])
		segs = segs[1:]
	}

	site := segs[len(segs)-1]
	if site == "" {
		return board{}, fmt.Errorf("could not derive site from path %q", u.Path)
	}

	return board{
		Scheme: u.Scheme,
		Host:   u.Host,
		Tenant: tenant,
		Site:   site,
		Locale: locale,
	}, nil
}

func looksLikeLocale(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 5 || s[2] != '-' {
		return false
	}
	return isAlpha(s[0:2]) && isAlpha(s[3:5])
}

func normalizeLocale(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 5 && s[2] == '-' {
		return strings.ToLower(s[0:2]) + "-" + strings.ToUpper(s[3:5])
	}
	return s
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return false
		}
	}
	return true
}

func (b board) origin() string { return fmt.Sprintf("%s://%s", b.Scheme, b.Host) }

func (b board) jobsEndpoint() string {
	return fmt.Sprintf("%s/wday/cxs/%s/%s/jobs", b.origin(), b.Tenant, b.Site)
}

func (b board) absoluteJobURL(p wdPosting) string {
	path := strings.TrimSpace(p.ExternalPath)
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return b.origin() + path
}

func (p wdPosting) location() string {
	if p.LocationsText != "" {
		return p.LocationsText
	}
	for _, f := range p.BulletFields {
		if strings.Contains(strings.ToLower(f), "location") {
			return f
		}
	}
	return ""
}

// Fetch tries the search API, then the page's embedded state, then plain
// job links on the page. Each step runs only if the previous found nothing.
func (s *Scraper) Fetch(ctx context.Context, co domain.Company) types.Result {
	b, err := parseBoardURL(co.CareerURL)
	if err != nil {
		return types.Permanent(s.Vendor(), "workday board url: "+err.Error())
	}

	s.mu.Lock()
	blocked := s.blockedHost[b.Host]
	s.mu.Unlock()
	if blocked {
		return types.Failure(s.Vendor(), nil, ErrBlocked)
	}

	// Per-company jar so CALYPSO_CSRF_TOKEN and the session cookie persist.
	hc := s.hc.WithCookieJar()

	csrf, page, bootErr := bootstrapSession(ctx, hc, co.CareerURL)
	if errors.Is(bootErr, ErrBlocked) {
		s.mu.Lock()
		s.blockedHost[b.Host] = true
		s.mu.Unlock()
		log.Printf("[ats:workday] host=%q blocked by Cloudflare; skipping", b.Host)
		return types.Failure(s.Vendor(), nil, ErrBlocked)
	}
	if bootErr != nil {
		log.Printf("[ats:workday] company=%q bootstrap err=%v", co.Name, bootErr)
	}

	jobs, apiErr := s.fetchAPI(ctx, hc, co, b, csrf)
	if len(jobs) > 0 {
		if apiErr != nil {
			return types.Failure(s.Vendor(), jobs, apiErr)
		}
		return types.Success(s.Vendor(), jobs)
	}
	if apiErr != nil {
		log.Printf("[ats:workday] company=%q endpoint=%q err=%v", co.Name, b.jobsEndpoint(), apiErr)
	}

	if page != nil {
		if jobs := parseInitialState(page, co.CareerURL, co.Name); len(jobs) > 0 {
			return types.Success(s.Vendor(), jobs)
		}
		if jobs := parseLinks(page, b, co.Name); len(jobs) > 0 {
			return types.Success(s.Vendor(), jobs)
		}
	}

	switch {
	case apiErr != nil:
		return types.Failure(s.Vendor(), nil, apiErr)
	case bootErr != nil && page == nil:
		return types.Failure(s.Vendor(), nil, bootErr)
	default:
		return types.Success(s.Vendor(), nil)
	}
}

func (s *Scraper) fetchAPI(ctx context.Context, hc *util.Client, co domain.Company, b board, csrf string) ([]domain.Job, error) {
	endpoint := b.jobsEndpoint()

	hdr := http.Header{}
	hdr.Set("Origin", b.origin())
	hdr.Set("Referer", strings.TrimRight(co.CareerURL, "/"))
	hdr.Set("Accept-Language", util.FirstNonEmpty(b.Locale, "en-US"))
	if csrf != "" {
		hdr.Set("x-calypso-csrf-token", csrf)
	}

	var out []domain.Job
	for offset := 0; offset <= s.cfg.MaxOffset; offset += s.cfg.PageSize {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		var jr wdResponse
		req := wdRequest{
			AppliedFacets: map[string]any{},
			Limit:         s.cfg.PageSize,
			Offset:        offset,
		}
		if err := hc.PostJSON(ctx, endpoint, req, &jr, hdr); err != nil {
			return out, fmt.Errorf("workday post jobs offset=%d: %w", offset, err)
		}
		if len(jr.JobPostings) == 0 {
			break
		}

		for _, p := range jr.JobPostings {
			jobURL := b.absoluteJobURL(p)
			if strings.TrimSpace(p.Title) == "" || jobURL == "" {
				continue
			}
			out = append(out, domain.NewJob(co.Name, p.Title, jobURL,
				util.NormalizeLocation(p.location()), "", domain.VendorWorkday))
		}

		if jr.Total > 0 && offset+s.cfg.PageSize >= jr.Total {
			break
		}
	}
	return out, nil
}

// bootstrapSession loads the board page once. The page body feeds the HTML
// fallbacks and the cookie jar picks up CALYPSO_CSRF_TOKEN.
func bootstrapSession(ctx context.Context, hc *util.Client, boardURL string) (string, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, boardURL, nil)
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US")

	body, res, err := hc.Do(req)
	if res != nil && looksLikeCloudflareBlock(res, body) {
		return "", nil, ErrBlocked
	}
	if err != nil {
		return "", nil, fmt.Errorf("workday bootstrap: %w", err)
	}

	for _, c := range hc.Cookies(boardURL) {
		if c.Name == "CALYPSO_CSRF_TOKEN" && c.Value != "" {
			return c.Value, body, nil
		}
	}
	return "", body, nil
}

func looksLikeCloudflareBlock(resp *http.Response, body []byte) bool {
	server := strings.ToLower(resp.Header.Get("Server"))
	cfRay := resp.Header.Get("CF-RAY")

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		if strings.Contains(server, "cloudflare") && cfRay != "" {
			return true
		}
	}

	preview := body
	if len(preview) > 4096 {
		preview = preview[:4096]
	}
	low := strings.ToLower(string(preview))
	return (strings.Contains(low, "cloudflare") && strings.Contains(low, "checking your browser")) ||
		(strings.Contains(low, "attention required") && strings.Contains(low, "cloudflare"))
}

// parseInitialState reads the window.__INITIAL_STATE__ object some tenants
// still embed, keyed jobPostings.entities[id].
func parseInitialState(page []byte, careerURL, company string) []domain.Job {
	loc := initialStateRe.FindIndex(page)
	if loc == nil {
		return nil
	}

	var state struct {
		JobPostings struct {
			Entities map[string]struct {
				Title    string `json:"title"`
				Location string `json:"location"`
			} `json:"entities"`
		} `json:"jobPostings"`
	}
	if err := json.NewDecoder(bytes.NewReader(page[loc[1]:])).Decode(&state); err != nil {
		return nil
	}

	ids := make([]string, 0, len(state.JobPostings.Entities))
	for id := range state.JobPostings.Entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	base := strings.TrimRight(careerURL, "/")
	var out []domain.Job
	for _, id := range ids {
		e := state.JobPostings.Entities[id]
		if strings.TrimSpace(e.Title) == "" {
			continue
		}
		out = append(out, domain.NewJob(company, e.Title, base+"/"+id,
			util.NormalizeLocation(e.Location), "", domain.VendorWorkday))
	}
	return out
}

// parseLinks is the last resort: any anchor with "job" in its href.
func parseLinks(page []byte, b board, company string) []domain.Job {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil
	}

	seen := map[string]bool{}
	var out []domain.Job
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(strings.ToLower(href), "job") {
			return
		}
		title := util.CleanText(a.Text())
		if len(title) <= 3 {
			return
		}
		abs := util.AbsURL(b.origin()+"/", href)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		out = append(out, domain.NewJob(company, title, abs, "", "", domain.VendorWorkday))
	})
	return out
}
