package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"jobforge/internal/domain"
)

// CompaniesFile is config/companies.yaml.
type CompaniesFile struct {
	Companies []CompanyEntry `yaml:"companies"`
}

type CompanyEntry struct {
	Name      string `yaml:"name"`
	CareerURL string `yaml:"career_url"`
	ATSType   string `yaml:"ats_type,omitempty"`
}

func LoadCompanies(path string) (CompaniesFile, error) {
	var cf CompaniesFile
	b, err := os.ReadFile(path)
	if err != nil {
		return cf, fmt.Errorf("config read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return cf, fmt.Errorf("config parse %s: %w", path, err)
	}
	return cf, nil
}

// Normalize trims entries and converts them to companies. Entries without a
// name or URL, and repeated names, are errors; an unrecognised ats_type is a
// warning and leaves the vendor to detection.
func (cf CompaniesFile) Normalize() ([]domain.Company, Validation) {
	var (
		out  []domain.Company
		res  Validation
		seen = map[string]bool{}
	)
	for i, e := range cf.Companies {
		name := strings.TrimSpace(e.Name)
		url := strings.TrimSpace(e.CareerURL)
		if name == "" {
			res.addErr("companies[%d].name is required", i)
			continue
		}
		if url == "" {
			res.addErr("companies[%d] (%s): career_url is required", i, name)
			continue
		}
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			res.addErr("companies[%d] (%s): career_url must be http(s): %q", i, name, url)
			continue
		}
		key := domain.CompanyKey(name)
		if seen[key] {
			res.addErr("companies[%d]: duplicate company %q", i, name)
			continue
		}
		seen[key] = true

		v, ok := domain.ParseVendor(e.ATSType)
		if !ok {
			res.addWarn("companies[%d] (%s): unknown ats_type %q, will detect", i, name, e.ATSType)
		}
		out = append(out, domain.Company{Name: name, CareerURL: url, ATSType: v})
	}
	if len(out) == 0 && res.OK() {
		res.addWarn("no companies configured")
	}
	return out, res
}

// Select keeps the companies named in names (case-insensitive). An empty
// list selects everything; names that match nothing are returned as missing.
func Select(companies []domain.Company, names []string) (picked []domain.Company, missing []string) {
	if len(names) == 0 {
		return companies, nil
	}
	want := map[string]string{}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			want[domain.CompanyKey(n)] = n
		}
	}
	found := map[string]bool{}
	for _, c := range companies {
		if _, ok := want[c.Key()]; ok {
			picked = append(picked, c)
			found[c.Key()] = true
		}
	}
	for k, n := range want {
		if !found[k] {
			missing = append(missing, n)
		}
	}
	return picked, missing
}
