package domain

import (
	"strings"
	"time"
)

type Company struct {
	Name        string     `json:"name" yaml:"name"`
	CareerURL   string     `json:"career_url" yaml:"career_url"`
	ATSType     Vendor     `json:"ats_type,omitempty" yaml:"ats_type,omitempty"`
	LastCrawled *time.Time `json:"last_crawled,omitempty" yaml:"-"`
}

// Key is the registry key for a company name.
func (c Company) Key() string { return CompanyKey(c.Name) }

func CompanyKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
