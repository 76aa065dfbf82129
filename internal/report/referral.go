package report

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"jobforge/internal/rank"
	"jobforge/internal/store"
)

const EmployeeSearchFile = "employee_search.json"

const linkedInPeople = "https://www.linkedin.com/search/results/people/"

// Links are LinkedIn people searches scoped to one company.
type Links struct {
	All        string `json:"linkedin_all"`
	Engineers  string `json:"linkedin_engineers"`
	Recruiters string `json:"linkedin_recruiters"`
}

// queryEscape escapes s for a query value, spaces as %20.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func LinkedInSearch(company string) Links {
	base := linkedInPeople + "?currentCompany=%5B%22" + queryEscape(company) + "%22%5D"
	return Links{
		All:        base,
		Engineers:  base + "&keywords=software%20engineer",
		Recruiters: base + "&keywords=recruiter",
	}
}

// ContactSearch is a people search for someone holding role at company.
func ContactSearch(company, role string) string {
	company = strings.TrimSpace(strings.NewReplacer("Inc.", "", "LLC", "").Replace(company))
	q := queryEscape(strings.TrimSpace(role + " " + company))
	return linkedInPeople + "?keywords=" + q + "&origin=GLOBAL_SEARCH_HEADER"
}

type CompanyContacts struct {
	Company   string `json:"company"`
	JobsCount int    `json:"jobs_count"`
	Links
	TopJobs []rank.Scored `json:"top_jobs"`
}

// Referrals groups the first top scored jobs by company, in order of each
// company's best job, keeping up to three jobs per company.
func Referrals(scored []rank.Scored, top int) []CompanyContacts {
	if top > 0 && len(scored) > top {
		scored = scored[:top]
	}
	idx := map[string]int{}
	var out []CompanyContacts
	for _, s := range scored {
		i, ok := idx[s.Company]
		if !ok {
			i = len(out)
			idx[s.Company] = i
			out = append(out, CompanyContacts{Company: s.Company, Links: LinkedInSearch(s.Company)})
		}
		c := &out[i]
		c.JobsCount++
		if len(c.TopJobs) < 3 {
			c.TopJobs = append(c.TopJobs, s)
		}
	}
	return out
}

// SaveReferrals writes run/employee_search.json.
func SaveReferrals(run string, contacts []CompanyContacts) (string, error) {
	if contacts == nil {
		contacts = []CompanyContacts{}
	}
	path := filepath.Join(run, EmployeeSearchFile)
	if err := store.WriteJSON(path, contacts); err != nil {
		return "", fmt.Errorf("referral save: %w", err)
	}
	return path, nil
}

// ErrUnknownTemplate is returned by FormatMessage for a name not in Templates.
var ErrUnknownTemplate = errors.New("unknown message template")

// Templates are outreach messages. Placeholders are {name}, {company},
// {role} and {background}.
var Templates = map[string]string{
	"connection_request": `Hi {name},

I saw you work at {company}. I'm interested in the {role} position and would love to learn more about your experience there. Would you be open to a quick chat?`,

	"referral_request": `Hi {name},

Thanks for connecting! I've applied to the {role} position at {company}.

Quick background: {background}

Would you be comfortable referring me? Happy to share my resume and discuss why I'm excited about this opportunity.

Best regards`,

	"follow_up": `Hi {name},

Following up on my previous message about the {role} position. I understand you're busy, but would really appreciate any insights about the role or team.

Thanks!`,

	"thank_you": `Hi {name},

Thank you so much for the referral! I really appreciate you taking the time to help. I'll keep you posted on how it goes.

Best regards`,
}

type MessageVars struct {
	Name       string
	Company    string
	Role       string
	Background string
}

func FormatMessage(template string, v MessageVars) (string, error) {
	t, ok := Templates[template]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, template)
	}
	r := strings.NewReplacer(
		"{name}", v.Name,
		"{company}", v.Company,
		"{role}", v.Role,
		"{background}", v.Background,
	)
	return r.Replace(t), nil
}
