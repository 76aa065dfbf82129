package report

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"

	"jobforge/internal/rank"
	"jobforge/internal/store"
)

const ActionSheetFile = "ACTION_SHEET.csv"

var actionSheetHeader = []string{
	"Priority", "Score", "Company", "Job Title", "Location", "Job URL",
	"Resume File",
	"LinkedIn - Find Employees", "LinkedIn - Find Engineers", "LinkedIn - Find Recruiters",
	"Status", "Referral Contact", "Applied Date", "Notes",
}

// ActionSheet writes run/ACTION_SHEET.csv with one row per scored job in
// rank order. LinkedIn columns come from run/employee_search.json when the
// referral command has produced it, otherwise they are built on the fly.
func ActionSheet(run, resumeDir string, scored []rank.Scored) (string, error) {
	contacts := map[string]CompanyContacts{}
	var saved []CompanyContacts
	if err := store.ReadJSON(filepath.Join(run, EmployeeSearchFile), &saved); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("action sheet: %w", err)
	}
	for _, c := range saved {
		contacts[c.Company] = c
	}

	rows := make([][]string, 0, len(scored))
	for i, s := range scored {
		c, ok := contacts[s.Company]
		if !ok {
			c = CompanyContacts{Company: s.Company, Links: LinkedInSearch(s.Company)}
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(s.Score) + "%",
			s.Company, s.Title, s.Location, s.URL,
			filepath.ToSlash(filepath.Join(resumeDir, ResumeName(s.Company, s.Title))),
			c.All, c.Engineers, c.Recruiters,
			"TODO", "", "", "",
		})
	}

	path := filepath.Join(run, ActionSheetFile)
	if err := writeCSV(path, actionSheetHeader, rows); err != nil {
		return "", fmt.Errorf("action sheet: %w", err)
	}
	return path, nil
}
