package report

import (
	"fmt"
	"strconv"
	"strings"

	"jobforge/internal/rank"
)

// Select keeps scored jobs at or above minScore whose company contains
// company (case-insensitive, empty matches all). Order is preserved.
func Select(scored []rank.Scored, company string, minScore int) []rank.Scored {
	company = strings.ToLower(strings.TrimSpace(company))
	var out []rank.Scored
	for _, s := range scored {
		if s.Score < minScore {
			continue
		}
		if company != "" && !strings.Contains(strings.ToLower(s.Company), company) {
			continue
		}
		out = append(out, s)
	}
	return out
}

var exportHeader = []string{"Score", "Company", "Title", "Location", "URL", "Matched Skills"}

// Export writes scored to path as CSV.
func Export(path string, scored []rank.Scored) error {
	rows := make([][]string, 0, len(scored))
	for _, s := range scored {
		rows = append(rows, []string{
			strconv.Itoa(s.Score), s.Company, s.Title, s.Location, s.URL,
			strings.Join(s.MatchedSkills, ", "),
		})
	}
	if err := writeCSV(path, exportHeader, rows); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
