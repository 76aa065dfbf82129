package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"jobforge/internal/filter"
	"jobforge/internal/store"
)

// writeCSV renders header and rows and swaps the file into place.
func writeCSV(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("csv %s: %w", path, err)
	}
	return store.WriteFileAtomic(path, buf.Bytes())
}

// slug lower-cases s and turns spaces and slashes into '-'.
func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "-", "/", "-", "\\", "-").Replace(s)
}

// ResumeName is the file name forge writes for a job and the action sheet
// points at: "<company>-<title>.md" with the title part cut to 30 runes.
// Bracketed tags and work-mode suffixes are dropped from the title.
func ResumeName(company, title string) string {
	t := []rune(slug(filter.NormalizeTitle(title)))
	if len(t) > 30 {
		t = t[:30]
	}
	return slug(company) + "-" + string(t) + ".md"
}
