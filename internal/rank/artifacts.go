package rank

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"jobforge/internal/domain"
	"jobforge/internal/store"
)

const (
	ScoredJSON = "scored_jobs.json"
	ScoredCSV  = "scored_jobs.csv"
	dateLayout = "2006-01-02"
)

// SaveRun writes scored under dir/YYYY-MM-DD and returns that directory.
func SaveRun(dir string, day time.Time, scored []Scored) (string, error) {
	run := filepath.Join(dir, day.Format(dateLayout))
	if scored == nil {
		scored = []Scored{}
	}
	if err := store.WriteJSON(filepath.Join(run, ScoredJSON), scored); err != nil {
		return "", fmt.Errorf("rank save: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Score", "Company", "Title", "Location", "URL"})
	for _, s := range scored {
		_ = w.Write([]string{strconv.Itoa(s.Score), s.Company, s.Title, s.Location, s.URL})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("rank save csv: %w", err)
	}
	if err := store.WriteFileAtomic(filepath.Join(run, ScoredCSV), buf.Bytes()); err != nil {
		return "", fmt.Errorf("rank save: %w", err)
	}
	return run, nil
}

// LatestRun returns the newest YYYY-MM-DD directory under dir that holds a
// scored_jobs.json.
func LatestRun(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("no match runs in %s: %w", dir, domain.ErrMissingData)
		}
		return "", fmt.Errorf("rank latest: %w", err)
	}
	var days []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := time.Parse(dateLayout, e.Name()); err != nil {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, e.Name(), ScoredJSON)); err == nil {
			days = append(days, e.Name())
		}
	}
	if len(days) == 0 {
		return "", fmt.Errorf("no match runs in %s: %w", dir, domain.ErrMissingData)
	}
	sort.Strings(days)
	return filepath.Join(dir, days[len(days)-1]), nil
}

// LoadRun reads the scored jobs of one run directory.
func LoadRun(run string) ([]Scored, error) {
	var out []Scored
	if err := store.ReadJSON(filepath.Join(run, ScoredJSON), &out); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("scored jobs in %s: %w", run, domain.ErrMissingData)
		}
		return nil, fmt.Errorf("rank load: %w", err)
	}
	return out, nil
}

// LoadLatest is LatestRun followed by LoadRun.
func LoadLatest(dir string) (string, []Scored, error) {
	run, err := LatestRun(dir)
	if err != nil {
		return "", nil, err
	}
	scored, err := LoadRun(run)
	return run, scored, err
}
