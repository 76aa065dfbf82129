package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"jobforge/internal/domain"
)

const (
	jobsJSON = "jobs.json"
	jobsCSV  = "jobs.csv"
)

var csvHeader = []string{"company", "title", "location", "team", "url", "source", "discovered_at"}

// JobStore persists discovered jobs as dir/YYYY-MM-DD/<company>/jobs.{json,csv}
// and remembers every canonical URL it has ever written under dir.
type JobStore struct {
	dir string
	now func() time.Time

	seen  map[string]bool
	saved map[string]bool
}

type Stats struct {
	TotalJobs      int    `json:"total_unique_jobs"`
	CompaniesSaved int    `json:"companies_saved"`
	OutputDir      string `json:"output_directory"`
}

// Open creates dir if needed and loads the canonical URLs of all jobs
// already stored beneath it.
func Open(dir string) (*JobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store open: %w", err)
	}
	s := &JobStore{dir: dir, now: time.Now, seen: map[string]bool{}, saved: map[string]bool{}}

	jobs, err := LoadAll(dir)
	if err != nil {
		return nil, fmt.Errorf("store open: %w", err)
	}
	for _, j := range jobs {
		if j.URL != "" {
			s.seen[j.CanonicalURL()] = true
		}
	}
	log.Printf("[store] dir=%q known_jobs=%d", dir, len(s.seen))
	return s, nil
}

// Save appends the jobs not seen before to today's files for company and
// returns how many were new. Duplicates within jobs count once. Jobs are
// remembered only once both files are written.
func (s *JobStore) Save(company string, jobs []domain.Job) (int, error) {
	var (
		fresh []domain.Job
		keys  []string
	)
	batch := map[string]bool{}
	for _, j := range jobs {
		key := j.CanonicalURL()
		if key == "" || s.seen[key] || batch[key] {
			continue
		}
		batch[key] = true
		keys = append(keys, key)
		fresh = append(fresh, j)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	folder := filepath.Join(s.dir, s.now().Format("2006-01-02"), SafeName(company))
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return 0, fmt.Errorf("store save %s: %w", company, err)
	}
	if err := appendJSON(filepath.Join(folder, jobsJSON), fresh); err != nil {
		return 0, fmt.Errorf("store save %s: %w", company, err)
	}
	if err := appendCSV(filepath.Join(folder, jobsCSV), fresh); err != nil {
		return 0, fmt.Errorf("store save %s: %w", company, err)
	}
	for _, k := range keys {
		s.seen[k] = true
	}
	s.saved[domain.CompanyKey(company)] = true
	return len(fresh), nil
}

func (s *JobStore) Stats() Stats {
	return Stats{TotalJobs: len(s.seen), CompaniesSaved: len(s.saved), OutputDir: s.dir}
}

func appendJSON(path string, jobs []domain.Job) error {
	var existing []domain.Job
	if err := ReadJSON(path, &existing); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[store] unreadable %s, rewriting: %v", path, err)
		existing = nil
	}
	return WriteJSON(path, append(existing, jobs...))
}

func appendCSV(path string, jobs []domain.Job) error {
	_, statErr := os.Stat(path)
	writeHeader := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(csvHeader); err != nil {
			return err
		}
	}
	for _, j := range jobs {
		rec := []string{j.Company, j.Title, j.Location, j.Team, j.URL, j.Source.String(), j.DiscoveredAt.Format(time.RFC3339)}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// LoadAll reads every jobs.json under dir, oldest date folder first. Files
// that fail to decode are skipped with a log line.
func LoadAll(dir string) ([]domain.Job, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return filepath.SkipAll
			}
			return err
		}
		if !d.IsDir() && d.Name() == jobsJSON {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)

	var out []domain.Job
	for _, p := range paths {
		var jobs []domain.Job
		if err := ReadJSON(p, &jobs); err != nil {
			log.Printf("[store] skip %s: %v", p, err)
			continue
		}
		out = append(out, jobs...)
	}
	return out, nil
}

// SafeName turns a company name into a directory name: letters, digits,
// spaces, '-' and '_' are kept, everything else becomes '_', and spaces
// become '_'.
func SafeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.ReplaceAll(strings.TrimSpace(b.String()), " ", "_")
}
