package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"

	"jobforge/internal/domain"
)

// ErrLocked is returned by OpenRegistry when another process holds the
// registry lock.
var ErrLocked = errors.New("registry is locked by another process")

// Registry is the persistent list of companies with their detected ATS and
// last crawl time. One process at a time may hold it open.
type Registry struct {
	path string
	lock *flock.Flock
	now  func() time.Time

	companies map[string]domain.Company
}

type registryFile struct {
	Companies []domain.Company `json:"companies"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// OpenRegistry takes the lock at path+".lock" and loads path if it exists.
func OpenRegistry(path string) (*Registry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("registry open: %w", err)
	}
	lk := flock.New(path + ".lock")
	ok, err := lk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("registry lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("registry %s: %w", path, ErrLocked)
	}

	r := &Registry{path: path, lock: lk, now: time.Now, companies: map[string]domain.Company{}}
	if err := r.Load(); err != nil {
		_ = lk.Unlock()
		return nil, err
	}
	return r, nil
}

// Load replaces the in-memory state with the file contents. A missing file
// is an empty registry.
func (r *Registry) Load() error {
	var f registryFile
	if err := ReadJSON(r.path, &f); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.companies = map[string]domain.Company{}
			return nil
		}
		return fmt.Errorf("registry load: %w", err)
	}
	r.companies = make(map[string]domain.Company, len(f.Companies))
	for _, c := range f.Companies {
		if c.Name != "" {
			r.companies[c.Key()] = c
		}
	}
	return nil
}

// Save writes the registry via temp file and rename.
func (r *Registry) Save() error {
	f := registryFile{Companies: r.List(), UpdatedAt: r.now().UTC().Truncate(time.Second)}
	if err := WriteJSON(r.path, f); err != nil {
		return fmt.Errorf("registry save: %w", err)
	}
	return nil
}

// Close releases the lock. The registry must not be used afterwards.
func (r *Registry) Close() error {
	if r.lock == nil {
		return nil
	}
	err := r.lock.Unlock()
	r.lock = nil
	return err
}

func (r *Registry) Get(name string) (domain.Company, bool) {
	c, ok := r.companies[domain.CompanyKey(name)]
	return c, ok
}

// Upsert adds c or replaces the entry with the same case-insensitive name.
// A known vendor and crawl time survive when c does not carry them.
func (r *Registry) Upsert(c domain.Company) error {
	if c.Name == "" {
		return errors.New("registry upsert: company name is required")
	}
	if old, ok := r.companies[c.Key()]; ok {
		if c.ATSType == domain.VendorUnknown {
			c.ATSType = old.ATSType
		}
		if c.LastCrawled == nil {
			c.LastCrawled = old.LastCrawled
		}
	}
	r.companies[c.Key()] = c
	return r.Save()
}

// Remove deletes name and reports whether it was present.
func (r *Registry) Remove(name string) (bool, error) {
	key := domain.CompanyKey(name)
	if _, ok := r.companies[key]; !ok {
		return false, nil
	}
	delete(r.companies, key)
	return true, r.Save()
}

// List returns all companies sorted by name.
func (r *Registry) List() []domain.Company {
	out := make([]domain.Company, 0, len(r.companies))
	for _, c := range r.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

func (r *Registry) SetVendor(name string, v domain.Vendor) error {
	c, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("registry set vendor: unknown company %q", name)
	}
	c.ATSType = v
	r.companies[c.Key()] = c
	return r.Save()
}

func (r *Registry) MarkCrawled(name string, t time.Time) error {
	c, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("registry mark crawled: unknown company %q", name)
	}
	t = t.UTC().Truncate(time.Second)
	c.LastCrawled = &t
	r.companies[c.Key()] = c
	return r.Save()
}
