package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is config/settings.yaml. Fields missing from the file keep the
// values from Default.
type Settings struct {
	JobTitles     []string `yaml:"job_titles"`
	Locations     []string `yaml:"locations"`
	ExcludeLevels []string `yaml:"exclude_levels"`
	MinMatchScore float64  `yaml:"min_match_score"`
	TitleMinScore float64  `yaml:"title_min_score"`

	Discovery Discovery `yaml:"discovery"`
	Browser   Browser   `yaml:"browser"`
	Scoring   Scoring   `yaml:"scoring"`
}

type Discovery struct {
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	UserAgent         string  `yaml:"user_agent"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	OutputDir         string  `yaml:"output_dir"`
	RegistryPath      string  `yaml:"registry_path"`
	WorkdayMaxOffset  int     `yaml:"workday_max_offset"`
	AmazonMaxOffset   int     `yaml:"amazon_max_offset"`
}

type Browser struct {
	Enabled           bool `yaml:"enabled"`
	Headless          bool `yaml:"headless"`
	NavTimeoutSeconds int  `yaml:"nav_timeout_seconds"`
	UberMaxClicks     int  `yaml:"uber_max_clicks"`
	MetaMaxScrolls    int  `yaml:"meta_max_scrolls"`
	MetaMaxIdle       int  `yaml:"meta_max_idle"`
	TikTokMaxPages    int  `yaml:"tiktok_max_pages"`
	GoogleMaxPages    int  `yaml:"google_max_pages"`
	GenericMaxScrolls int  `yaml:"generic_max_scrolls"`
	GenericMaxIdle    int  `yaml:"generic_max_idle"`
}

// Scoring holds the match weights. Keys missing from the file keep their
// defaults; an explicit 0 turns a component off.
type Scoring struct {
	Skills          float64 `yaml:"skills"`
	Title           float64 `yaml:"title"`
	RoleBoost       float64 `yaml:"role_boost"`
	Seniority       float64 `yaml:"seniority"`
	Alignment       float64 `yaml:"seniority_alignment"`
	Remote          float64 `yaml:"remote"`
	MismatchPenalty float64 `yaml:"mismatch_penalty"`
}

func Default() Settings {
	return Settings{
		MinMatchScore: 40,
		TitleMinScore: 0.7,
		Discovery: Discovery{
			TimeoutSeconds:    30,
			RequestsPerSecond: 2,
			Burst:             2,
			OutputDir:         "results/jobs",
			RegistryPath:      "results/registry.json",
			WorkdayMaxOffset:  5000,
			AmazonMaxOffset:   15000,
		},
		Browser: Browser{
			Enabled:           true,
			Headless:          true,
			NavTimeoutSeconds: 30,
			UberMaxClicks:     100,
			MetaMaxScrolls:    50,
			MetaMaxIdle:       3,
			TikTokMaxPages:    500,
			GoogleMaxPages:    200,
			GenericMaxScrolls: 10,
			GenericMaxIdle:    2,
		},
		Scoring: Scoring{
			Skills:          40,
			Title:           40,
			RoleBoost:       15,
			Seniority:       10,
			Alignment:       10,
			Remote:          5,
			MismatchPenalty: 20,
		},
	}
}

func (d Discovery) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

func (b Browser) NavTimeout() time.Duration {
	return time.Duration(b.NavTimeoutSeconds) * time.Second
}

// LoadSettings reads path over Default. A missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[config] %s not found, using defaults", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("config read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config parse %s: %w", path, err)
	}
	return cfg, nil
}
