package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"jobforge/internal/domain"
)

// ProjectDirs are created by Scaffold under the project root.
var ProjectDirs = []string{
	"career",
	"config",
	"results/jobs",
	"results/matches",
	"results/resumes",
	"results/aggregators",
	"templates/resume-types",
}

const exampleCareer = `# 2024 Work Experience

## Your Title at Company Name (Start Date - Present)

### Responsibilities
- Describe your main responsibilities
- What you work on day-to-day
- Team size and collaboration

### Key Achievements
- Built something measurable and describe its impact
- Led a project and quantify the result
- Reduced cost or latency and say by how much

### Technologies Used
**Languages**: Python, Go, JavaScript
**Frameworks**: React, Django
**Cloud**: AWS, GCP
**Tools**: Docker, Kubernetes

### Projects
1. **Project Name**: Brief description and impact
2. **Another Project**: What you built and why
`

// ExampleSettings is what init --example writes to config/settings.yaml.
func ExampleSettings() Settings {
	s := Default()
	s.JobTitles = []string{"Software Engineer", "Machine Learning Engineer"}
	s.Locations = []string{"California", "Remote"}
	s.ExcludeLevels = []string{"junior", "intern"}
	s.MinMatchScore = 60
	return s
}

func ExampleCompanies() CompaniesFile {
	return CompaniesFile{Companies: []CompanyEntry{
		{Name: "Stripe", CareerURL: "https://boards.greenhouse.io/stripe", ATSType: domain.VendorGreenhouse.String()},
		{Name: "Netflix", CareerURL: "https://jobs.lever.co/netflix", ATSType: domain.VendorLever.String()},
		{Name: "OpenAI", CareerURL: "https://jobs.ashbyhq.com/openai", ATSType: domain.VendorAshby.String()},
		{Name: "NVIDIA", CareerURL: "https://nvidia.wd5.myworkdayjobs.com/NVIDIAExternalCareerSite", ATSType: domain.VendorWorkday.String()},
		{Name: "Amazon", CareerURL: "https://www.amazon.jobs", ATSType: domain.VendorAmazon.String()},
		{Name: "Acme Robotics", CareerURL: "https://example.com/careers"},
	}}
}

// Scaffold creates the project layout under root. With example set it also
// writes a sample career file and config files, never overwriting existing
// ones. It returns the paths it created.
func Scaffold(root string, example bool) ([]string, error) {
	var created []string
	for _, d := range ProjectDirs {
		p := filepath.Join(root, d)
		if _, err := os.Stat(p); err == nil {
			continue
		}
		if err := os.MkdirAll(p, 0o755); err != nil {
			return created, fmt.Errorf("init mkdir %s: %w", p, err)
		}
		created = append(created, p+"/")
	}
	if !example {
		return created, nil
	}

	write := func(rel string, save func(string) error) error {
		p := filepath.Join(root, rel)
		if _, err := os.Stat(p); err == nil {
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := save(p); err != nil {
			return fmt.Errorf("init write %s: %w", p, err)
		}
		created = append(created, p)
		return nil
	}

	steps := []struct {
		rel  string
		save func(string) error
	}{
		{"career/2024.md", func(p string) error { return os.WriteFile(p, []byte(exampleCareer), 0o644) }},
		{"config/settings.yaml", func(p string) error { return SaveSettings(p, ExampleSettings()) }},
		{"config/companies.yaml", func(p string) error { return SaveAtomic(p, ExampleCompanies()) }},
	}
	for _, s := range steps {
		if err := write(s.rel, s.save); err != nil {
			return created, err
		}
	}
	return created, nil
}
