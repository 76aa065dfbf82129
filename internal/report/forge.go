package report

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"jobforge/internal/rank"
	"jobforge/internal/store"
)

type ForgeOptions struct {
	Top      int
	MinScore int
	OutDir   string
	// CareerDir holds the career/*.md files experience bullets come from.
	CareerDir string
	Years     int
}

// Forge writes a tailored markdown resume for each of the best scored jobs
// at or above MinScore and returns the paths written.
func Forge(scored []rank.Scored, opt ForgeOptions) ([]string, error) {
	picked := Select(scored, "", opt.MinScore)
	if opt.Top > 0 && len(picked) > opt.Top {
		picked = picked[:opt.Top]
	}
	if len(picked) == 0 {
		return nil, nil
	}

	experience, err := careerExperience(opt.CareerDir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, s := range picked {
		path := filepath.Join(opt.OutDir, ResumeName(s.Company, s.Title))
		if err := store.WriteFileAtomic(path, []byte(Resume(s, opt.Years, experience))); err != nil {
			return paths, fmt.Errorf("forge %s: %w", s.Company, err)
		}
		log.Printf("[forge] company=%q title=%q score=%d path=%q", s.Company, s.Title, s.Score, path)
		paths = append(paths, path)
	}
	return paths, nil
}

var impactWords = []string{"built", "led", "reduced", "improved", "launched"}

// careerExperience pulls "## Role at Company" headings and impact bullets
// from every career file. A missing directory yields no experience.
func careerExperience(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return "", fmt.Errorf("forge career glob: %w", err)
	}
	var lines []string
	for _, f := range files {
		b, err := os.ReadFile(f)
		if err != nil {
			return "", fmt.Errorf("forge career read: %w", err)
		}
		for _, line := range strings.Split(string(b), "\n") {
			line = strings.TrimRight(line, "\r")
			switch {
			case strings.HasPrefix(line, "##") && strings.Contains(line, " at "):
				lines = append(lines, "", "### "+strings.TrimSpace(strings.ReplaceAll(line, "#", "")))
			case strings.HasPrefix(line, "- "):
				bullet := strings.TrimSpace(line[2:])
				lower := strings.ToLower(bullet)
				for _, w := range impactWords {
					if strings.Contains(lower, w) {
						lines = append(lines, "- "+bullet)
						break
					}
				}
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

var skillCategories = []struct {
	name     string
	keywords []string
}{
	{"Languages", []string{"python", "java", "javascript", "typescript", "go", "rust", "c++"}},
	{"Cloud & Infrastructure", []string{"aws", "azure", "gcp", "docker", "kubernetes", "terraform"}},
	{"Databases", []string{"postgresql", "mysql", "mongodb", "redis", "dynamodb", "sql"}},
	{"Frameworks", []string{"react", "django", "flask", "spring", "node", "express"}},
	{"ML/AI", []string{"tensorflow", "pytorch", "machine learning", "deep learning", "nlp"}},
}

// SkillsByCategory groups skills under the first category naming them, one
// "**Category**: a, b" line per non-empty category.
func SkillsByCategory(skills []string) string {
	var out []string
	for _, cat := range skillCategories {
		var hit []string
		for _, s := range skills {
			l := strings.ToLower(s)
			for _, k := range cat.keywords {
				if l == k {
					hit = append(hit, s)
					break
				}
			}
		}
		if len(hit) > 0 {
			out = append(out, fmt.Sprintf("**%s**: %s", cat.name, strings.Join(hit, ", ")))
		}
	}
	return strings.Join(out, "\n")
}

func firstN(xs []string, n int) []string {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

// Resume renders the markdown resume for one scored job.
func Resume(s rank.Scored, years int, experience string) string {
	level := ""
	switch {
	case years >= 5:
		level = "Senior "
	case years >= 3:
		level = "Experienced "
	}
	top := strings.Join(firstN(s.MatchedSkills, 3), ", ")

	var b strings.Builder
	b.WriteString("# [Your Name]\n")
	b.WriteString("**Email**: your.email@example.com | **Phone**: (555) 123-4567 | **LinkedIn**: linkedin.com/in/yourprofile\n\n")
	fmt.Fprintf(&b, "**Target**: %s at %s | **Match Score**: %d%% | **Location**: %s\n\n",
		s.Title, s.Company, s.Score, orNA(s.Location))

	b.WriteString("## SUMMARY\n")
	fmt.Fprintf(&b, "%sSoftware Engineer with %d+ years building scalable systems. Proven track record of delivering high-impact solutions.", level, years)
	if top != "" {
		fmt.Fprintf(&b, " Strong expertise in %s.", top)
	}
	fmt.Fprintf(&b, " Seeking %s role at %s.\n\n", s.Title, s.Company)

	b.WriteString("## EXPERIENCE\n")
	if experience == "" {
		b.WriteString("[Add your experience from career/*.md files]\n\n")
	} else {
		b.WriteString(strings.TrimLeft(experience, "\n") + "\n\n")
	}

	b.WriteString("## TECHNICAL SKILLS\n")
	if sk := SkillsByCategory(s.MatchedSkills); sk != "" {
		b.WriteString(sk + "\n\n")
	} else {
		b.WriteString(strings.Join(s.MatchedSkills, ", ") + "\n\n")
	}

	b.WriteString("## EDUCATION\n**Bachelor of Science in Computer Science**\nUniversity Name, Year\n\n---\n\n")

	fmt.Fprintf(&b, "## WHY %s\n", strings.ToUpper(s.Company))
	fmt.Fprintf(&b, "Excited about the %s role because:\n", s.Title)
	if top != "" {
		fmt.Fprintf(&b, "- Strong alignment with %s\n", top)
	}
	fmt.Fprintf(&b, "- %d+ years relevant experience\n", years)
	b.WriteString("- Proven track record in similar roles\n\n")
	fmt.Fprintf(&b, "**Apply**: %s\n", orNA(s.URL))
	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
