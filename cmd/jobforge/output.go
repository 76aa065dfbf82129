package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"jobforge/internal/rank"
)

func rule(n int) string { return strings.Repeat("=", n) }

func scoreString(score int) string {
	switch {
	case score >= 80:
		return color.GreenString("%d%%", score)
	case score >= 60:
		return color.YellowString("%d%%", score)
	default:
		return color.RedString("%d%%", score)
	}
}

func printScored(i int, s rank.Scored) {
	fmt.Printf("\n%d. %s - %s\n", i, color.CyanString(s.Company), s.Title)
	fmt.Printf("   Score: %s %s\n", scoreString(s.Score), rank.Stars(s.Score))
	if s.Location != "" {
		fmt.Printf("   Location: %s\n", s.Location)
	}
	if len(s.MatchedSkills) > 0 {
		skills := s.MatchedSkills
		if len(skills) > 5 {
			skills = skills[:5]
		}
		fmt.Printf("   Skills: %s\n", strings.Join(skills, ", "))
	}
	fmt.Printf("   URL: %s\n", s.URL)
}
