package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jobforge/internal/config"
)

var initExample bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the project directories and starter config",
	RunE: func(_ *cobra.Command, _ []string) error {
		created, err := config.Scaffold(".", initExample)
		for _, p := range created {
			fmt.Printf("   ✓ %s\n", p)
		}
		if err != nil {
			return err
		}
		if len(created) == 0 {
			fmt.Println("Nothing to do, project already initialized")
			return nil
		}
		color.Green("✅ Initialized")
		if initExample {
			fmt.Println("Next: edit career/*.md and config/companies.yaml, then run `jobforge discover`")
		}
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initExample, "example", false, "Also write an example career file and config")
}
