package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ringout/internal/registry"
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List all available stages",
	Long:  `Shows a list of all stages registered in ringout.`,
	Args:  cobra.NoArgs,
	Run:   runStages,
}

func runStages(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	stages := registry.List()
	if len(stages) == 0 {
		fmt.Fprintln(out, "No stages available.")
		return
	}

	fmt.Fprintln(out, "Available stages:")
	fmt.Fprintln(out)

	maxIDLen := 2 // "ID" header
	for _, s := range stages {
		maxIDLen = max(maxIDLen, len(s.ID))
	}

	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, s := range stages {
		fmt.Fprintf(out, "  %-*s  %s\n", maxIDLen, s.ID, s.Title)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'ringout play <id>' to play a stage.")
}
