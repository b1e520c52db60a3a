package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ringout/internal/registry"
	"github.com/vovakirdan/ringout/internal/storage"
)

var (
	flagLimit int
	flagClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history [stage]",
	Short: "Show recent matches",
	Long: `Display the most recent matches, for one stage or for all of them,
followed by per-stage win counts.

Examples:
  ringout history
  ringout history dojo --limit 5
  ringout history skyway --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of matches to show")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the history instead of showing it")
}

func runHistory(_ *cobra.Command, args []string) {
	stageID := ""
	if len(args) > 0 {
		stageID = args[0]
		if !registry.Exists(stageID) {
			fmt.Fprintf(os.Stderr, "Error: unknown stage %q\n", stageID)
			fmt.Fprintln(os.Stderr, "Run 'ringout stages' to see available stages.")
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearMatches(stageID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing history: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("History cleared.")
		return
	}

	matches, err := store.RecentMatches(stageID, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving matches: %v\n", err)
		os.Exit(1)
	}

	title := "all stages"
	if stageID != "" {
		title = stageID
	}
	fmt.Printf("Recent matches - %s\n", title)
	fmt.Println()

	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'ringout play' to record the first one!")
		return
	}

	fmt.Printf("  %-16s  %-10s  %-8s  %-5s  %-8s  %s\n", "Date", "Stage", "Winner", "Lives", "Time", "End")
	fmt.Printf("  %-16s  %-10s  %-8s  %-5s  %-8s  %s\n", "----", "-----", "------", "-----", "----", "---")
	for _, m := range matches {
		winner := "-"
		if m.Winner > 0 {
			winner = fmt.Sprintf("P%d", m.Winner)
		}
		fmt.Printf("  %-16s  %-10s  %-8s  %-5s  %-8s  %s\n",
			m.CreatedAt.Format("2006-01-02 15:04"),
			m.StageID,
			winner,
			fmt.Sprintf("%d-%d", m.Lives1, m.Lives2),
			m.Duration.Round(100*time.Millisecond).String(),
			m.Reason,
		)
	}

	stats, err := store.AllStageStats()
	if err != nil {
		return
	}
	fmt.Println()
	for _, s := range registry.List() {
		st, ok := stats[s.ID]
		if !ok || (stageID != "" && stageID != s.ID) {
			continue
		}
		fmt.Printf("%s: %d matches, P1 %d wins, P2 %d wins, avg %s\n",
			s.Title, st.Matches, st.Wins[0], st.Wins[1], st.AvgDuration.Round(100*time.Millisecond))
	}
}
