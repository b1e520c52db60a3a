// ringout is a two-player platform fighter for the terminal: knock your
// rival off the stage until they run out of lives.
//
// Usage:
//
//	ringout                  - Open the menu
//	ringout play [stage]     - Play a stage directly (menu when omitted)
//	ringout stages           - List available stages
//	ringout history [stage]  - Show recent matches
//	ringout replay <trace>   - Run recorded input headlessly
//	ringout serve            - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 60)
//	--seed <value>   - Set RNG seed for reproducible matches
//	--db <path>      - Set database path (default: ~/.ringout/history.db)
//	--config <path>  - Use a custom configuration file
//	--log <path>     - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/ringout/internal/config"

	// Import stages to register them
	_ "github.com/vovakirdan/ringout/internal/stages"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagConfig  string
	flagLogPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ringout",
	Short: "Ringout - a terminal platform fighter for two",
	Long: `Ringout is a two-player platform fighter played on one keyboard.
Knock your rival past the edge of the stage; the last fighter with
lives left wins.

Available commands:
  play     - Play a stage directly
  stages   - Show all available stages
  history  - View recent matches
  replay   - Run recorded input without a terminal UI
  serve    - Start SSH server for remote play

Examples:
  ringout
  ringout play dojo
  ringout play skyway --cpu
  ringout history dojo
  ringout serve --ssh :2222`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.ringout/history.db", "Path to match history database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(stagesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads the configuration or exits.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger writes to --log when given. Otherwise it writes to fallback,
// which may be nil to discard.
func newLogger(fallback io.Writer) (*log.Logger, func()) {
	if flagLogPath != "" {
		f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "ringout"})
		return logger, func() { f.Close() }
	}
	if fallback == nil {
		fallback = io.Discard
	}
	return log.NewWithOptions(fallback, log.Options{Prefix: "ringout"}), func() {}
}
