package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/platform/tui"
	"github.com/vovakirdan/ringout/internal/registry"
	"github.com/vovakirdan/ringout/internal/storage"
)

var flagCPU bool

var playCmd = &cobra.Command{
	Use:   "play [stage]",
	Short: "Play a match",
	Long: `Start a match on the given stage, or open the menu when no stage
is given. Both players share the keyboard unless --cpu is set.

Default controls:
  Player 1  move W/A/S/D  attack F  shoot G  defend H  jump Space
  Player 2  move arrows   attack .  shoot ,  defend /  jump Enter
  Shift + direction walks slowly; tapping a direction dashes.
  Esc leaves the match, Ctrl+C quits.

Examples:
  ringout play dojo
  ringout play skyway --cpu
  ringout play dojo --config ./my-keys.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagCPU, "cpu", false, "Player 2 is controlled by the computer")
}

func runPlay(_ *cobra.Command, args []string) {
	stageID := ""
	if len(args) > 0 {
		stageID = args[0]
		if !registry.Exists(stageID) {
			fmt.Fprintf(os.Stderr, "Error: unknown stage %q\n", stageID)
			fmt.Fprintln(os.Stderr, "Run 'ringout stages' to see available stages.")
			os.Exit(1)
		}
	}

	cfg := loadConfig()
	logger, closeLog := newLogger(nil)
	defer closeLog()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		store = nil
	}

	runErr := tui.Run(tui.Options{
		Config: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Store:  store,
		CPU:    flagCPU,
		Stage:  stageID,
		Logger: logger,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
