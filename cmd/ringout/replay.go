package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/input"
	"github.com/vovakirdan/ringout/internal/session"
	"github.com/vovakirdan/ringout/internal/storage"
)

var (
	flagReplayStage string
	flagReplayCPU   bool
	flagMaxTicks    uint64
	flagSave        bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <p1-trace> [p2-trace]",
	Short: "Run recorded input headlessly",
	Long: `Play recorded input traces against each other as fast as possible
and print the outcome. Player 2 stands still unless a second trace or
--cpu is given.

A trace is a YAML file of stick samples and pressed buttons:

  name: rush
  samples:
    - {x: 1, repeat: 30}
    - {press: [attack], repeat: 2}

Examples:
  ringout replay rush.yaml
  ringout replay rush.yaml --cpu --stage skyway
  ringout replay p1.yaml p2.yaml --seed 42 --save`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&flagReplayStage, "stage", "", "Stage to play (default from config)")
	replayCmd.Flags().BoolVar(&flagReplayCPU, "cpu", false, "Player 2 is controlled by the computer")
	replayCmd.Flags().Uint64Var(&flagMaxTicks, "max-ticks", 60*60*5, "Stop after this many ticks")
	replayCmd.Flags().BoolVar(&flagSave, "save", false, "Record the result in the history database")
}

func runReplay(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger(os.Stderr)
	defer closeLog()

	stageID := flagReplayStage
	if stageID == "" {
		stageID = cfg.Match.Stage
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	game, err := session.NewForStage(stageID, cfg, core.RuntimeConfig{TickRate: flagFPS, Seed: seed}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var pilots [core.PlayerCount]session.Pilot
	for i, path := range args {
		trace, err := input.LoadTrace(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		pilots[i] = session.NewTracePilot(trace)
	}
	switch {
	case pilots[core.Player2] != nil:
	case flagReplayCPU:
		pilots[core.Player2] = session.NewBot(seed, session.DefaultBotSkill)
	default:
		pilots[core.Player2] = session.Idle{}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := session.NewRunner(game, 0, logger)
	runner.Observe(func(step session.StepResult) {
		if flagMaxTicks > 0 && step.Tick >= flagMaxTicks {
			cancel()
		}
	})

	var saveErr error
	res := runner.Run(ctx, pilots, func(mr session.MatchResult) {
		if !flagSave {
			return
		}
		store, err := storage.Open(flagDBPath)
		if err != nil {
			saveErr = err
			return
		}
		defer store.Close()
		saveErr = store.SaveMatchResult(mr)
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Match %s on %s\n", res.MatchID, game.Stage().Title)
	fmt.Fprintf(out, "  End:    %s after %d ticks (%s)\n", res.Reason, res.Ticks, res.Duration.Round(time.Millisecond))
	if res.HasWin {
		fmt.Fprintf(out, "  Winner: %s\n", res.Winner)
	} else {
		fmt.Fprintln(out, "  Winner: none")
	}
	fmt.Fprintf(out, "  Lives:  %d - %d\n", res.Lives[core.Player1], res.Lives[core.Player2])

	if saveErr != nil {
		fmt.Fprintf(os.Stderr, "Error saving match: %v\n", saveErr)
		os.Exit(1)
	}
}
