package session

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/input"
)

// EndReason describes why a match stopped.
type EndReason int

const (
	EndReasonCompleted EndReason = iota // A player ran out of lives
	EndReasonCancelled                  // Context cancelled or player quit
	EndReasonExhausted                  // Every pilot ran out of input
	EndReasonForfeit                    // A remote player left; the other wins
)

// String returns a human-readable end reason.
func (r EndReason) String() string {
	switch r {
	case EndReasonCompleted:
		return "completed"
	case EndReasonCancelled:
		return "cancelled"
	case EndReasonExhausted:
		return "exhausted"
	case EndReasonForfeit:
		return "forfeit"
	default:
		return "unknown"
	}
}

// MatchResult contains the outcome of a finished or abandoned match.
type MatchResult struct {
	MatchID  uuid.UUID
	StageID  string
	Reason   EndReason
	Winner   core.PlayerID
	HasWin   bool // False when the match stopped without a winner
	Lives    [core.PlayerCount]int
	Ticks    uint64
	Duration time.Duration // Simulated time
}

// ResultSaver persists finished matches.
type ResultSaver interface {
	SaveMatchResult(MatchResult) error
}

// Result summarises the game's current state.
func (g *Game) Result(id uuid.UUID, reason EndReason) MatchResult {
	r := MatchResult{
		MatchID:  id,
		StageID:  g.stage.ID,
		Reason:   reason,
		Ticks:    g.tick,
		Duration: g.Elapsed(),
	}
	r.Winner, r.HasWin = g.ctrl.Winner()
	for i, a := range g.avatars {
		r.Lives[i] = a.Lives
	}
	return r
}

// Runner drives a game from pilots, either paced by a ticker or as fast as
// possible.
type Runner struct {
	id       uuid.UUID
	game     *Game
	tickRate int
	logger   *log.Logger
	observer func(StepResult)
}

// NewRunner creates a runner. tickRate <= 0 runs unpaced. A nil logger
// discards output.
func NewRunner(game *Game, tickRate int, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		id:       uuid.New(),
		game:     game,
		tickRate: tickRate,
		logger:   logger,
	}
}

// ID returns the match identifier.
func (r *Runner) ID() uuid.UUID {
	return r.id
}

// Game returns the driven game.
func (r *Runner) Game() *Game {
	return r.game
}

// Observe registers a callback invoked after every step.
func (r *Runner) Observe(fn func(StepResult)) {
	r.observer = fn
}

// Run steps the game until a winner is decided, every pilot is exhausted or
// ctx is cancelled. onComplete receives the result in every case.
func (r *Runner) Run(ctx context.Context, pilots [core.PlayerCount]Pilot, onComplete func(MatchResult)) MatchResult {
	var tick <-chan time.Time
	if r.tickRate > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
		defer ticker.Stop()
		tick = ticker.C
	}

	r.logger.Info("match started", "id", r.id, "stage", r.game.stage.ID)

	finish := func(reason EndReason) MatchResult {
		res := r.game.Result(r.id, reason)
		r.logger.Info("match finished", "id", r.id, "reason", reason, "ticks", res.Ticks)
		if onComplete != nil {
			onComplete(res)
		}
		return res
	}

	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return finish(EndReasonCancelled)
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return finish(EndReasonCancelled)
		}

		frames, live := r.collect(pilots)
		if !live {
			return finish(EndReasonExhausted)
		}

		step := r.game.Step(frames)
		if r.observer != nil {
			r.observer(step)
		}
		if step.Ended {
			return finish(EndReasonCompleted)
		}
	}
}

// collect gathers one frame per pilot. live is false when no pilot produced
// input.
func (r *Runner) collect(pilots [core.PlayerCount]Pilot) (frames [core.PlayerCount]input.RawFrame, live bool) {
	for i, p := range pilots {
		if p == nil {
			continue
		}
		f, ok := p.Frame(r.game, core.PlayerID(i))
		if ok {
			frames[i] = f
			live = true
		}
	}
	return frames, live
}
