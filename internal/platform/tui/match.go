package tui

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/input"
	"github.com/vovakirdan/ringout/internal/session"
)

// liveMatch is a game driven by the keyboard and, optionally, bots.
type liveMatch struct {
	id       uuid.UUID
	game     *session.Game
	feed     *KeyFeed
	pilots   [core.PlayerCount]session.Pilot // Nil slots read the keyboard
	screen   *core.Screen
	splashes []splash
	done     bool // Result already reported
}

func newLiveMatch(game *session.Game, bindings [core.PlayerCount]input.Bindings, pilots [core.PlayerCount]session.Pilot, cols, rows int) *liveMatch {
	return &liveMatch{
		id:     uuid.New(),
		game:   game,
		feed:   NewKeyFeed(bindings),
		pilots: pilots,
		screen: core.NewScreen(cols, rows),
	}
}

// tags labels the players that are not on the keyboard.
func (m *liveMatch) tags() [core.PlayerCount]string {
	var out [core.PlayerCount]string
	for i, p := range m.pilots {
		if p != nil {
			out[i] = "CPU"
		}
	}
	return out
}

// step advances the game one tick.
func (m *liveMatch) step() session.StepResult {
	frames := m.feed.Frames()
	for i, p := range m.pilots {
		if p == nil {
			continue
		}
		f, ok := p.Frame(m.game, core.PlayerID(i))
		if !ok {
			f = input.RawFrame{}
		}
		frames[i] = f
	}
	res := m.game.Step(frames)
	m.splashes = ageSplashes(m.splashes, res.Events)
	return res
}

// finish reports the result once. Matches abandoned before the first tick
// are not reported.
func (m *liveMatch) finish(reason session.EndReason, saver session.ResultSaver, logger *log.Logger) {
	if m.done {
		return
	}
	m.done = true
	res := m.game.Result(m.id, reason)
	if res.Ticks == 0 || saver == nil {
		return
	}
	if err := saver.SaveMatchResult(res); err != nil {
		logger.Warn("could not save match", "id", m.id, "error", err)
	}
}

func (m *liveMatch) view(width int) string {
	snap := m.game.Snapshot()
	drawGame(m.screen, snap, m.splashes)
	return hudView(snap, m.tags(), width) + "\n" + RenderScreen(m.screen)
}
