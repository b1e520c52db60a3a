package multiplayer

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/input"
	"github.com/vovakirdan/ringout/internal/session"
)

// remotePilot plays the frames a session sends over the wire.
type remotePilot struct {
	mu    sync.Mutex
	last  input.RawFrame
	next  input.RawFrame
	fresh bool
}

func (p *remotePilot) push(f input.RawFrame) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.fresh {
		p.next, p.fresh = f, true
		return
	}
	p.next.Move = f.Move
	p.next.Aim = f.Aim
	for b, held := range f.Held {
		if held {
			p.next.Held[b] = true
		}
	}
}

// Frame implements session.Pilot. Frames that arrived since the last tick
// are merged so a short press survives; with nothing new the last frame
// repeats.
func (p *remotePilot) Frame(*session.Game, core.PlayerID) (input.RawFrame, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fresh {
		p.last, p.fresh = p.next, false
	}
	return p.last, true
}

// OnlineMatch is one authoritative match between two sessions. The host
// plays Player 1.
type OnlineMatch struct {
	code   string
	runner *session.Runner
	seats  [core.PlayerCount]SessionHandle
	pilots [core.PlayerCount]*remotePilot
	leave  chan SessionID
	logger *log.Logger
}

// NewOnlineMatch prepares a match. It does not start until Run.
func NewOnlineMatch(code string, game *session.Game, host, joiner SessionHandle, tickRate int, logger *log.Logger) *OnlineMatch {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &OnlineMatch{
		code:   code,
		runner: session.NewRunner(game, tickRate, logger),
		seats:  [core.PlayerCount]SessionHandle{host, joiner},
		leave:  make(chan SessionID, core.PlayerCount),
		logger: logger,
	}
	for i := range m.pilots {
		m.pilots[i] = &remotePilot{}
	}
	return m
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.runner.ID()
}

// Code returns the join code the match was made from.
func (m *OnlineMatch) Code() string {
	return m.code
}

// StageID returns the stage being played.
func (m *OnlineMatch) StageID() string {
	return m.runner.Game().Stage().ID
}

// Seats returns the sessions by side.
func (m *OnlineMatch) Seats() [core.PlayerCount]SessionHandle {
	return m.seats
}

// Side returns the side a session plays.
func (m *OnlineMatch) Side(id SessionID) (core.PlayerID, bool) {
	for i, s := range m.seats {
		if s.ID() == id {
			return core.PlayerID(i), true
		}
	}
	return 0, false
}

// SendInput queues a frame for one side. Safe for concurrent use.
func (m *OnlineMatch) SendInput(side core.PlayerID, f input.RawFrame) {
	if side.Valid() {
		m.pilots[side].push(f)
	}
}

// PlayerLeft forfeits the match on behalf of a session.
func (m *OnlineMatch) PlayerLeft(id SessionID) {
	select {
	case m.leave <- id:
	default:
	}
}

// Run plays the match until a player wins, a player leaves or ctx is
// cancelled, broadcasting a snapshot to both seats every tick. A player
// who leaves forfeits to the other.
func (m *OnlineMatch) Run(ctx context.Context, onComplete func(session.MatchResult)) session.MatchResult {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg     sync.WaitGroup
		leaver SessionID
		left   bool
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case id := <-m.leave:
			leaver = id
		case <-m.seats[core.Player1].Done():
			leaver = m.seats[core.Player1].ID()
		case <-m.seats[core.Player2].Done():
			leaver = m.seats[core.Player2].ID()
		case <-ctx.Done():
			return
		}
		left = true
		cancel()
	}()

	game := m.runner.Game()
	m.runner.Observe(func(step session.StepResult) {
		evt := SnapshotEvent{MatchID: m.ID(), Snapshot: game.Snapshot(), Events: step.Events}
		for _, s := range m.seats {
			s.Send(evt)
		}
	})

	pilots := [core.PlayerCount]session.Pilot{m.pilots[core.Player1], m.pilots[core.Player2]}
	res := m.runner.Run(ctx, pilots, nil)
	cancel()
	wg.Wait()

	if left && res.Reason == session.EndReasonCancelled {
		if side, ok := m.Side(leaver); ok {
			res.Reason = session.EndReasonForfeit
			res.Winner, res.HasWin = side.Other(), true
			m.logger.Info("player left match", "id", m.ID(), "side", side)
		}
	}

	if onComplete != nil {
		onComplete(res)
	}
	return res
}
