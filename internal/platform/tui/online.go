package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/input"
	"github.com/vovakirdan/ringout/internal/multiplayer"
	"github.com/vovakirdan/ringout/internal/session"
)

// Online connects an App to the server's coordinator.
type Online struct {
	Coordinator *multiplayer.Coordinator
	Session     *multiplayer.ChannelSession
}

// lobbyState is where a session is in the online flow.
type lobbyState int

const (
	lobbyIdle      lobbyState = iota
	lobbyEnterCode            // Typing a join code
	lobbyJoining              // Code sent, waiting for the match
	lobbyOpening              // Lobby requested
	lobbyHosting              // Code shown, waiting for an opponent
	lobbyPlaying
	lobbyEnded
	lobbyClosed // Lobby failed or expired
)

// onlineEventMsg wraps a coordinator event for Bubble Tea.
type onlineEventMsg struct {
	evt multiplayer.SessionEvent
}

// listen waits for the next coordinator event.
func listen(s *multiplayer.ChannelSession) tea.Cmd {
	return func() tea.Msg {
		select {
		case evt := <-s.Events():
			return onlineEventMsg{evt: evt}
		case <-s.Done():
			return nil
		}
	}
}

// remoteMatch is the client side of an online match: it shows the server's
// snapshots and sends this keyboard's frames.
type remoteMatch struct {
	id       multiplayer.MatchID
	side     core.PlayerID
	feed     *KeyFeed
	screen   *core.Screen
	snap     session.Snapshot
	live     bool // At least one snapshot arrived
	splashes []splash
	sent     input.RawFrame
	result   *session.MatchResult
}

// onlineView drives hosting, joining and playing online.
type onlineView struct {
	coord    *multiplayer.Coordinator
	sess     *multiplayer.ChannelSession
	bindings [core.PlayerCount]input.Bindings

	state   lobbyState
	code    string
	stageID string
	message string
	input   textinput.Model
	match   *remoteMatch
}

func newOnlineView(o *Online, bindings [core.PlayerCount]input.Bindings) *onlineView {
	ti := textinput.New()
	ti.Placeholder = "ABC234"
	ti.CharLimit = multiplayer.CodeLength
	ti.Width = multiplayer.CodeLength + 2
	ti.Prompt = "code> "
	return &onlineView{
		coord:    o.Coordinator,
		sess:     o.Session,
		bindings: bindings,
		input:    ti,
	}
}

func (o *onlineView) send(msg multiplayer.CoordinatorMessage) {
	o.coord.Send(msg)
}

// host asks for a lobby on a stage.
func (o *onlineView) host(stageID string) {
	o.reset()
	o.state = lobbyOpening
	o.stageID = stageID
	o.send(multiplayer.CreateLobbyMsg{SessionID: o.sess.ID(), StageID: stageID})
}

// join starts code entry.
func (o *onlineView) join() tea.Cmd {
	o.reset()
	o.state = lobbyEnterCode
	o.input.Reset()
	return o.input.Focus()
}

// leave abandons whatever the session is doing online.
func (o *onlineView) leave() {
	switch o.state {
	case lobbyOpening, lobbyHosting:
		o.send(multiplayer.LeaveLobbyMsg{SessionID: o.sess.ID()})
	case lobbyPlaying:
		o.send(multiplayer.LeaveMatchMsg{SessionID: o.sess.ID()})
	}
	o.reset()
}

func (o *onlineView) reset() {
	o.state = lobbyIdle
	o.code, o.stageID, o.message = "", "", ""
	o.match = nil
	o.input.Blur()
}

// submit sends the typed code.
func (o *onlineView) submit() {
	code := multiplayer.NormalizeCode(o.input.Value())
	if len(code) != multiplayer.CodeLength {
		o.message = fmt.Sprintf("codes have %d characters", multiplayer.CodeLength)
		return
	}
	o.code = code
	o.message = ""
	o.state = lobbyJoining
	o.input.Blur()
	o.send(multiplayer.JoinLobbyMsg{SessionID: o.sess.ID(), Code: code})
}

func (o *onlineView) handleEvent(evt multiplayer.SessionEvent, cols, rows int) {
	switch e := evt.(type) {
	case multiplayer.LobbyCreatedEvent:
		if o.state == lobbyOpening {
			o.state = lobbyHosting
			o.code = e.Code
		}
	case multiplayer.LobbyErrorEvent:
		o.message = e.Message
		switch o.state {
		case lobbyJoining:
			o.state = lobbyEnterCode
			o.input.Focus()
		case lobbyOpening:
			o.state = lobbyClosed
		}
	case multiplayer.LobbyClosedEvent:
		if o.state == lobbyHosting || o.state == lobbyJoining {
			o.state = lobbyClosed
			o.message = "Lobby closed: " + e.Reason
		}
	case multiplayer.MatchStartedEvent:
		if o.state != lobbyHosting && o.state != lobbyJoining {
			// Nobody is waiting for this match any more.
			o.send(multiplayer.LeaveMatchMsg{SessionID: o.sess.ID()})
			return
		}
		o.state = lobbyPlaying
		o.code, o.stageID = e.Code, e.StageID
		o.match = &remoteMatch{
			id:     e.MatchID,
			side:   e.Side,
			feed:   NewKeyFeed(o.bindings),
			screen: core.NewScreen(cols, rows),
		}
	case multiplayer.SnapshotEvent:
		if m := o.match; m != nil && m.id == e.MatchID {
			m.snap, m.live = e.Snapshot, true
			m.splashes = ageSplashes(m.splashes, e.Events)
		}
	case multiplayer.MatchEndedEvent:
		if m := o.match; m != nil && m.id == e.MatchID {
			res := e.Result
			m.result = &res
			o.state = lobbyEnded
		}
	}
}

// step sends this tick's controls when they changed. Either player's keys
// steer the session's own fighter.
func (o *onlineView) step() {
	m := o.match
	if o.state != lobbyPlaying || m == nil {
		return
	}
	frames := m.feed.Frames()
	f := mergeFrames(frames[core.Player1], frames[core.Player2])
	if f == m.sent {
		return
	}
	m.sent = f
	o.send(multiplayer.PlayerInputMsg{SessionID: o.sess.ID(), Frame: f})
}

func mergeFrames(a, b input.RawFrame) input.RawFrame {
	out := input.RawFrame{
		Move: clampStick(a.Move.Add(b.Move)),
		Aim:  clampStick(a.Aim.Add(b.Aim)),
	}
	for i := range out.Held {
		out.Held[i] = a.Held[i] || b.Held[i]
	}
	return out
}

func (o *onlineView) resize(cols, rows int) {
	if o.match != nil {
		o.match.screen.Resize(cols, rows)
	}
}

// resultText describes a finished match from this session's side.
func resultText(res session.MatchResult, side core.PlayerID) string {
	switch {
	case !res.HasWin:
		return "Match cancelled"
	case res.Winner == side && res.Reason == session.EndReasonForfeit:
		return "Your opponent left. You win!"
	case res.Winner == side:
		return "You win!"
	default:
		return "You lose"
	}
}

func (o *onlineView) view(width int) string {
	if m := o.match; m != nil && m.live && (o.state == lobbyPlaying || o.state == lobbyEnded) {
		var tags [core.PlayerCount]string
		tags[m.side], tags[m.side.Other()] = "you", "online"
		drawGame(m.screen, m.snap, m.splashes)
		out := hudView(m.snap, tags, width) + "\n" + RenderScreen(m.screen)
		if m.result != nil {
			out += "\n" + centerText(hudAlert.Render(resultText(*m.result, m.side))+hudDim.Render("  enter: continue"), width)
		}
		return out
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("O N L I N E"), width))
	b.WriteString("\n\n")

	var lines []string
	switch o.state {
	case lobbyEnterCode:
		lines = []string{"Enter the join code your opponent shared:", "", o.input.View()}
	case lobbyJoining:
		lines = []string{"Joining " + o.code + "..."}
	case lobbyOpening:
		lines = []string{"Opening a lobby on " + o.stageID + "..."}
	case lobbyHosting:
		lines = []string{
			"Your join code",
			"",
			cursorStyle.Render(o.code),
			"",
			"Share it; the match starts when someone joins.",
		}
	case lobbyPlaying:
		lines = []string{"Match starting..."}
	default:
		lines = []string{"Press enter to return to the menu."}
	}
	for _, l := range lines {
		b.WriteString(centerText(l, width))
		b.WriteString("\n")
	}
	if o.message != "" {
		b.WriteString("\n")
		b.WriteString(centerText(statusStyle.Render(o.message), width))
		b.WriteString("\n")
	}
	return b.String()
}
