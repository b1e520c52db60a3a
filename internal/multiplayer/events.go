package multiplayer

import (
	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/input"
	"github.com/vovakirdan/ringout/internal/match"
	"github.com/vovakirdan/ringout/internal/session"
)

// SessionEvent is sent from the coordinator to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent tells the host its join code.
type LobbyCreatedEvent struct {
	Code    string
	StageID string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent reports a failed lobby request.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// LobbyClosedEvent tells a waiting session its lobby is gone.
type LobbyClosedEvent struct {
	Code   string
	Reason string
}

func (LobbyClosedEvent) sessionEvent() {}

// MatchStartedEvent is sent to both sessions when a match begins.
type MatchStartedEvent struct {
	MatchID  MatchID
	Code     string
	StageID  string
	Side     core.PlayerID
	Opponent SessionID
}

func (MatchStartedEvent) sessionEvent() {}

// SnapshotEvent carries one tick of an online match.
type SnapshotEvent struct {
	MatchID  MatchID
	Snapshot session.Snapshot
	Events   []match.Event // Read-only; shared by both sessions
}

func (SnapshotEvent) sessionEvent() {}

// MatchEndedEvent is sent to both sessions when a match stops.
type MatchEndedEvent struct {
	MatchID MatchID
	Result  session.MatchResult
}

func (MatchEndedEvent) sessionEvent() {}

// CoordinatorMessage is sent from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg opens a lobby on a stage.
type CreateLobbyMsg struct {
	SessionID SessionID
	StageID   string
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg joins a lobby by code. Codes are case-insensitive.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// LeaveLobbyMsg withdraws from a lobby. A leaving host closes it.
type LeaveLobbyMsg struct {
	SessionID SessionID
}

func (LeaveLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg forfeits the session's running match.
type LeaveMatchMsg struct {
	SessionID SessionID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// PlayerInputMsg carries one frame of a session's controls. The side is
// taken from the session's seat, never from the client.
type PlayerInputMsg struct {
	SessionID SessionID
	Frame     input.RawFrame
}

func (PlayerInputMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session's connection closes.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
