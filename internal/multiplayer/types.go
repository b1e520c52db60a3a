// Package multiplayer pairs two SSH sessions into one online match. A host
// opens a lobby on a stage and shares its join code; once someone joins,
// the coordinator runs the match authoritatively and streams snapshots to
// both sessions.
package multiplayer

import (
	"time"

	"github.com/google/uuid"
)

// SessionID uniquely identifies a connected session.
type SessionID string

// MatchID identifies an online match. It is also the match ID stored in
// the history database.
type MatchID = uuid.UUID

// Lobby is a hosted stage waiting for an opponent. The first session to
// join with its code starts the match.
type Lobby struct {
	Code      string
	StageID   string
	Host      SessionHandle
	CreatedAt time.Time
}
