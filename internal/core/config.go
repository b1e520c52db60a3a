package core

import (
	"fmt"
	"time"
)

// RuntimeConfig contains configuration passed to a match at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickDuration returns the fixed simulation step.
func (c RuntimeConfig) TickDuration() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// PlayerID identifies one of the two participants.
// Values double as indices into per-player arrays.
type PlayerID int

const (
	Player1 PlayerID = iota
	Player2
)

// PlayerCount is the number of participants in a match.
const PlayerCount = 2

// Other returns the opposing participant.
func (p PlayerID) Other() PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// Valid reports whether p names a participant.
func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

// String returns the 1-based display name ("Player 1").
func (p PlayerID) String() string {
	return fmt.Sprintf("Player %d", int(p)+1)
}
