package match

import (
	"github.com/vovakirdan/ringout/internal/arena"
	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/scene"
)

// Event is something that happened during a controller call.
// Hosts use events for effects, sound and HUD updates.
type Event interface {
	matchEvent()
}

// RingOutSplash marks where an avatar crossed a boundary.
type RingOutSplash struct {
	Player   core.PlayerID
	Side     Side
	Position core.Vec2
	Rotation float64
}

func (RingOutSplash) matchEvent() {}

// LifeLost is emitted when an avatar loses a life.
type LifeLost struct {
	Player    core.PlayerID
	Remaining int
}

func (LifeLost) matchEvent() {}

// Respawned is emitted when an avatar is put back on its spawn platform.
type Respawned struct {
	Player   core.PlayerID
	Position core.Vec2
}

func (Respawned) matchEvent() {}

// MatchEnded is emitted once, when a participant runs out of lives.
type MatchEnded struct {
	Winner core.PlayerID
	Loser  core.PlayerID
	Text   string
}

func (MatchEnded) matchEvent() {}

// PickupSpawned is emitted when a weapon pickup appears.
type PickupSpawned struct {
	Position core.Vec2
}

func (PickupSpawned) matchEvent() {}

// PickupCollected is emitted when an avatar takes the pickup.
type PickupCollected struct {
	Player core.PlayerID
	Weapon arena.Weapon
}

func (PickupCollected) matchEvent() {}

// Result is returned from Update.
type Result struct {
	Events []Event
	// Scene is non-zero when the host should transition.
	Scene scene.Request
}
