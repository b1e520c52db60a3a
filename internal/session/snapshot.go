package session

import (
	"slices"
	"time"

	"github.com/vovakirdan/ringout/internal/arena"
	"github.com/vovakirdan/ringout/internal/core"
)

// PlatformView is a platform as it stands in one frame.
type PlatformView struct {
	Bounds core.Rect
	Spawn  bool
	Owner  core.PlayerID // Set for spawn platforms
}

// Snapshot is a copy of everything visible in a game at one tick. It shares
// no memory with the game and may be handed to other goroutines.
type Snapshot struct {
	Tick       uint64
	StageID    string
	StageTitle string
	Arena      core.Rect
	Floors     []core.Rect
	Platforms  []PlatformView
	Avatars    [core.PlayerCount]arena.Avatar
	HasPickup  bool
	Pickup     core.Vec2
	Elapsed    time.Duration
	Winner     core.PlayerID
	HasWin     bool
}

// Snapshot copies the game's visible state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:       g.tick,
		StageID:    g.stage.ID,
		StageTitle: g.stage.Title,
		Arena:      g.stage.Arena,
		Floors:     slices.Clone(g.stage.Floors),
		Elapsed:    g.Elapsed(),
	}
	for _, p := range g.platforms {
		if p.Active() {
			s.Platforms = append(s.Platforms, PlatformView{Bounds: p.Bounds()})
		}
	}
	for i, p := range g.spawns {
		if p.Active() {
			s.Platforms = append(s.Platforms, PlatformView{Bounds: p.Bounds(), Spawn: true, Owner: core.PlayerID(i)})
		}
	}
	for i, a := range g.avatars {
		s.Avatars[i] = *a
	}
	if pk := g.ctrl.Pickup(); pk != nil && pk.Active {
		s.HasPickup = true
		s.Pickup = pk.Position
	}
	s.Winner, s.HasWin = g.ctrl.Winner()
	return s
}
