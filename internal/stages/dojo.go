// Package stages registers the built-in arenas.
package stages

import (
	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/motion"
	"github.com/vovakirdan/ringout/internal/registry"
)

func init() {
	registry.Register("dojo", Dojo)
}

// spawnSize is the footprint of every respawn platform.
var spawnSize = core.V(3, 0.5)

// Dojo is a single wide floor with one drifting platform above it.
func Dojo() registry.Stage {
	drift := motion.DefaultConfig()

	return registry.Stage{
		ID:         "dojo",
		Title:      "Dojo",
		Arena:      core.NewRect(-12, -6, 24, 16),
		BlastDepth: 5,
		Floors: []core.Rect{
			core.NewRect(-7, -1, 14, 1),
		},
		Platforms: []registry.PlatformSpec{
			{Motion: drift, Start: core.V(0, 3.5), Size: core.V(3, 0.5)},
		},
		Spawns: [core.PlayerCount]registry.PlatformSpec{
			{Start: core.V(-4, 6), Size: spawnSize},
			{Start: core.V(4, 6), Size: spawnSize},
		},
		Starts:       [core.PlayerCount]core.Vec2{core.V(-3, 1), core.V(3, 1)},
		PickupRegion: core.NewRect(-5, 1, 10, 3),
	}
}
