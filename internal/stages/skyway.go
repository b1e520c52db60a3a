package stages

import (
	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/motion"
	"github.com/vovakirdan/ringout/internal/registry"
)

func init() {
	registry.Register("skyway", Skyway)
}

// Skyway has two ledges split by a gap; a lift rises through the gap and a
// spinning platform circles overhead.
func Skyway() registry.Stage {
	lift := motion.DefaultConfig()
	lift.Horizontal = false
	lift.Vertical = true

	spinner := motion.DefaultConfig()
	spinner.Spin = true
	spinner.HorizontalLength = 5

	return registry.Stage{
		ID:         "skyway",
		Title:      "Skyway",
		Arena:      core.NewRect(-14, -7, 28, 18),
		BlastDepth: 5,
		Floors: []core.Rect{
			core.NewRect(-10, -1, 7, 1),
			core.NewRect(3, -1, 7, 1),
		},
		Platforms: []registry.PlatformSpec{
			{Motion: lift, Start: core.V(0, 0), Size: core.V(3, 0.5)},
			{Motion: spinner, Start: core.V(0, 5), Size: core.V(4, 0.5)},
		},
		Spawns: [core.PlayerCount]registry.PlatformSpec{
			{Start: core.V(-6, 7), Size: spawnSize},
			{Start: core.V(6, 7), Size: spawnSize},
		},
		Starts:       [core.PlayerCount]core.Vec2{core.V(-6, 1), core.V(6, 1)},
		PickupRegion: core.NewRect(-8, 1, 16, 4),
	}
}
