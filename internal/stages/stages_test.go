package stages

import (
	"testing"

	"github.com/vovakirdan/ringout/internal/registry"
)

func TestBuiltinStagesRegistered(t *testing.T) {
	for _, id := range []string{"dojo", "skyway"} {
		t.Run(id, func(t *testing.T) {
			if !registry.Exists(id) {
				t.Fatalf("stage %q not registered", id)
			}
			s, err := registry.Create(id)
			if err != nil {
				t.Fatalf("Create() failed: %v", err)
			}
			if err := s.Validate(); err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
		})
	}
}

func TestStageLayoutsFitArena(t *testing.T) {
	for _, f := range []registry.Factory{Dojo, Skyway} {
		s := f()
		t.Run(s.ID, func(t *testing.T) {
			for i, floor := range s.Floors {
				if !s.Arena.Contains(floor.Center()) {
					t.Errorf("floor %d outside arena", i)
				}
			}
			for i, sp := range s.Spawns {
				if !s.Arena.Contains(sp.Start) {
					t.Errorf("spawn %d outside arena", i+1)
				}
			}
			for _, b := range s.Boundaries() {
				if b.Region.Intersects(s.PickupRegion) {
					t.Errorf("pickup region reaches the %s blast zone", b.Side)
				}
			}
		})
	}
}

func TestStagesStandOnFloor(t *testing.T) {
	// Avatars are two units tall and start standing on a floor.
	for _, f := range []registry.Factory{Dojo, Skyway} {
		s := f()
		for i, start := range s.Starts {
			feet := start.Y - 1
			onFloor := false
			for _, floor := range s.Floors {
				if floor.Top() == feet && start.X >= floor.X && start.X <= floor.Right() {
					onFloor = true
				}
			}
			if !onFloor {
				t.Errorf("%s: player %d does not start on a floor", s.ID, i+1)
			}
		}
	}
}
