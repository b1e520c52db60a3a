// Package registry provides a global registry for stage factories.
// Stages register themselves in init() functions, allowing the platform
// to discover and build arenas without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/match"
	"github.com/vovakirdan/ringout/internal/motion"
)

// PlatformSpec places one moving or spawn platform.
type PlatformSpec struct {
	Motion motion.Config
	Start  core.Vec2
	Size   core.Vec2
}

// Build creates the platform at its start position.
func (p PlatformSpec) Build() *motion.Platform {
	return motion.NewPlatform(p.Motion, p.Start, p.Size)
}

// Stage is the static layout of an arena.
type Stage struct {
	ID    string
	Title string

	// Arena is the playable area; everything outside it within BlastDepth
	// is a blast zone.
	Arena      core.Rect
	BlastDepth float64

	Floors    []core.Rect    // Static ground, standable from above
	Platforms []PlatformSpec // Moving platforms
	Spawns    [core.PlayerCount]PlatformSpec
	Starts    [core.PlayerCount]core.Vec2 // Avatar positions at match start

	PickupRegion core.Rect
}

// Boundaries returns the four blast zones around the arena.
func (s Stage) Boundaries() []match.Boundary {
	return match.BoundariesAround(s.Arena, s.BlastDepth)
}

// Validate checks that the layout can host a match.
func (s Stage) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("registry: stage without ID")
	}
	if s.Arena.W <= 0 || s.Arena.H <= 0 {
		return fmt.Errorf("registry: stage %q: empty arena", s.ID)
	}
	if s.BlastDepth <= 0 {
		return fmt.Errorf("registry: stage %q: blast depth must be positive", s.ID)
	}
	for i, p := range s.Starts {
		if !s.Arena.Contains(p) {
			return fmt.Errorf("registry: stage %q: start %d outside arena", s.ID, i+1)
		}
	}
	for i, sp := range s.Spawns {
		if !s.Arena.ContainsRect(core.RectAround(sp.Start, sp.Size.X, sp.Size.Y)) {
			return fmt.Errorf("registry: stage %q: spawn platform %d outside arena", s.ID, i+1)
		}
	}
	return nil
}

// StageInfo contains metadata about a registered stage.
type StageInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a stage layout.
type Factory func() Stage

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a stage factory to the registry.
// Typically called from a stage's init() function.
// Panics if a stage with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: stage %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title
}

// List returns information about all registered stages, sorted by ID.
func List() []StageInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]StageInfo, 0, len(factories))
	for id := range factories {
		result = append(result, StageInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create builds a stage by its ID.
// Returns an error if the stage ID is not registered.
func Create(id string) (Stage, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return Stage{}, fmt.Errorf("registry: unknown stage %q", id)
	}

	return f(), nil
}

// Exists checks if a stage with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
