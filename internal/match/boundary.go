package match

import "github.com/vovakirdan/ringout/internal/core"

// Side names one of the four arena boundaries.
type Side int

const (
	SideTop Side = iota
	SideBottom
	SideLeft
	SideRight
)

// String returns a human-readable name for the side.
func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "unknown"
	}
}

// Boundary is a blast-zone region outside the arena.
type Boundary struct {
	Side     Side
	Region   core.Rect
	Rotation float64 // Orientation of the splash effect, degrees
}

// BoundariesAround builds the four blast zones surrounding arena, each
// thickness units deep. Corner areas belong to both adjacent zones.
func BoundariesAround(arena core.Rect, thickness float64) []Boundary {
	return []Boundary{
		{
			Side:     SideTop,
			Region:   core.NewRect(arena.X-thickness, arena.Top(), arena.W+2*thickness, thickness),
			Rotation: 180,
		},
		{
			Side:     SideBottom,
			Region:   core.NewRect(arena.X-thickness, arena.Y-thickness, arena.W+2*thickness, thickness),
			Rotation: 0,
		},
		{
			Side:     SideLeft,
			Region:   core.NewRect(arena.X-thickness, arena.Y-thickness, thickness, arena.H+2*thickness),
			Rotation: 270,
		},
		{
			Side:     SideRight,
			Region:   core.NewRect(arena.Right(), arena.Y-thickness, thickness, arena.H+2*thickness),
			Rotation: 90,
		},
	}
}
