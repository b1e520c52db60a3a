// Package input turns raw per-tick device values into semantic stick and
// button state for one player. Nothing here talks to a device; the host feeds
// a RawFrame every tick and gameplay code queries the Manager.
package input

// Direction is the discrete compass direction of a stick.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirRight
	DirLeft
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirNone:
		return "None"
	case DirUp:
		return "Up"
	case DirDown:
		return "Down"
	case DirRight:
		return "Right"
	case DirLeft:
		return "Left"
	default:
		return "Unknown"
	}
}
