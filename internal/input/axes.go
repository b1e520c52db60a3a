package input

import (
	"math"

	"github.com/vovakirdan/ringout/internal/core"
)

// TiltThreshold splits soft tilt from full tilt on the dominant axis.
const TiltThreshold = 0.25

// Tilt levels reported in AxesInfo.TiltLevel.
const (
	TiltNeutral = 0
	TiltSoft    = 1
	TiltFull    = 2
)

// AxesInfo is the classified state of one analog stick.
type AxesInfo struct {
	X, Y float64

	Direction     Direction
	DirectionLast Direction
	TiltLevel     int

	// IsTapInput is set on the tick a stick reaches full tilt in a new direction.
	IsTapInput bool
	// IsBufferedTapInput is true when the previous tick was a tap and the
	// stick is still held at full tilt without tapping again.
	IsBufferedTapInput bool
}

// Vector returns the raw stick position.
func (a AxesInfo) Vector() core.Vec2 {
	return core.Vec2{X: a.X, Y: a.Y}
}

// IsFullTilt reports whether the stick is at full tilt.
func (a AxesInfo) IsFullTilt() bool {
	return a.TiltLevel == TiltFull
}

// Update classifies a new stick position. The result depends only on (x, y)
// and the directions of the two previous ticks.
func (a *AxesInfo) Update(x, y float64) {
	a.X = x
	a.Y = y

	beforeLast := a.DirectionLast
	a.DirectionLast = a.Direction
	a.IsBufferedTapInput = a.IsTapInput
	a.IsTapInput = false
	a.TiltLevel = TiltNeutral
	a.Direction = DirNone

	if x != 0 || y != 0 {
		// Equal magnitudes take the vertical branch.
		if math.Abs(x) > math.Abs(y) {
			a.TiltLevel = tiltFor(x)
			if x > 0 {
				a.Direction = DirRight
			} else {
				a.Direction = DirLeft
			}
		} else {
			a.TiltLevel = tiltFor(y)
			if y > 0 {
				a.Direction = DirUp
			} else {
				a.Direction = DirDown
			}
		}
	}

	if a.TiltLevel != TiltFull {
		a.IsBufferedTapInput = false
		return
	}

	if a.Direction != a.DirectionLast || a.Direction != beforeLast {
		a.IsTapInput = true
		a.IsBufferedTapInput = false
		// Collapse history so holding the new direction does not tap again.
		a.DirectionLast = a.Direction
	}
}

// Reset returns the stick to neutral with no history.
func (a *AxesInfo) Reset() {
	*a = AxesInfo{}
}

func tiltFor(v float64) int {
	if math.Abs(v) < TiltThreshold {
		return TiltSoft
	}
	return TiltFull
}
