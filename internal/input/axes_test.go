package input

import "testing"

func TestAxesClassification(t *testing.T) {
	tests := []struct {
		name      string
		x, y      float64
		direction Direction
		tilt      int
	}{
		{"neutral", 0, 0, DirNone, TiltNeutral},
		{"x dominates full tilt", 0.3, 0.1, DirRight, TiltFull},
		{"soft right", 0.2, 0, DirRight, TiltSoft},
		{"full left", -1, 0.2, DirLeft, TiltFull},
		{"soft down", 0, -0.1, DirDown, TiltSoft},
		{"full up", 0.1, 0.9, DirUp, TiltFull},
		{"threshold is full tilt", 0.25, 0, DirRight, TiltFull},
		{"just below threshold", 0.2499, 0, DirRight, TiltSoft},
		{"tie goes vertical", 0.5, 0.5, DirUp, TiltFull},
		{"negative tie goes vertical", -0.5, -0.5, DirDown, TiltFull},
		{"tiny tie goes vertical", 0.1, -0.1, DirDown, TiltSoft},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var a AxesInfo
			a.Update(tc.x, tc.y)
			if a.Direction != tc.direction {
				t.Errorf("Direction = %s, expected %s", a.Direction, tc.direction)
			}
			if a.TiltLevel != tc.tilt {
				t.Errorf("TiltLevel = %d, expected %d", a.TiltLevel, tc.tilt)
			}
			if a.X != tc.x || a.Y != tc.y {
				t.Errorf("raw vector = (%f, %f), expected (%f, %f)", a.X, a.Y, tc.x, tc.y)
			}
		})
	}
}

func TestAxesNeutralNeverTaps(t *testing.T) {
	var a AxesInfo
	a.Update(1, 0)
	for i := range 3 {
		a.Update(0, 0)
		if a.Direction != DirNone || a.TiltLevel != TiltNeutral || a.IsTapInput {
			t.Fatalf("tick %d: got %s/%d/tap=%v, expected None/0/false", i, a.Direction, a.TiltLevel, a.IsTapInput)
		}
		if a.IsBufferedTapInput {
			t.Fatalf("tick %d: buffered tap should be cleared at neutral", i)
		}
	}
}

func TestAxesTapOnlyOnTransition(t *testing.T) {
	var a AxesInfo
	expected := []bool{true, false, false}
	for i, want := range expected {
		a.Update(1, 0)
		if a.Direction != DirRight {
			t.Fatalf("tick %d: Direction = %s, expected Right", i, a.Direction)
		}
		if a.IsTapInput != want {
			t.Errorf("tick %d: IsTapInput = %v, expected %v", i, a.IsTapInput, want)
		}
	}
}

func TestAxesBufferedTap(t *testing.T) {
	var a AxesInfo

	a.Update(1, 0)
	if !a.IsTapInput || a.IsBufferedTapInput {
		t.Fatalf("first tick: tap=%v buffered=%v, expected tap only", a.IsTapInput, a.IsBufferedTapInput)
	}

	a.Update(1, 0)
	if a.IsTapInput || !a.IsBufferedTapInput {
		t.Fatalf("second tick: tap=%v buffered=%v, expected buffered only", a.IsTapInput, a.IsBufferedTapInput)
	}

	a.Update(1, 0)
	if a.IsTapInput || a.IsBufferedTapInput {
		t.Fatalf("third tick: tap=%v buffered=%v, expected neither", a.IsTapInput, a.IsBufferedTapInput)
	}
}

func TestAxesBufferedTapClearedBySoftTilt(t *testing.T) {
	var a AxesInfo
	a.Update(1, 0)
	a.Update(0.1, 0)
	if a.IsBufferedTapInput {
		t.Error("soft tilt after a tap should not report a buffered tap")
	}
	if a.IsTapInput {
		t.Error("soft tilt never taps")
	}
}

func TestAxesDirectionChangeTaps(t *testing.T) {
	var a AxesInfo
	a.Update(1, 0)  // tap right
	a.Update(1, 0)  // hold
	a.Update(-1, 0) // flick left
	if !a.IsTapInput || a.Direction != DirLeft {
		t.Errorf("flick: Direction = %s tap=%v, expected Left tap", a.Direction, a.IsTapInput)
	}
	if a.DirectionLast != DirLeft {
		t.Errorf("DirectionLast = %s, expected history collapsed to Left", a.DirectionLast)
	}
}

func TestAxesTapAfterSoftTiltSameDirection(t *testing.T) {
	var a AxesInfo
	a.Update(0.1, 0) // soft right
	a.Update(1, 0)   // full right: previous direction was Right but two ticks ago was None
	if !a.IsTapInput {
		t.Error("reaching full tilt from soft tilt in the same direction should tap when older history differs")
	}

	var b AxesInfo
	b.Update(0.1, 0)
	b.Update(0.1, 0)
	b.Update(1, 0) // both previous directions are Right
	if b.IsTapInput {
		t.Error("slow push from a held soft tilt should not tap")
	}
}

func TestAxesDirectionLastTracksPrevious(t *testing.T) {
	var a AxesInfo
	a.Update(0, 0.1) // soft up, no tap
	a.Update(0.1, 0) // soft right
	if a.DirectionLast != DirUp {
		t.Errorf("DirectionLast = %s, expected Up", a.DirectionLast)
	}
}

func TestAxesReset(t *testing.T) {
	var a AxesInfo
	a.Update(1, 0)
	a.Reset()
	if a != (AxesInfo{}) {
		t.Errorf("Reset() left state %+v", a)
	}
}
