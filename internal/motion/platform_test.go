package motion

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/ringout/internal/core"
)

const halfSecond = 500 * time.Millisecond

func TestPlatformHorizontalOscillation(t *testing.T) {
	p := NewPlatform(DefaultConfig(), core.V(0, 0), core.V(4, 1))

	// Speed 2 over 0.5s moves one unit per step; the limit is 3.
	expectedX := []float64{1, 2, 3, 2, 1, 0, -1, -2, -3, -2}
	for i, want := range expectedX {
		p.Step(halfSecond)
		if got := p.Position().X; got != want {
			t.Fatalf("step %d: X = %f, expected %f", i, got, want)
		}
		if p.Position().Y != 0 {
			t.Fatalf("step %d: Y = %f, horizontal platform should not rise", i, p.Position().Y)
		}
	}
}

func TestPlatformVelocity(t *testing.T) {
	p := NewPlatform(DefaultConfig(), core.V(0, 0), core.V(4, 1))

	if !p.Velocity().IsZero() {
		t.Errorf("Velocity() before first step = %v, expected zero", p.Velocity())
	}

	p.Step(halfSecond)
	if v := p.Velocity(); v != core.V(2, 0) {
		t.Errorf("Velocity() = %v, expected (2, 0)", v)
	}

	// Reach the limit and turn around.
	p.Step(halfSecond)
	p.Step(halfSecond)
	p.Step(halfSecond)
	if v := p.Velocity(); v != core.V(-2, 0) {
		t.Errorf("Velocity() after reversing = %v, expected (-2, 0)", v)
	}

	if got := p.Carry(core.V(1, 1)); got != core.V(-1, 1) {
		t.Errorf("Carry() = %v, expected (-1, 1)", got)
	}
}

func TestPlatformVertical(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Horizontal = false
	cfg.Vertical = true
	p := NewPlatform(cfg, core.V(5, 5), core.V(4, 1))

	expectedY := []float64{6, 7, 6, 5, 4, 3, 4}
	for i, want := range expectedY {
		p.Step(halfSecond)
		if got := p.Position().Y; got != want {
			t.Fatalf("step %d: Y = %f, expected %f", i, got, want)
		}
	}
	if p.Position().X != 5 {
		t.Errorf("X = %f, vertical platform should not slide", p.Position().X)
	}
}

func TestPlatformSpin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Horizontal = false
	cfg.Spin = true
	p := NewPlatform(cfg, core.V(0, 0), core.V(4, 1))

	for range 4 {
		p.Step(halfSecond)
	}
	if math.Abs(p.Rotation()-10) > 1e-9 {
		t.Errorf("Rotation() = %f, expected 10", p.Rotation())
	}
	if !p.Velocity().IsZero() {
		t.Errorf("spinning-only platform should not move, velocity %v", p.Velocity())
	}
}

func TestPlatformZeroStepIsNoop(t *testing.T) {
	p := NewPlatform(DefaultConfig(), core.V(0, 0), core.V(4, 1))
	p.Step(0)
	if p.Position() != p.Start() {
		t.Errorf("Position() = %v after zero step, expected start", p.Position())
	}
}

func TestPlatformActiveAndBounds(t *testing.T) {
	p := NewPlatform(DefaultConfig(), core.V(0, 0), core.V(4, 1))
	if !p.Active() {
		t.Error("new platform should be active")
	}
	p.SetActive(false)
	if p.Active() {
		t.Error("SetActive(false) should hide the platform")
	}
	if b := p.Bounds(); b.W != 4 || b.H != 1 || b.Center() != core.V(0, 0) {
		t.Errorf("Bounds() = %+v, unexpected", b)
	}
}
