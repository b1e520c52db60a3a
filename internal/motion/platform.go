// Package motion moves platforms along fixed back-and-forth paths and exposes
// the resulting per-step velocity so riders can be carried.
package motion

import (
	"math"
	"time"

	"github.com/vovakirdan/ringout/internal/core"
)

// Default platform settings
const (
	DefaultSpeed            = 2.0 // Units per second
	DefaultHorizontalLength = 3.0 // Max horizontal displacement from start
	DefaultElevation        = 2.0 // Max vertical displacement from start
	DefaultSpinRate         = 5.0 // Degrees per second
)

// Config describes how a platform moves.
type Config struct {
	Horizontal       bool    `yaml:"horizontal"`
	Vertical         bool    `yaml:"vertical"`
	Spin             bool    `yaml:"spin"`
	Speed            float64 `yaml:"speed"`
	HorizontalLength float64 `yaml:"horizontal_length"`
	Elevation        float64 `yaml:"elevation"`
	SpinRate         float64 `yaml:"spin_rate"`
}

// DefaultConfig returns a horizontally moving platform.
func DefaultConfig() Config {
	return Config{
		Horizontal:       true,
		Speed:            DefaultSpeed,
		HorizontalLength: DefaultHorizontalLength,
		Elevation:        DefaultElevation,
		SpinRate:         DefaultSpinRate,
	}
}

// Platform is a body that oscillates around its start position.
type Platform struct {
	cfg      Config
	start    core.Vec2
	pos      core.Vec2
	size     core.Vec2
	dir      float64 // +1 or -1, shared by both axes
	velocity core.Vec2
	rotation float64 // Degrees
	active   bool
}

// NewPlatform creates an active platform at start with the given size.
func NewPlatform(cfg Config, start, size core.Vec2) *Platform {
	return &Platform{
		cfg:    cfg,
		start:  start,
		pos:    start,
		size:   size,
		dir:    1,
		active: true,
	}
}

// Step advances the platform by one physics step of length dt.
func (p *Platform) Step(dt time.Duration) {
	secs := dt.Seconds()
	if secs <= 0 {
		return
	}

	last := p.pos
	next := p.pos

	if p.cfg.Horizontal {
		next.X += p.dir * p.cfg.Speed * secs
		if math.Abs(next.X-p.start.X) >= p.cfg.HorizontalLength {
			p.dir = -p.dir
		}
	}

	if p.cfg.Vertical {
		next.Y += p.dir * p.cfg.Speed * secs
		if math.Abs(next.Y-p.start.Y) >= p.cfg.Elevation {
			p.dir = -p.dir
		}
	}

	if p.cfg.Spin {
		p.rotation = math.Mod(p.rotation+p.cfg.SpinRate*secs, 360)
	}

	p.pos = next
	p.velocity = next.Sub(last).Scale(1 / secs)
}

// Position returns the current center of the platform.
func (p *Platform) Position() core.Vec2 {
	return p.pos
}

// Start returns the fixed start position.
func (p *Platform) Start() core.Vec2 {
	return p.start
}

// Velocity returns the displacement of the last step divided by its duration.
func (p *Platform) Velocity() core.Vec2 {
	return p.velocity
}

// Rotation returns the spin angle in degrees.
func (p *Platform) Rotation() float64 {
	return p.rotation
}

// Bounds returns the platform's box in arena space.
func (p *Platform) Bounds() core.Rect {
	return core.RectAround(p.pos, p.size.X, p.size.Y)
}

// Carry adds the platform's velocity to a rider's velocity.
func (p *Platform) Carry(v core.Vec2) core.Vec2 {
	return v.Add(p.velocity)
}

// Active reports whether the platform is present in the arena.
func (p *Platform) Active() bool {
	return p.active
}

// SetActive shows or hides the platform.
func (p *Platform) SetActive(active bool) {
	p.active = active
}
