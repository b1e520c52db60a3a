package input

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ringout/internal/core"
)

// RawFrame holds device values for one player during one tick.
// The host fills it from whatever device it reads.
type RawFrame struct {
	Move core.Vec2 // Left stick, each axis roughly in [-1, 1]
	Aim  core.Vec2 // Right stick
	Held [ButtonCount]bool
}

// Press marks a button as held in this frame.
func (f *RawFrame) Press(b Button) {
	if b >= 0 && b < ButtonCount {
		f.Held[b] = true
	}
}

// Stick returns a pointer to the vector for the given axis.
func (f *RawFrame) Stick(a Axis) *core.Vec2 {
	if a == AxisAim {
		return &f.Aim
	}
	return &f.Move
}

// Manager tracks classified stick state and button edges for one player.
type Manager struct {
	player   core.PlayerID
	bindings Bindings
	logger   *log.Logger

	left  AxesInfo
	right AxesInfo

	bound    [ButtonCount]bool
	held     [ButtonCount]bool
	prevHeld [ButtonCount]bool
	ticks    uint64
}

// NewManager creates an input manager. Buttons without a binding are logged
// once and stay inert. A nil logger discards output.
func NewManager(player core.PlayerID, bindings Bindings, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := &Manager{
		player:   player,
		bindings: bindings,
		logger:   logger,
	}
	for _, b := range Buttons() {
		m.bound[b] = bindings.IsBound(b)
		if !m.bound[b] {
			logger.Warn("no binding for button, input disabled", "player", player, "button", b)
		}
	}
	return m
}

// Player returns the owning player.
func (m *Manager) Player() core.PlayerID {
	return m.player
}

// Bindings returns the validated bindings this manager was built with.
func (m *Manager) Bindings() Bindings {
	return m.bindings
}

// Update consumes one tick of raw input.
func (m *Manager) Update(f RawFrame) {
	m.ticks++

	m.left.Update(f.Move.X, f.Move.Y)
	m.right.Update(f.Aim.X, f.Aim.Y)

	m.prevHeld = m.held
	for b := Button(0); b < ButtonCount; b++ {
		m.held[b] = m.bound[b] && f.Held[b]
	}
}

// Reset clears all stick history and button state.
func (m *Manager) Reset() {
	m.left.Reset()
	m.right.Reset()
	m.held = [ButtonCount]bool{}
	m.prevHeld = [ButtonCount]bool{}
	m.ticks = 0
}

// Ticks returns how many frames have been consumed.
func (m *Manager) Ticks() uint64 {
	return m.ticks
}

// LeftAxes returns the left (move) stick state.
func (m *Manager) LeftAxes() AxesInfo {
	return m.left
}

// RightAxes returns the right (aim) stick state.
func (m *Manager) RightAxes() AxesInfo {
	return m.right
}

// MoveAxes is the stick used for locomotion.
func (m *Manager) MoveAxes() AxesInfo {
	return m.left
}

// AimAxes is the stick used for aiming; it follows the scheme.
func (m *Manager) AimAxes() AxesInfo {
	if m.bindings.Scheme == SchemeClassic {
		return m.left
	}
	return m.right
}

// SpcAxes is the stick read when a special move is performed.
func (m *Manager) SpcAxes() AxesInfo {
	return m.left
}

// CStick returns the right stick for smash-style directional attacks.
func (m *Manager) CStick() AxesInfo {
	return m.right
}

// ButtonDown reports whether the button went down this tick.
func (m *Manager) ButtonDown(b Button) bool {
	if b < 0 || b >= ButtonCount {
		return false
	}
	return m.held[b] && !m.prevHeld[b]
}

// ButtonHeld reports whether the button is currently held.
func (m *Manager) ButtonHeld(b Button) bool {
	if b < 0 || b >= ButtonCount {
		return false
	}
	return m.held[b]
}

// ButtonUp reports whether the button was released this tick.
func (m *Manager) ButtonUp(b Button) bool {
	if b < 0 || b >= ButtonCount {
		return false
	}
	return !m.held[b] && m.prevHeld[b]
}
