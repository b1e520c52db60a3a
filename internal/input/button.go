package input

import (
	"fmt"
	"strings"
)

// Button is a logical action button. The set is closed: bindings can only
// target these values.
type Button int

const (
	ButtonAttack Button = iota
	ButtonShoot
	ButtonDefend
	ButtonSpecial
	ButtonJump
	ButtonReload
	ButtonSwap
	ButtonTaunt
	ButtonCount // Sentinel for sizing per-button arrays
)

var buttonNames = [ButtonCount]string{
	ButtonAttack:  "attack",
	ButtonShoot:   "shoot",
	ButtonDefend:  "defend",
	ButtonSpecial: "special",
	ButtonJump:    "jump",
	ButtonReload:  "reload",
	ButtonSwap:    "swap",
	ButtonTaunt:   "taunt",
}

// String returns the config name of the button.
func (b Button) String() string {
	if b < 0 || b >= ButtonCount {
		return "unknown"
	}
	return buttonNames[b]
}

// Buttons returns all logical buttons in declaration order.
func Buttons() []Button {
	out := make([]Button, 0, ButtonCount)
	for b := Button(0); b < ButtonCount; b++ {
		out = append(out, b)
	}
	return out
}

// ParseButton resolves a config name (case-insensitive) to a Button.
func ParseButton(name string) (Button, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for b, n := range buttonNames {
		if n == name {
			return Button(b), nil
		}
	}
	return 0, fmt.Errorf("input: unknown button %q", name)
}

// Axis is a logical analog stick.
type Axis int

const (
	AxisMove Axis = iota // Left stick / WASD
	AxisAim              // Right stick / mouse
	AxisCount
)

// String returns the config name of the axis.
func (a Axis) String() string {
	switch a {
	case AxisMove:
		return "move"
	case AxisAim:
		return "aim"
	default:
		return "unknown"
	}
}

// ParseAxis resolves a config name (case-insensitive) to an Axis.
func ParseAxis(name string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "move":
		return AxisMove, nil
	case "aim":
		return AxisAim, nil
	}
	return 0, fmt.Errorf("input: unknown axis %q", name)
}

// Scheme selects which physical stick drives aiming.
type Scheme int

const (
	SchemeClassic   Scheme = iota // Aim follows the move stick
	SchemeTwinStick               // Aim on the right stick
	SchemeKBMouse                 // Aim on the mouse (right stick slot)
)

// String returns the config name of the scheme.
func (s Scheme) String() string {
	switch s {
	case SchemeClassic:
		return "classic"
	case SchemeTwinStick:
		return "twinstick"
	case SchemeKBMouse:
		return "kbmouse"
	default:
		return "unknown"
	}
}

// ParseScheme resolves a config name; empty selects SchemeClassic.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "classic":
		return SchemeClassic, nil
	case "twinstick":
		return SchemeTwinStick, nil
	case "kbmouse":
		return SchemeKBMouse, nil
	}
	return 0, fmt.Errorf("input: unknown scheme %q", name)
}
