package input

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// AxisKeys binds the four digital directions of a stick to physical keys.
type AxisKeys struct {
	Up    string `yaml:"up"`
	Down  string `yaml:"down"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

func (k AxisKeys) each(fn func(Direction, string)) {
	fn(DirUp, k.Up)
	fn(DirDown, k.Down)
	fn(DirLeft, k.Left)
	fn(DirRight, k.Right)
}

// RawBindings is the config-file form of a player's bindings.
// Keys are logical names; values are physical key names.
type RawBindings struct {
	Scheme  string              `yaml:"scheme"`
	Buttons map[string][]string `yaml:"buttons"`
	Axes    map[string]AxisKeys `yaml:"axes"`
}

// TargetKind distinguishes what a physical key drives.
type TargetKind int

const (
	TargetButton TargetKind = iota
	TargetAxis
)

// Target is the logical input a physical key is bound to.
type Target struct {
	Kind   TargetKind
	Button Button    // Valid for TargetButton
	Axis   Axis      // Valid for TargetAxis
	Dir    Direction // Valid for TargetAxis
}

// Bindings is a validated mapping from logical inputs to physical keys.
// Build it with ParseBindings; the zero value binds nothing.
type Bindings struct {
	Scheme  Scheme
	buttons [ButtonCount][]string
	axes    [AxisCount]AxisKeys
	byKey   map[string]Target
}

// ErrDuplicateKey is returned when one physical key is bound twice.
var ErrDuplicateKey = errors.New("input: physical key bound more than once")

// ParseBindings validates raw bindings. Unknown logical names, empty key
// names and keys bound to two targets are errors; logical inputs that are
// simply absent stay unbound.
func ParseBindings(raw RawBindings) (Bindings, error) {
	scheme, err := ParseScheme(raw.Scheme)
	if err != nil {
		return Bindings{}, err
	}

	b := Bindings{
		Scheme: scheme,
		byKey:  make(map[string]Target),
	}

	// Sorted iteration keeps error messages stable.
	names := make([]string, 0, len(raw.Buttons))
	for name := range raw.Buttons {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		btn, err := ParseButton(name)
		if err != nil {
			return Bindings{}, err
		}
		for _, k := range raw.Buttons[name] {
			if err := b.add(k, Target{Kind: TargetButton, Button: btn}); err != nil {
				return Bindings{}, fmt.Errorf("button %s: %w", btn, err)
			}
			b.buttons[btn] = append(b.buttons[btn], normalizeKey(k))
		}
	}

	axisNames := make([]string, 0, len(raw.Axes))
	for name := range raw.Axes {
		axisNames = append(axisNames, name)
	}
	sort.Strings(axisNames)

	for _, name := range axisNames {
		axis, err := ParseAxis(name)
		if err != nil {
			return Bindings{}, err
		}
		keys := raw.Axes[name]
		var addErr error
		keys.each(func(dir Direction, k string) {
			if addErr != nil || k == "" {
				return
			}
			addErr = b.add(k, Target{Kind: TargetAxis, Axis: axis, Dir: dir})
		})
		if addErr != nil {
			return Bindings{}, fmt.Errorf("axis %s: %w", axis, addErr)
		}
		b.axes[axis] = AxisKeys{
			Up:    normalizeKey(keys.Up),
			Down:  normalizeKey(keys.Down),
			Left:  normalizeKey(keys.Left),
			Right: normalizeKey(keys.Right),
		}
	}

	return b, nil
}

func (b *Bindings) add(key string, t Target) error {
	key = normalizeKey(key)
	if key == "" {
		return errors.New("input: empty key name")
	}
	if _, exists := b.byKey[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	b.byKey[key] = t
	return nil
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// Lookup returns the logical input bound to a physical key.
func (b Bindings) Lookup(key string) (Target, bool) {
	t, ok := b.byKey[normalizeKey(key)]
	return t, ok
}

// ButtonKeys returns the physical keys bound to a button.
func (b Bindings) ButtonKeys(btn Button) []string {
	if btn < 0 || btn >= ButtonCount {
		return nil
	}
	return b.buttons[btn]
}

// AxisKeys returns the physical keys bound to a stick.
func (b Bindings) AxisKeys(axis Axis) AxisKeys {
	if axis < 0 || axis >= AxisCount {
		return AxisKeys{}
	}
	return b.axes[axis]
}

// IsBound reports whether the button has at least one physical key.
func (b Bindings) IsBound(btn Button) bool {
	return len(b.ButtonKeys(btn)) > 0
}

// Unbound lists the buttons with no physical key.
func (b Bindings) Unbound() []Button {
	var out []Button
	for _, btn := range Buttons() {
		if !b.IsBound(btn) {
			out = append(out, btn)
		}
	}
	return out
}

// Keys returns every bound physical key, sorted.
func (b Bindings) Keys() []string {
	keys := make([]string, 0, len(b.byKey))
	for k := range b.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
