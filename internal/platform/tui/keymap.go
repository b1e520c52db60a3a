package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/input"
)

// MenuKeyMap defines the key bindings shared by the menu screens.
type MenuKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Select  key.Binding
	History key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.History, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.History, k.Back, k.Quit},
	}
}

// DefaultMenuKeyMap returns the default menu bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("left/h", "prev stage"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("right/l", "next stage"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		History: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "history"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ArenaKeyMap holds the keys the host keeps for itself during a match.
// Everything else goes to the players.
type ArenaKeyMap struct {
	Leave key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ArenaKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Leave, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ArenaKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultArenaKeyMap returns the default in-match host keys.
func DefaultArenaKeyMap() ArenaKeyMap {
	return ArenaKeyMap{
		Leave: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave match"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// Hold times in ticks. Terminals report presses and auto-repeats but never
// releases, so a press counts as held for a while. A direction is held long
// enough to bridge the auto-repeat delay; a repeat only extends it.
const (
	stickFirstHold  = 30
	stickRepeatHold = 8
	buttonHold      = 2
	softTilt        = 0.2
)

// keyName converts a key message to the name used in bindings.
func keyName(msg tea.KeyMsg) string {
	k := msg.String()
	if k == " " {
		return "space"
	}
	return k
}

// splitSoft strips the shift modifier. Shifted directions are soft tilts.
func splitSoft(k string) (string, bool) {
	if rest, ok := strings.CutPrefix(k, "shift+"); ok {
		return rest, true
	}
	r := []rune(k)
	if len(r) == 1 && unicode.IsUpper(r[0]) {
		return string(unicode.ToLower(r[0])), true
	}
	return k, false
}

type heldKey struct {
	until uint64 // First tick the key is released
	soft  bool
}

// KeyFeed turns key presses into one raw frame per player per tick.
type KeyFeed struct {
	bindings [core.PlayerCount]input.Bindings
	held     map[string]heldKey
	tick     uint64
}

// NewKeyFeed creates a feed for both players' bindings.
func NewKeyFeed(bindings [core.PlayerCount]input.Bindings) *KeyFeed {
	return &KeyFeed{
		bindings: bindings,
		held:     make(map[string]heldKey),
	}
}

// lookup finds the first player that binds the key.
func (f *KeyFeed) lookup(k string) (input.Target, bool) {
	for _, b := range f.bindings {
		if t, ok := b.Lookup(k); ok {
			return t, true
		}
	}
	return input.Target{}, false
}

// Press records a key message. It reports whether any player binds the key.
func (f *KeyFeed) Press(msg tea.KeyMsg) bool {
	return f.PressKey(keyName(msg))
}

// PressKey records a press of the named key.
func (f *KeyFeed) PressKey(k string) bool {
	base, soft := splitSoft(k)
	t, ok := f.lookup(base)
	if !ok {
		return false
	}

	h, wasHeld := f.held[base]
	switch {
	case t.Kind == input.TargetButton:
		h.until = f.tick + buttonHold
	case wasHeld && h.until > f.tick:
		h.until = max(h.until, f.tick+stickRepeatHold)
	default:
		h.until = f.tick + stickFirstHold
	}
	h.soft = soft
	f.held[base] = h
	return true
}

// Frames builds this tick's frames from the held keys and advances the
// feed by one tick.
func (f *KeyFeed) Frames() [core.PlayerCount]input.RawFrame {
	var frames [core.PlayerCount]input.RawFrame
	for k, h := range f.held {
		if h.until <= f.tick {
			delete(f.held, k)
			continue
		}
		for i, b := range f.bindings {
			t, ok := b.Lookup(k)
			if !ok {
				continue
			}
			apply(&frames[i], t, h.soft)
		}
	}
	for i := range frames {
		frames[i].Move = clampStick(frames[i].Move)
		frames[i].Aim = clampStick(frames[i].Aim)
	}
	f.tick++
	return frames
}

// Reset releases every key.
func (f *KeyFeed) Reset() {
	clear(f.held)
}

func apply(fr *input.RawFrame, t input.Target, soft bool) {
	if t.Kind == input.TargetButton {
		fr.Press(t.Button)
		return
	}
	amount := 1.0
	if soft {
		amount = softTilt
	}
	stick := fr.Stick(t.Axis)
	switch t.Dir {
	case input.DirUp:
		stick.Y += amount
	case input.DirDown:
		stick.Y -= amount
	case input.DirLeft:
		stick.X -= amount
	case input.DirRight:
		stick.X += amount
	}
}

func clampStick(v core.Vec2) core.Vec2 {
	return core.V(core.ClampF(v.X, -1, 1), core.ClampF(v.Y, -1, 1))
}
