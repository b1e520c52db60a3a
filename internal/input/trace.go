package input

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/ringout/internal/core"
)

// TraceSample is one recorded stick position plus the buttons held with it.
// Repeat > 1 holds it for that many consecutive ticks.
type TraceSample struct {
	X      float64  `yaml:"x"`
	Y      float64  `yaml:"y"`
	Press  []string `yaml:"press,omitempty"`
	Repeat int      `yaml:"repeat,omitempty"`
}

// Trace is a recorded sequence of move-stick positions, one per tick.
type Trace struct {
	Name    string        `yaml:"name"`
	Samples []TraceSample `yaml:"samples"`
}

// ParseTrace decodes a YAML trace.
func ParseTrace(data []byte) (Trace, error) {
	var t Trace
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Trace{}, fmt.Errorf("input: cannot parse trace: %w", err)
	}
	for i, s := range t.Samples {
		if s.Repeat < 0 {
			return Trace{}, fmt.Errorf("input: trace sample %d: negative repeat %d", i, s.Repeat)
		}
		for _, name := range s.Press {
			if _, err := ParseButton(name); err != nil {
				return Trace{}, fmt.Errorf("input: trace sample %d: %w", i, err)
			}
		}
	}
	return t, nil
}

// LoadTrace reads and decodes a YAML trace file.
func LoadTrace(path string) (Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trace{}, fmt.Errorf("input: cannot read trace %s: %w", path, err)
	}
	return ParseTrace(data)
}

// Len returns the number of ticks the trace covers.
func (t Trace) Len() int {
	n := 0
	for _, s := range t.Samples {
		n += max(1, s.Repeat)
	}
	return n
}

// Replay runs the trace through a fresh classifier and returns the state
// after every tick.
func (t Trace) Replay() []AxesInfo {
	out := make([]AxesInfo, 0, t.Len())
	var axes AxesInfo
	for _, s := range t.Samples {
		for range max(1, s.Repeat) {
			axes.Update(s.X, s.Y)
			out = append(out, axes)
		}
	}
	return out
}

// Frames expands the trace into raw frames for the move stick, one per tick.
// Button names must have been validated by ParseTrace.
func (t Trace) Frames() []RawFrame {
	out := make([]RawFrame, 0, t.Len())
	for _, s := range t.Samples {
		var f RawFrame
		f.Move = core.V(s.X, s.Y)
		for _, name := range s.Press {
			if b, err := ParseButton(name); err == nil {
				f.Press(b)
			}
		}
		for range max(1, s.Repeat) {
			out = append(out, f)
		}
	}
	return out
}
