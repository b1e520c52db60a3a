package input

import (
	"os"
	"path/filepath"
	"testing"
)

const dashTrace = `
name: dash-right
samples:
  - {x: 0, y: 0}
  - {x: 1, y: 0, repeat: 3}
  - {x: 0.2, y: 0}
  - {x: -1, y: 0}
`

func TestParseTraceAndReplay(t *testing.T) {
	tr, err := ParseTrace([]byte(dashTrace))
	if err != nil {
		t.Fatalf("ParseTrace() failed: %v", err)
	}
	if tr.Name != "dash-right" {
		t.Errorf("Name = %q, expected dash-right", tr.Name)
	}
	if tr.Len() != 6 {
		t.Fatalf("Len() = %d, expected 6", tr.Len())
	}

	got := tr.Replay()
	expected := []struct {
		dir  Direction
		tilt int
		tap  bool
	}{
		{DirNone, TiltNeutral, false},
		{DirRight, TiltFull, true},
		{DirRight, TiltFull, false},
		{DirRight, TiltFull, false},
		{DirRight, TiltSoft, false},
		{DirLeft, TiltFull, true},
	}

	for i, e := range expected {
		if got[i].Direction != e.dir || got[i].TiltLevel != e.tilt || got[i].IsTapInput != e.tap {
			t.Errorf("tick %d = %s/%d/tap=%v, expected %s/%d/tap=%v",
				i, got[i].Direction, got[i].TiltLevel, got[i].IsTapInput, e.dir, e.tilt, e.tap)
		}
	}
}

func TestReplayIsReproducible(t *testing.T) {
	tr, err := ParseTrace([]byte(dashTrace))
	if err != nil {
		t.Fatalf("ParseTrace() failed: %v", err)
	}
	a := tr.Replay()
	b := tr.Replay()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tick %d differs between replays: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestParseTraceErrors(t *testing.T) {
	if _, err := ParseTrace([]byte("samples: [{x: 1, repeat: -2}]")); err == nil {
		t.Error("negative repeat should fail")
	}
	if _, err := ParseTrace([]byte("samples: {")); err == nil {
		t.Error("malformed YAML should fail")
	}
	if _, err := ParseTrace([]byte("samples: [{x: 1, press: [kick]}]")); err == nil {
		t.Error("unknown button name should fail")
	}
}

func TestLoadTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.yaml")
	if err := os.WriteFile(path, []byte(dashTrace), 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	tr, err := LoadTrace(path)
	if err != nil {
		t.Fatalf("LoadTrace() failed: %v", err)
	}
	if tr.Len() != 6 {
		t.Errorf("Len() = %d, expected 6", tr.Len())
	}

	if _, err := LoadTrace(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadTrace() on a missing file should fail")
	}
}

func TestTraceFrames(t *testing.T) {
	tr, err := ParseTrace([]byte(`
samples:
  - {x: 1, y: 0, press: [jump], repeat: 2}
  - {x: 0, y: 0}
`))
	if err != nil {
		t.Fatalf("ParseTrace() failed: %v", err)
	}

	frames := tr.Frames()
	if len(frames) != 3 {
		t.Fatalf("len(Frames()) = %d, expected 3", len(frames))
	}
	for i := range 2 {
		if frames[i].Move.X != 1 || !frames[i].Held[ButtonJump] {
			t.Errorf("frame %d = %+v, expected move right with jump held", i, frames[i])
		}
	}
	if frames[2].Held[ButtonJump] || !frames[2].Move.IsZero() {
		t.Errorf("frame 2 = %+v, expected neutral", frames[2])
	}
}
