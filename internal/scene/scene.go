// Package scene models scene transitions as requests. Gameplay code returns a
// Request; the application loop applies it through a Manager, which owns the
// switch and the cleanup that follows.
package scene

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Name identifies a scene.
type Name string

// Well-known scenes.
const (
	MainMenu    Name = "Main Menu"
	StageSelect Name = "Menu - Select Map"
	History     Name = "Menu - History"
	Online      Name = "Menu - Online"
)

const stagePrefix = "Stage - "

// StageScene returns the scene name for a stage ID.
func StageScene(stageID string) Name {
	return Name(stagePrefix + stageID)
}

// StageID returns the stage ID named by a stage scene.
func StageID(name Name) (string, bool) {
	id, ok := strings.CutPrefix(string(name), stagePrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// RequestKind is what a Request asks the loop to do.
type RequestKind int

const (
	RequestNone RequestKind = iota
	RequestLoad
	RequestQuit
)

// String returns a human-readable name for the request kind.
func (k RequestKind) String() string {
	switch k {
	case RequestNone:
		return "none"
	case RequestLoad:
		return "load"
	case RequestQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Request is a one-shot transition request.
type Request struct {
	Kind  RequestKind
	Scene Name
}

// Load requests a switch to the named scene.
func Load(name Name) Request {
	return Request{Kind: RequestLoad, Scene: name}
}

// Quit requests application exit.
func Quit() Request {
	return Request{Kind: RequestQuit}
}

// IsZero reports whether the request asks for nothing.
func (r Request) IsZero() bool {
	return r.Kind == RequestNone
}

// Loader is called when a scene becomes current.
type Loader func(name Name) error

// Manager applies transition requests and runs deferred cleanup.
type Manager struct {
	current  Name
	loaders  map[Name]Loader
	fallback Loader
	cleanup  func()
	pending  bool
	quit     bool
	logger   *log.Logger
}

// NewManager creates a manager starting in scene start. cleanup runs one
// Tick after every successful load (may be nil). A nil logger discards output.
func NewManager(start Name, cleanup func(), logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Manager{
		current: start,
		loaders: make(map[Name]Loader),
		cleanup: cleanup,
		logger:  logger,
	}
}

// Handle registers a loader for a specific scene.
func (m *Manager) Handle(name Name, l Loader) {
	m.loaders[name] = l
}

// HandleDefault registers the loader for scenes without a specific one.
func (m *Manager) HandleDefault(l Loader) {
	m.fallback = l
}

// Current returns the active scene.
func (m *Manager) Current() Name {
	return m.current
}

// QuitRequested reports whether a quit request was applied.
func (m *Manager) QuitRequested() bool {
	return m.quit
}

// Apply performs a request. A failing loader leaves the current scene
// unchanged.
func (m *Manager) Apply(r Request) error {
	switch r.Kind {
	case RequestNone:
		return nil
	case RequestQuit:
		m.logger.Info("quit requested", "scene", m.current)
		m.quit = true
		return nil
	case RequestLoad:
	default:
		m.logger.Warn("ignoring unknown scene request", "kind", r.Kind)
		return nil
	}

	if r.Scene == "" {
		m.logger.Warn("ignoring load request without scene name")
		return nil
	}

	l := m.loaders[r.Scene]
	if l == nil {
		l = m.fallback
	}
	if l != nil {
		if err := l(r.Scene); err != nil {
			m.logger.Error("scene load failed", "scene", r.Scene, "error", err)
			return err
		}
	}

	m.logger.Info("scene loaded", "from", m.current, "to", r.Scene)
	m.current = r.Scene
	m.pending = true
	return nil
}

// Tick runs once per frame. The frame after a load it releases resources of
// the previous scene.
func (m *Manager) Tick() {
	if !m.pending {
		return
	}
	m.pending = false
	if m.cleanup != nil {
		m.cleanup()
	}
}
