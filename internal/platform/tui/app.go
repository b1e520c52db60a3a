package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ringout/internal/config"
	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/input"
	"github.com/vovakirdan/ringout/internal/registry"
	"github.com/vovakirdan/ringout/internal/scene"
	"github.com/vovakirdan/ringout/internal/session"
	"github.com/vovakirdan/ringout/internal/storage"
)

// Layout constants
const (
	minArenaCols = 24
	minArenaRows = 8
	chromeRows   = 3 // HUD line, help line and a spacer
)

// Options configures an App.
type Options struct {
	Config  config.Config
	Runtime core.RuntimeConfig
	Store   *storage.Store // Nil disables history
	CPU     bool           // Player 2 is a bot
	Stage   string         // Start straight in this stage when set
	User    string         // Shown in the title, for SSH sessions
	Online  *Online        // Nil disables online play
	Logger  *log.Logger
}

// playMode is what the stage select starts.
type playMode int

const (
	modeVersus playMode = iota
	modeCPU
	modeHost
)

// String returns the menu label of a mode.
func (m playMode) String() string {
	switch m {
	case modeCPU:
		return "Versus CPU"
	case modeHost:
		return "Host Online"
	default:
		return "Versus"
	}
}

type menuItem struct {
	label string
	run   func(a *App) tea.Cmd
}

// App is the top-level Bubble Tea model: menus, stage select, match
// history and the arena, switched through a scene.Manager.
type App struct {
	opts     Options
	bindings [core.PlayerCount]input.Bindings
	saver    session.ResultSaver
	logger   *log.Logger
	scenes   *scene.Manager

	menuKeys  MenuKeyMap
	arenaKeys ArenaKeyMap
	help      help.Model

	width  int
	height int

	items   []menuItem
	cursor  int
	mode    playMode
	stages  []registry.StageInfo
	table   table.Model
	history *historyView
	match   *liveMatch
	online  *onlineView

	status string
}

// NewApp builds the application model.
func NewApp(opts Options) (*App, error) {
	bindings, err := opts.Config.Bindings()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Runtime.ScreenW <= 0 || opts.Runtime.ScreenH <= 0 {
		def := core.DefaultConfig()
		opts.Runtime.ScreenW, opts.Runtime.ScreenH = def.ScreenW, def.ScreenH
	}

	a := &App{
		opts:      opts,
		bindings:  bindings,
		logger:    logger,
		menuKeys:  DefaultMenuKeyMap(),
		arenaKeys: DefaultArenaKeyMap(),
		help:      help.New(),
		width:     opts.Runtime.ScreenW,
		height:    opts.Runtime.ScreenH,
		stages:    registry.List(),
	}
	if opts.Store != nil {
		a.saver = opts.Store
	}
	if opts.CPU {
		a.mode = modeCPU
	}
	if opts.Online != nil {
		a.online = newOnlineView(opts.Online, bindings)
	}
	a.items = a.menuItems()
	a.table = a.newStageTable()
	a.history = newHistoryView(opts.Store, a.stages, a.width, a.height)

	a.scenes = scene.NewManager(scene.MainMenu, a.releaseMatch, logger)
	a.scenes.Handle(scene.MainMenu, func(scene.Name) error {
		a.cursor = 0
		return nil
	})
	a.scenes.Handle(scene.StageSelect, func(scene.Name) error {
		a.refreshStages()
		return nil
	})
	a.scenes.Handle(scene.History, func(scene.Name) error {
		if opts.Store == nil {
			return fmt.Errorf("tui: no history database")
		}
		a.history.reload()
		return nil
	})
	a.scenes.Handle(scene.Online, func(scene.Name) error {
		if a.online == nil {
			return fmt.Errorf("tui: online play is only available over SSH")
		}
		return nil
	})
	a.scenes.HandleDefault(a.loadStage)

	if opts.Stage != "" {
		if err := a.scenes.Apply(scene.Load(scene.StageScene(opts.Stage))); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *App) menuItems() []menuItem {
	items := []menuItem{
		{modeVersus.String(), func(a *App) tea.Cmd {
			a.mode = modeVersus
			return a.apply(scene.Load(scene.StageSelect))
		}},
		{modeCPU.String(), func(a *App) tea.Cmd {
			a.mode = modeCPU
			return a.apply(scene.Load(scene.StageSelect))
		}},
	}
	if a.online != nil {
		items = append(items,
			menuItem{modeHost.String(), func(a *App) tea.Cmd {
				a.mode = modeHost
				return a.apply(scene.Load(scene.StageSelect))
			}},
			menuItem{"Join Online", func(a *App) tea.Cmd {
				cmd := a.apply(scene.Load(scene.Online))
				return tea.Batch(cmd, a.online.join())
			}},
		)
	}
	if a.opts.Store != nil {
		items = append(items, menuItem{"Match History", func(a *App) tea.Cmd {
			return a.apply(scene.Load(scene.History))
		}})
	}
	return append(items, menuItem{"Quit", func(a *App) tea.Cmd {
		return a.apply(scene.Quit())
	}})
}

// loadStage starts a match for a stage scene.
func (a *App) loadStage(name scene.Name) error {
	id, ok := scene.StageID(name)
	if !ok {
		return fmt.Errorf("tui: unknown scene %q", name)
	}
	rt := a.opts.Runtime
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}
	game, err := session.NewForStage(id, a.opts.Config, rt, a.logger.With("stage", id))
	if err != nil {
		return err
	}

	var pilots [core.PlayerCount]session.Pilot
	if a.mode == modeCPU {
		pilots[core.Player2] = session.NewBot(rt.Seed, session.DefaultBotSkill)
	}
	cols, rows := a.arenaSize()
	a.match = newLiveMatch(game, a.bindings, pilots, cols, rows)
	a.status = ""
	return nil
}

// releaseMatch drops the previous match once a menu scene is current.
func (a *App) releaseMatch() {
	if _, inStage := scene.StageID(a.scenes.Current()); !inStage {
		a.match = nil
	}
}

// apply performs a scene request and reports failures in the status line.
func (a *App) apply(r scene.Request) tea.Cmd {
	if err := a.scenes.Apply(r); err != nil {
		a.status = err.Error()
	}
	if a.scenes.QuitRequested() {
		return tea.Quit
	}
	return nil
}

func (a *App) arenaSize() (int, int) {
	return max(a.width, minArenaCols), max(a.height-chromeRows, minArenaRows)
}

func (a *App) inMatch() bool {
	_, ok := scene.StageID(a.scenes.Current())
	return ok && a.match != nil
}

// Init starts the tick loop and, online, the event listener.
func (a *App) Init() tea.Cmd {
	if a.online != nil {
		return tea.Batch(tickCmd(a.opts.Runtime.TickRate), listen(a.online.sess))
	}
	return tickCmd(a.opts.Runtime.TickRate)
}

// Update handles messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case TickMsg:
		cmd := a.handleTick()
		if a.scenes.QuitRequested() {
			return a, tea.Quit
		}
		return a, tea.Batch(cmd, tickCmd(a.opts.Runtime.TickRate))

	case onlineEventMsg:
		cols, rows := a.arenaSize()
		a.online.handleEvent(msg.evt, cols, rows)
		return a, listen(a.online.sess)

	case tea.KeyMsg:
		if a.inMatch() {
			return a, a.handleMatchKey(msg)
		}
		switch a.scenes.Current() {
		case scene.StageSelect:
			return a, a.handleStageKey(msg)
		case scene.History:
			return a, a.handleHistoryKey(msg)
		case scene.Online:
			return a, a.handleOnlineKey(msg)
		default:
			return a, a.handleMenuKey(msg)
		}
	}
	return a, nil
}

func (a *App) resize(w, h int) {
	a.width, a.height = w, h
	a.help.Width = w
	a.table.SetHeight(max(h-8, 3))
	a.history.resize(w, h)
	cols, rows := a.arenaSize()
	if a.match != nil {
		a.match.screen.Resize(cols, rows)
	}
	if a.online != nil {
		a.online.resize(cols, rows)
	}
}

func (a *App) handleTick() tea.Cmd {
	a.scenes.Tick()
	if a.online != nil && a.scenes.Current() == scene.Online {
		a.online.step()
	}
	if !a.inMatch() {
		return nil
	}
	res := a.match.step()
	if res.Ended {
		a.match.finish(session.EndReasonCompleted, a.saver, a.logger)
	}
	if !res.Scene.IsZero() {
		return a.apply(res.Scene)
	}
	return nil
}

func (a *App) handleMatchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.arenaKeys.Quit):
		a.match.finish(session.EndReasonCancelled, a.saver, a.logger)
		return a.apply(scene.Quit())
	case key.Matches(msg, a.arenaKeys.Leave):
		a.match.finish(session.EndReasonCancelled, a.saver, a.logger)
		return a.apply(scene.Load(scene.StageSelect))
	}
	a.match.feed.Press(msg)
	return nil
}

func (a *App) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.menuKeys.Quit):
		return a.apply(scene.Quit())
	case key.Matches(msg, a.menuKeys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.menuKeys.Down):
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}
	case key.Matches(msg, a.menuKeys.Select):
		return a.items[a.cursor].run(a)
	case key.Matches(msg, a.menuKeys.History):
		if a.opts.Store != nil {
			return a.apply(scene.Load(scene.History))
		}
	}
	return nil
}

func (a *App) handleStageKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.menuKeys.Quit):
		return a.apply(scene.Quit())
	case key.Matches(msg, a.menuKeys.Back):
		return a.apply(scene.Load(scene.MainMenu))
	case key.Matches(msg, a.menuKeys.Select):
		row := a.table.Cursor()
		if row < 0 || row >= len(a.stages) {
			return nil
		}
		if a.mode == modeHost {
			cmd := a.apply(scene.Load(scene.Online))
			a.online.host(a.stages[row].ID)
			return cmd
		}
		return a.apply(scene.Load(scene.StageScene(a.stages[row].ID)))
	}
	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return cmd
}

// handleOnlineKey leaves only on esc or ctrl+c, since join codes may
// contain any letter.
func (a *App) handleOnlineKey(msg tea.KeyMsg) tea.Cmd {
	o := a.online
	switch {
	case key.Matches(msg, a.arenaKeys.Quit):
		o.leave()
		return a.apply(scene.Quit())
	case key.Matches(msg, a.arenaKeys.Leave):
		o.leave()
		return a.apply(scene.Load(scene.MainMenu))
	}

	switch o.state {
	case lobbyEnterCode:
		if msg.Type == tea.KeyEnter {
			o.submit()
			return nil
		}
		var cmd tea.Cmd
		o.input, cmd = o.input.Update(msg)
		return cmd
	case lobbyPlaying:
		o.match.feed.Press(msg)
	case lobbyEnded, lobbyClosed:
		if msg.Type == tea.KeyEnter {
			o.leave()
			return a.apply(scene.Load(scene.MainMenu))
		}
	}
	return nil
}

func (a *App) handleHistoryKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.menuKeys.Quit):
		return a.apply(scene.Quit())
	case key.Matches(msg, a.menuKeys.Back):
		return a.apply(scene.Load(scene.MainMenu))
	}
	return a.history.update(msg, a.menuKeys)
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// View renders the current scene.
func (a *App) View() string {
	if a.scenes.QuitRequested() {
		return ""
	}
	if a.inMatch() {
		return a.match.view(a.width) + "\n" + helpStyle.Render(a.help.View(a.arenaKeys))
	}

	var body string
	switch a.scenes.Current() {
	case scene.StageSelect:
		body = a.stageView()
	case scene.History:
		body = a.history.view()
	case scene.Online:
		body = a.online.view(a.width)
	default:
		body = a.menuView()
	}

	var b strings.Builder
	b.WriteString(body)
	if a.status != "" {
		b.WriteString("\n")
		b.WriteString(centerText(statusStyle.Render(a.status), a.width))
	}
	b.WriteString("\n")
	if a.scenes.Current() == scene.Online {
		b.WriteString(helpStyle.Render(a.help.View(a.arenaKeys)))
	} else {
		b.WriteString(helpStyle.Render(a.help.View(a.menuKeys)))
	}
	return b.String()
}

func (a *App) menuView() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("R I N G O U T"), a.width))
	b.WriteString("\n\n")
	subtitle := "Knock your rival off the stage"
	if a.opts.User != "" {
		subtitle = fmt.Sprintf("Welcome, %s. %s", a.opts.User, subtitle)
	}
	b.WriteString(centerText(subtitle, a.width))
	b.WriteString("\n\n")

	for i, item := range a.items {
		line := "  " + item.label
		if i == a.cursor {
			line = cursorStyle.Render("> " + item.label)
		}
		b.WriteString(centerText(line, a.width))
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) stageView() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("SELECT STAGE - "+a.mode.String()), a.width))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(a.table.View()))
	b.WriteString("\n")
	return b.String()
}

func (a *App) newStageTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Stage", Width: 20},
			{Title: "ID", Width: 12},
			{Title: "Played", Width: 8},
		}),
		table.WithFocused(true),
		table.WithHeight(max(a.height-8, 3)),
	)
	t.SetStyles(tableStyles())
	a.fillStageRows(&t)
	return t
}

func (a *App) refreshStages() {
	a.stages = registry.List()
	a.fillStageRows(&a.table)
}

func (a *App) fillStageRows(t *table.Model) {
	played := map[string]*storage.StageStats{}
	if a.opts.Store != nil {
		if stats, err := a.opts.Store.AllStageStats(); err == nil {
			played = stats
		} else {
			a.logger.Warn("could not load stage stats", "error", err)
		}
	}

	rows := make([]table.Row, len(a.stages))
	for i, s := range a.stages {
		n := 0
		if st, ok := played[s.ID]; ok {
			n = st.Matches
		}
		rows[i] = table.Row{s.Title, s.ID, fmt.Sprintf("%d", n)}
	}
	t.SetRows(rows)
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return s
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// Run runs the application on the local terminal.
func Run(opts Options) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}
