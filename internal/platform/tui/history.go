package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ringout/internal/registry"
	"github.com/vovakirdan/ringout/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show the stage sidebar
	sidebarWidth       = 20
	maxMatches         = 100
)

// historyView lists recent matches, filtered by stage. Tab 0 is every
// stage.
type historyView struct {
	store   *storage.Store
	stages  []registry.StageInfo
	tab     int
	matches []storage.MatchRecord
	stats   map[string]*storage.StageStats
	table   table.Model
	width   int
	height  int
	err     error
}

func newHistoryView(store *storage.Store, stages []registry.StageInfo, width, height int) *historyView {
	h := &historyView{
		store:  store,
		stages: stages,
		width:  width,
		height: height,
	}
	h.table = h.createTable()
	return h
}

// stageID returns the filter for the current tab; empty means all stages.
func (h *historyView) stageID() string {
	if h.tab == 0 || h.tab > len(h.stages) {
		return ""
	}
	return h.stages[h.tab-1].ID
}

func (h *historyView) tabTitle() string {
	if id := h.stageID(); id != "" {
		return h.stages[h.tab-1].Title
	}
	return "All stages"
}

func (h *historyView) showSidebar() bool {
	return h.width >= minWidthForSidebar
}

func (h *historyView) createTable() table.Model {
	columns := []table.Column{
		{Title: "When", Width: 13},
		{Title: "Stage", Width: 10},
		{Title: "Winner", Width: 9},
		{Title: "Lives", Width: 6},
		{Title: "Time", Width: 6},
		{Title: "End", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(h.height-10, 3)),
	)
	t.SetStyles(tableStyles())
	return t
}

// reload fetches matches and stats for the current tab.
func (h *historyView) reload() {
	h.err = nil
	h.matches = nil
	h.stats = nil
	if h.store != nil {
		h.matches, h.err = h.store.RecentMatches(h.stageID(), maxMatches)
		if h.err == nil {
			h.stats, h.err = h.store.AllStageStats()
		}
	}
	h.updateRows()
}

func (h *historyView) updateRows() {
	rows := make([]table.Row, len(h.matches))
	for i, m := range h.matches {
		winner := "-"
		if m.Winner > 0 {
			winner = fmt.Sprintf("Player %d", m.Winner)
		}
		rows[i] = table.Row{
			m.CreatedAt.Format("Jan 02 15:04"),
			m.StageID,
			winner,
			fmt.Sprintf("%d-%d", m.Lives1, m.Lives2),
			formatClock(m.Duration),
			m.Reason,
		}
	}
	h.table.SetRows(rows)
	h.table.GotoTop()
}

func (h *historyView) resize(w, ht int) {
	h.width, h.height = w, ht
	h.table = h.createTable()
	h.updateRows()
}

func (h *historyView) update(msg tea.KeyMsg, keys MenuKeyMap) tea.Cmd {
	tabs := len(h.stages) + 1
	switch {
	case key.Matches(msg, keys.Right):
		h.tab = (h.tab + 1) % tabs
		h.reload()
		return nil
	case key.Matches(msg, keys.Left):
		h.tab = (h.tab - 1 + tabs) % tabs
		h.reload()
		return nil
	}
	var cmd tea.Cmd
	h.table, cmd = h.table.Update(msg)
	return cmd
}

// summary renders the aggregate line for the current filter.
func (h *historyView) summary() string {
	var total storage.StageStats
	for id, st := range h.stats {
		if f := h.stageID(); f != "" && f != id {
			continue
		}
		total.Matches += st.Matches
		total.Wins[0] += st.Wins[0]
		total.Wins[1] += st.Wins[1]
	}
	return fmt.Sprintf("%d matches   Player 1: %d wins   Player 2: %d wins",
		total.Matches, total.Wins[0], total.Wins[1])
}

func (h *historyView) view() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("MATCH HISTORY - "+h.tabTitle()), h.width))
	b.WriteString("\n\n")

	if h.err != nil {
		b.WriteString(centerText(statusStyle.Render(h.err.Error()), h.width))
		b.WriteString("\n")
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	tableView := h.table.View()
	if len(h.matches) == 0 {
		tableView = hudDim.Render("No matches played yet.")
	}
	content := box.Render(h.summary() + "\n\n" + tableView)

	if h.showSidebar() {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, h.sidebar(box), "  ", content))
	} else {
		b.WriteString(centerText(fmt.Sprintf("< %s >", h.tabTitle()), h.width))
		b.WriteString("\n")
		b.WriteString(content)
	}
	b.WriteString("\n")
	return b.String()
}

func (h *historyView) sidebar(box lipgloss.Style) string {
	var s strings.Builder
	s.WriteString("Stages\n")
	s.WriteString(strings.Repeat("-", sidebarWidth-4))
	s.WriteString("\n")
	names := append([]string{"All stages"}, stageTitles(h.stages)...)
	for i, name := range names {
		if len(name) > sidebarWidth-6 {
			name = name[:sidebarWidth-7] + "."
		}
		if i == h.tab {
			s.WriteString(cursorStyle.Render("> " + name))
		} else {
			s.WriteString("  " + name)
		}
		s.WriteString("\n")
	}
	return box.Width(sidebarWidth).Render(s.String())
}

func stageTitles(stages []registry.StageInfo) []string {
	out := make([]string, len(stages))
	for i, s := range stages {
		out[i] = s.Title
	}
	return out
}
