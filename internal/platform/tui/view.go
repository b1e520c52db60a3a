package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/ringout/internal/arena"
	"github.com/vovakirdan/ringout/internal/core"
	"github.com/vovakirdan/ringout/internal/match"
	"github.com/vovakirdan/ringout/internal/session"
)

// viewport maps arena space (y up) onto a grid of cells (row 0 on top).
type viewport struct {
	world core.Rect
	cols  int
	rows  int
}

func (v viewport) fx(x float64) float64 {
	return (x - v.world.X) / v.world.W * float64(v.cols)
}

func (v viewport) fy(y float64) float64 {
	return (v.world.Top() - y) / v.world.H * float64(v.rows)
}

// cell returns the cell containing p.
func (v viewport) cell(p core.Vec2) (int, int) {
	return int(math.Floor(v.fx(p.X))), int(math.Floor(v.fy(p.Y)))
}

// span returns the inclusive cell span covered by r. Even a box smaller
// than a cell covers one.
func (v viewport) span(r core.Rect) (x0, y0, x1, y1 int) {
	x0, y0 = v.cell(core.V(r.X, r.Top()))
	x1 = max(x0, int(math.Ceil(v.fx(r.Right())))-1)
	y1 = max(y0, int(math.Ceil(v.fy(r.Y)))-1)
	return x0, y0, x1, y1
}

// splash is a ring-out flash drawn at the edge where it happened.
type splash struct {
	at  core.Vec2
	ttl int
}

const splashTicks = 45

var avatarRunes = [core.PlayerCount]rune{'1', '2'}

// drawGame rasterizes a frame onto s, which is resized by the caller.
func drawGame(s *core.Screen, snap session.Snapshot, splashes []splash) {
	s.Clear()
	v := viewport{world: snap.Arena, cols: s.Width(), rows: s.Height()}

	for _, f := range snap.Floors {
		x0, y0, x1, y1 := v.span(f)
		s.FillRect(x0, y0, x1, y1, '█', core.ColorGray)
	}

	for _, p := range snap.Platforms {
		x0, y0, x1, y1 := v.span(p.Bounds)
		if p.Spawn {
			s.FillRect(x0, y0, x1, y1, '≡', core.PlayerColor(p.Owner))
			continue
		}
		s.FillRect(x0, y0, x1, y1, '▀', core.ColorWhite)
	}

	if snap.HasPickup {
		x, y := v.cell(snap.Pickup)
		s.Set(x, y, '✚', core.ColorYellow)
	}

	for i := range snap.Avatars {
		drawAvatar(s, v, &snap.Avatars[i])
	}

	for _, sp := range splashes {
		x, y := v.cell(sp.at)
		x = min(max(x, 0), s.Width()-1)
		y = min(max(y, 0), s.Height()-1)
		s.Set(x, y, '✸', core.ColorOrange)
	}

	if snap.HasWin {
		y := s.Height() / 2
		s.DrawTextCentered(y, " "+match.WinText(snap.Winner)+" ", core.PlayerColor(snap.Winner))
	}
}

func drawAvatar(s *core.Screen, v viewport, a *arena.Avatar) {
	color := core.PlayerColor(a.Player)
	if !a.Enabled {
		color = core.ColorGray
	}
	x0, y0, x1, y1 := v.span(a.Bounds())
	s.FillRect(x0, y0, x1, y1, avatarRunes[a.Player], color)

	// Facing marker at head height; the shotgun shows as a barrel.
	mark, x := '>', x1+1
	if a.Facing < 0 {
		mark, x = '<', x0-1
	}
	if a.Weapon == arena.WeaponShotgun {
		s.Set(x, y0, '═', core.ColorOrange)
		x += int(a.Facing)
	}
	s.Set(x, y0, mark, color)
}

// ageSplashes drops expired splashes and adds new ones from events.
func ageSplashes(splashes []splash, events []match.Event) []splash {
	out := splashes[:0]
	for _, sp := range splashes {
		sp.ttl--
		if sp.ttl > 0 {
			out = append(out, sp)
		}
	}
	for _, e := range events {
		if ro, ok := e.(match.RingOutSplash); ok {
			out = append(out, splash{at: ro.Position, ttl: splashTicks})
		}
	}
	return out
}

var (
	hudStyle = lipgloss.NewStyle().Bold(true)
	hudDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hudAlert = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// playerHUD renders one player's lives and weapon. A non-empty tag is
// shown after the name, e.g. "CPU" or "you".
func playerHUD(a *arena.Avatar, tag string) string {
	name := a.Player.String()
	if tag != "" {
		name += " (" + tag + ")"
	}
	hearts := strings.Repeat("♥", max(a.Lives, 0))
	if hearts == "" {
		hearts = "-"
	}
	style := colorStyles[core.PlayerColor(a.Player)].Bold(true)
	return style.Render(name) + " " + hearts + " " + hudDim.Render(a.Weapon.String())
}

// hudView renders the status line above the arena.
func hudView(snap session.Snapshot, tags [core.PlayerCount]string, width int) string {
	left := playerHUD(&snap.Avatars[core.Player1], tags[core.Player1])
	right := playerHUD(&snap.Avatars[core.Player2], tags[core.Player2])

	center := hudStyle.Render(snap.StageTitle) + " " + hudDim.Render(formatClock(snap.Elapsed))
	if snap.HasPickup {
		center += " " + hudAlert.Render("shotgun!")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < lipgloss.Width(center)+2 {
		return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	}
	mid := lipgloss.PlaceHorizontal(gap, lipgloss.Center, center)
	return left + mid + right
}

func formatClock(d time.Duration) string {
	d = d.Truncate(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
