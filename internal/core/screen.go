package core

import "strings"

// Cell is one character position on a Screen.
type Cell struct {
	Rune  rune
	Color Color
}

var blank = Cell{Rune: ' '}

// Screen is a fixed-size grid of colored cells. Row 0 is the top line.
// Writes outside the grid are ignored.
type Screen struct {
	width  int
	height int
	cells  []Cell
}

// NewScreen creates a blank screen.
func NewScreen(width, height int) *Screen {
	s := &Screen{}
	s.Resize(width, height)
	return s
}

// Width returns the number of columns.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the number of rows.
func (s *Screen) Height() int {
	return s.height
}

// Resize changes the dimensions and clears the screen.
func (s *Screen) Resize(width, height int) {
	s.width = max(width, 0)
	s.height = max(height, 0)
	s.cells = make([]Cell, s.width*s.height)
	s.Clear()
}

// Clear blanks every cell.
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = blank
	}
}

func (s *Screen) inside(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Set writes a rune with the given color.
func (s *Screen) Set(x, y int, r rune, c Color) {
	if s.inside(x, y) {
		s.cells[y*s.width+x] = Cell{Rune: r, Color: c}
	}
}

// Get returns the rune at (x, y), or a space outside the grid.
func (s *Screen) Get(x, y int) rune {
	return s.GetCell(x, y).Rune
}

// GetCell returns the cell at (x, y), or a blank cell outside the grid.
func (s *Screen) GetCell(x, y int) Cell {
	if !s.inside(x, y) {
		return blank
	}
	return s.cells[y*s.width+x]
}

// DrawText writes text starting at (x, y), clipped to the grid.
func (s *Screen) DrawText(x, y int, text string, c Color) {
	for _, r := range text {
		s.Set(x, y, r, c)
		x++
	}
}

// DrawTextCentered writes text horizontally centered on row y.
func (s *Screen) DrawTextCentered(y int, text string, c Color) {
	n := len([]rune(text))
	s.DrawText((s.width-n)/2, y, text, c)
}

// FillRect fills the cell span [x0, x1] x [y0, y1], inclusive and in any
// corner order.
func (s *Screen) FillRect(x0, y0, x1, y1 int, r rune, c Color) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := max(y0, 0); y <= min(y1, s.height-1); y++ {
		for x := max(x0, 0); x <= min(x1, s.width-1); x++ {
			s.cells[y*s.width+x] = Cell{Rune: r, Color: c}
		}
	}
}

// DrawHLine draws a horizontal line of the given length.
func (s *Screen) DrawHLine(x, y, length int, r rune, c Color) {
	for i := range length {
		s.Set(x+i, y, r, c)
	}
}

// DrawBox draws a single-line border around the cell span, inclusive.
func (s *Screen) DrawBox(x0, y0, x1, y1 int, c Color) {
	if x1-x0 < 1 || y1-y0 < 1 {
		return
	}
	s.DrawHLine(x0+1, y0, x1-x0-1, '─', c)
	s.DrawHLine(x0+1, y1, x1-x0-1, '─', c)
	for y := y0 + 1; y < y1; y++ {
		s.Set(x0, y, '│', c)
		s.Set(x1, y, '│', c)
	}
	s.Set(x0, y0, '┌', c)
	s.Set(x1, y0, '┐', c)
	s.Set(x0, y1, '└', c)
	s.Set(x1, y1, '┘', c)
}

// Row returns row y as plain text.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return ""
	}
	var b strings.Builder
	for _, c := range s.cells[y*s.width : (y+1)*s.width] {
		b.WriteRune(c.Rune)
	}
	return b.String()
}

// String returns the whole screen as plain text, rows separated by newlines.
func (s *Screen) String() string {
	rows := make([]string, s.height)
	for y := range s.height {
		rows[y] = s.Row(y)
	}
	return strings.Join(rows, "\n")
}
