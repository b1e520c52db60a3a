package core

// Color is the foreground color of a screen cell. Hosts map it to whatever
// palette their terminal supports.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorOrange
	ColorGray
)

// PlayerColor returns the color a player is drawn in.
func PlayerColor(p PlayerID) Color {
	if p == Player2 {
		return ColorCyan
	}
	return ColorRed
}
