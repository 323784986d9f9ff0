package core

// Color represents a foreground color for a screen cell.
type Color uint8

// Palette. The platform maps every entry to an ANSI 256-color code.
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

// Semantic colors shared by the battle and adventure screens.
const (
	ColorDamage    = ColorRed
	ColorHeal      = ColorGreen
	ColorMana      = ColorBlue
	ColorHighlight = ColorYellow
	ColorFrame     = ColorGray
)
