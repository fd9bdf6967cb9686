package ui

// Progress bar layout
const (
	BarWidth    = 50
	TitleWidth  = 40
	FilledGlyph = "█"
	EmptyGlyph  = "-"
)

// Terminal control
const (
	CarriageReturn = "\r"
	LineFeed       = "\n"
)
