// Package vt defines the terminal-emulation capability consumed by replay
// and implements it on top of the vt100 emulator. The replayer only depends
// on the narrow Emulator interface, so its diffing logic can be tested
// against a fake screen.
package vt

import "image/color"

// ColorKind discriminates how a cell color is expressed.
type ColorKind uint8

const (
	// DefaultFG is the terminal's default foreground color.
	DefaultFG ColorKind = iota
	// DefaultBG is the terminal's default background color.
	DefaultBG
	// PaletteColor is one of the 16 base palette colors (Index 0-15).
	PaletteColor
	// RGBColor is a direct color carried in Value.
	RGBColor
)

// Color is a kinded cell color. Keeping the two defaults as distinct kinds
// makes the cursor overlay a pure foreground/background field swap: a
// swapped default still resolves against the theme slot it came from.
type Color struct {
	Kind  ColorKind
	Index uint8
	Value color.RGBA
}

// Cell is a screen cell: a character plus its foreground and background.
type Cell struct {
	Char rune
	FG   Color
	BG   Color
}

// Blank is the value of a cell nothing has been written to.
var Blank = Cell{Char: ' ', FG: Color{Kind: DefaultFG}, BG: Color{Kind: DefaultBG}}

// Emulator is the capability replay drives: feed raw terminal bytes, read
// back the character grid and the cursor. Implementations interpret ANSI
// however they see fit; replay depends only on this contract.
type Emulator interface {
	// Reset discards all state and resizes the screen.
	Reset(columns, rows int)
	// Feed interprets one chunk of terminal output.
	Feed(p []byte) error
	// Size reports the screen dimensions in character cells.
	Size() (columns, rows int)
	// Cell reports the cell at (row, col) and whether it is occupied,
	// i.e. carries non-blank content or non-default style. Out-of-range
	// positions report an unoccupied blank cell.
	Cell(row, col int) (Cell, bool)
	// Cursor reports the cursor position and visibility.
	Cursor() (row, col int, visible bool)
}
