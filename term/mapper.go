package term

import (
	"encoding/json"
	"fmt"

	"termcast/asciicast"
	"termcast/vt"
)

// CellMapper converts emulator cells into whatever representation the
// downstream renderer consumes. Map must be a pure function of its inputs.
type CellMapper[T any] interface {
	Map(cell vt.Cell, theme *asciicast.Theme) T
	// RequiresTheme reports whether Map needs a resolved theme. Replay
	// fails up front with ErrNoTheme if it does and none is resolvable.
	RequiresTheme() bool
}

// TextMapper renders cells as bare characters, discarding color. It works
// without a theme.
type TextMapper struct{}

func (TextMapper) Map(cell vt.Cell, _ *asciicast.Theme) string {
	return string(cell.Char)
}

func (TextMapper) RequiresTheme() bool { return false }

// StyledCell is a character with its colors resolved to hex values.
type StyledCell struct {
	Char rune
	FG   asciicast.Color
	BG   asciicast.Color
}

func (c StyledCell) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Char string          `json:"char"`
		FG   asciicast.Color `json:"fg"`
		BG   asciicast.Color `json:"bg"`
	}{string(c.Char), c.FG, c.BG})
}

// StyledMapper resolves cell colors through the theme: default foreground
// and background map to the theme's, palette indices map through the
// theme's 16-color palette, direct colors pass through as hex.
type StyledMapper struct{}

func (StyledMapper) Map(cell vt.Cell, theme *asciicast.Theme) StyledCell {
	return StyledCell{
		Char: cell.Char,
		FG:   resolveColor(cell.FG, theme),
		BG:   resolveColor(cell.BG, theme),
	}
}

func (StyledMapper) RequiresTheme() bool { return true }

func resolveColor(c vt.Color, theme *asciicast.Theme) asciicast.Color {
	switch c.Kind {
	case vt.DefaultFG:
		return theme.Foreground
	case vt.DefaultBG:
		return theme.Background
	case vt.PaletteColor:
		return theme.Palette[int(c.Index)%len(theme.Palette)]
	default:
		return asciicast.Color(fmt.Sprintf("#%02x%02x%02x", c.Value.R, c.Value.G, c.Value.B))
	}
}
