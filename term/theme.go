package term

import (
	"os"

	"github.com/muesli/termenv"
	xterm "golang.org/x/term"

	"termcast/asciicast"
)

// xtermPalette is the stock xterm 16-color palette, used when the terminal
// answers the default fg/bg query but its palette cannot be read.
var xtermPalette = [16]asciicast.Color{
	"#000000", "#cd0000", "#00cd00", "#cdcd00",
	"#0000ee", "#cd00cd", "#00cdcd", "#e5e5e5",
	"#7f7f7f", "#ff0000", "#00ff00", "#ffff00",
	"#5c5cff", "#ff00ff", "#00ffff", "#ffffff",
}

// DefaultTheme is a plain light-on-dark fallback theme.
var DefaultTheme = &asciicast.Theme{
	Foreground: "#e5e5e5",
	Background: "#000000",
	Palette:    xtermPalette,
}

// ResolveTheme picks the effective theme by strict precedence: the theme
// recorded in the cast header, then the caller-supplied theme, then the
// fallback. Returns nil when all three are nil.
func ResolveTheme(header, caller, fallback *asciicast.Theme) *asciicast.Theme {
	switch {
	case header != nil:
		return header
	case caller != nil:
		return caller
	default:
		return fallback
	}
}

// DetectTheme queries the controlling terminal for its default foreground
// and background colors and pairs them with the stock xterm palette.
// Returns nil when stdout is not a terminal, so recordings made through
// pipes simply carry no theme.
func DetectTheme() *asciicast.Theme {
	if !xterm.IsTerminal(int(os.Stdout.Fd())) {
		return nil
	}
	out := termenv.DefaultOutput()
	fg := termenv.ConvertToRGB(out.ForegroundColor()).Hex()
	bg := termenv.ConvertToRGB(out.BackgroundColor()).Hex()
	return &asciicast.Theme{
		Foreground: asciicast.Color(fg),
		Background: asciicast.Color(bg),
		Palette:    xtermPalette,
	}
}
