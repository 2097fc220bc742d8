package vt

import (
	"image/color"
	"regexp"

	"github.com/tonistiigi/vt100"
)

var (
	// oscSequenceRegex matches OSC 8 hyperlink sequences that vt100
	// doesn't handle. Format: ESC ] 8 ; params ; URI ST (where ST is
	// ESC \ or BEL)
	oscSequenceRegex = regexp.MustCompile(`\x1b\]8;[^;]*;[^\x1b\x07]*(?:\x1b\\|\x07)`)

	// dectcemRegex matches the DECTCEM cursor show/hide sequences, which
	// vt100 does not model.
	dectcemRegex = regexp.MustCompile(`\x1b\[\?25[hl]`)
)

// Screen implements Emulator on a vt100 terminal. Cursor visibility is
// tracked here by scanning fed bytes for DECTCEM, since the underlying
// emulator doesn't expose it.
type Screen struct {
	vt      *vt100.VT100
	columns int
	rows    int
	hidden  bool
}

// NewScreen returns a Screen sized columns x rows with a visible cursor.
func NewScreen(columns, rows int) *Screen {
	return &Screen{
		vt:      vt100.NewVT100(rows, columns),
		columns: columns,
		rows:    rows,
	}
}

func (s *Screen) Reset(columns, rows int) {
	s.vt = vt100.NewVT100(rows, columns)
	s.columns = columns
	s.rows = rows
	s.hidden = false
}

func (s *Screen) Feed(p []byte) error {
	if marks := dectcemRegex.FindAll(p, -1); len(marks) > 0 {
		last := marks[len(marks)-1]
		s.hidden = last[len(last)-1] == 'l'
	}
	cleaned := oscSequenceRegex.ReplaceAll(p, nil)
	cleaned = dectcemRegex.ReplaceAll(cleaned, nil)
	// vt100's write errors are parse complaints about sequences it
	// doesn't model; the grid stays valid, so they are not surfaced.
	_, _ = s.vt.Write(cleaned)
	return nil
}

func (s *Screen) Size() (columns, rows int) {
	return s.columns, s.rows
}

func (s *Screen) Cell(row, col int) (Cell, bool) {
	if row < 0 || row >= s.rows || col < 0 || col >= s.columns {
		return Blank, false
	}
	ch := s.vt.Content[row][col]
	f := s.vt.Format[row][col]
	cell := Cell{
		Char: ch,
		FG:   formatColor(f.Fg, DefaultFG),
		BG:   formatColor(f.Bg, DefaultBG),
	}
	if f.Inverse {
		cell.FG, cell.BG = cell.BG, cell.FG
	}
	if cell.Char == 0 {
		cell.Char = ' '
	}
	occupied := cell.Char != ' ' ||
		cell.FG.Kind != DefaultFG ||
		cell.BG.Kind != DefaultBG
	return cell, occupied
}

func (s *Screen) Cursor() (row, col int, visible bool) {
	return s.vt.Cursor.Y, s.vt.Cursor.X, !s.hidden
}

// formatColor converts a vt100 format color to a kinded Color. vt100 keeps
// colors as concrete RGBA with the zero value meaning "unset", so palette
// entries surface here as direct RGB.
func formatColor(c color.RGBA, def ColorKind) Color {
	if c.R == 0 && c.G == 0 && c.B == 0 && c.A == 0 {
		return Color{Kind: def}
	}
	return Color{Kind: RGBColor, Value: c}
}
