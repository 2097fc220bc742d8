package term

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/mattn/go-runewidth"

	"termcast/asciicast"
	"termcast/vt"
)

// ErrNoTheme is returned by Replay, before anything is emitted, when the
// cell mapper needs a theme and none is resolvable.
var ErrNoTheme = errors.New("no theme resolvable and the cell mapper requires one")

// DiffRecord is a sparse per-row screen update: the cells of one row whose
// rendered value changed since the last record emitted for that row. Time
// and Duration are those of the grouped event that produced the change.
type DiffRecord[T any] struct {
	Time     time.Duration `json:"time"`
	Duration time.Duration `json:"duration"`
	Row      int           `json:"row"`
	Cells    map[int]T     `json:"cells"`
}

// Frames is the replay output: the cast header followed by a lazy stream
// of row diffs in non-decreasing time order.
type Frames[T any] struct {
	Header  asciicast.Header
	Records iter.Seq2[DiffRecord[T], error]
}

// Replay feeds a cast record stream through the emulator and yields minimal
// per-row diffs, with the cursor overlaid as a foreground/background swap at
// its cell while visible. The input must start with a Header. Events without
// durations are grouped with (minFrameDuration, maxFrameDuration) first;
// events that already carry durations are consumed as given. A positive
// lastFrameDuration overrides the final event's duration.
//
// The effective theme is resolved as header > theme > fallback; nil is
// acceptable for mappers that do not require one.
func Replay[T any](
	records iter.Seq2[asciicast.Record, error],
	emu vt.Emulator,
	mapper CellMapper[T],
	lastFrameDuration time.Duration,
	theme, fallback *asciicast.Theme,
	minFrameDuration, maxFrameDuration time.Duration,
) (*Frames[T], error) {
	next, stop := iter.Pull2(records)

	rec, err, ok := next()
	if !ok {
		stop()
		return nil, errors.New("empty record stream")
	}
	if err != nil {
		stop()
		return nil, err
	}
	header, ok := rec.(asciicast.Header)
	if !ok {
		stop()
		return nil, errors.New("record stream must start with a header")
	}
	if err := header.Validate(); err != nil {
		stop()
		return nil, err
	}

	resolved := ResolveTheme(header.Theme, theme, fallback)
	if resolved == nil && mapper.RequiresTheme() {
		stop()
		return nil, ErrNoTheme
	}

	emu.Reset(header.Width, header.Height)

	frames := &Frames[T]{Header: header}
	frames.Records = func(yield func(DiffRecord[T], error) bool) {
		defer stop()

		// The remaining records, surfaced as an output-only event
		// stream. Input events never reach the screen.
		events := iter.Seq2[asciicast.Event, error](func(y func(asciicast.Event, error) bool) {
			for {
				rec, err, ok := next()
				if !ok {
					return
				}
				if err != nil {
					y(asciicast.Event{}, err)
					return
				}
				ev, ok := rec.(asciicast.Event)
				if !ok {
					y(asciicast.Event{}, errors.New("header appeared twice in record stream"))
					return
				}
				if ev.Type != asciicast.Output {
					continue
				}
				if !y(ev, nil) {
					return
				}
			}
		})

		evNext, evStop := iter.Pull2(events)
		defer evStop()
		first, err, ok := evNext()
		if !ok {
			return // header-only cast
		}
		if err != nil {
			yield(DiffRecord[T]{}, err)
			return
		}

		stream := iter.Seq2[asciicast.Event, error](func(y func(asciicast.Event, error) bool) {
			if !y(first, nil) {
				return
			}
			for {
				ev, err, ok := evNext()
				if !ok {
					return
				}
				if !y(ev, err) || err != nil {
					return
				}
			}
		})
		if first.Duration == 0 {
			stream = Group(stream, minFrameDuration, maxFrameDuration)
		}

		s := &screenDiff[T]{
			emu:      emu,
			mapper:   mapper,
			theme:    resolved,
			width:    header.Width,
			height:   header.Height,
			snapshot: make(map[int]map[int]vt.Cell, header.Height),
			yield:    yield,
		}

		// One event of lookahead so the final event's duration can be
		// overridden before its diffs are emitted.
		var pending asciicast.Event
		havePending := false
		for ev, err := range stream {
			if err != nil {
				yield(DiffRecord[T]{}, err)
				return
			}
			if havePending && !s.emit(pending) {
				return
			}
			pending = ev
			havePending = true
		}
		if havePending {
			if lastFrameDuration > 0 {
				pending.Duration = lastFrameDuration
			}
			if !s.emit(pending) {
				return
			}
			// A visible cursor parked on an otherwise untouched row
			// was never drawn; give it one closing frame.
			s.emitFinalCursor(pending)
		}
	}
	return frames, nil
}

// screenDiff turns emulator state into minimal per-row diffs. snapshot holds
// the last emitted cell per (row, col), with absent meaning blank, and
// overlay remembers where an emitted cursor overlay currently stands so it
// can be retroactively cleared when the cursor moves or hides. State is one
// screen, not one session.
type screenDiff[T any] struct {
	emu    vt.Emulator
	mapper CellMapper[T]
	theme  *asciicast.Theme
	width  int
	height int

	snapshot   map[int]map[int]vt.Cell
	overlay    bool
	overlayRow int
	overlayCol int

	yield func(DiffRecord[T], error) bool
}

// contentRow reads the occupied cells of one row, without any overlay.
func (s *screenDiff[T]) contentRow(row int) map[int]vt.Cell {
	cells := make(map[int]vt.Cell)
	for col := 0; col < s.width; col++ {
		cell, occupied := s.emu.Cell(row, col)
		if !occupied {
			continue
		}
		cells[col] = cell
		if runewidth.RuneWidth(cell.Char) == 2 {
			col++ // wide rune spills into the next column
		}
	}
	return cells
}

// rowChanges compares a target row against the emitted snapshot. A column
// absent from either side counts as blank, so cells that were emitted and
// later erased come back as vt.Blank.
func (s *screenDiff[T]) rowChanges(target, last map[int]vt.Cell) map[int]vt.Cell {
	changed := make(map[int]vt.Cell)
	for col, cell := range target {
		prev, seen := last[col]
		if !seen {
			prev = vt.Blank
		}
		if cell != prev {
			changed[col] = cell
		}
	}
	for col, prev := range last {
		if _, still := target[col]; still {
			continue
		}
		if prev != vt.Blank {
			changed[col] = vt.Blank
		}
	}
	return changed
}

// emitRow diffs one row, overlaying the cursor when it sits on that row,
// and yields a DiffRecord if anything changed. Reports false when the
// consumer stopped.
func (s *screenDiff[T]) emitRow(ev asciicast.Event, row, curRow, curCol int, cursorHere bool) bool {
	target := s.contentRow(row)
	if cursorHere {
		cell, _ := s.emu.Cell(curRow, curCol)
		cell.FG, cell.BG = cell.BG, cell.FG
		target[curCol] = cell
	}
	changed := s.rowChanges(target, s.snapshot[row])
	if len(changed) == 0 {
		return true
	}
	last := s.snapshot[row]
	if last == nil {
		last = make(map[int]vt.Cell, len(changed))
		s.snapshot[row] = last
	}
	cells := make(map[int]T, len(changed))
	for col, cell := range changed {
		if cell == vt.Blank {
			delete(last, col)
		} else {
			last[col] = cell
		}
		cells[col] = s.mapper.Map(cell, s.theme)
	}
	if cursorHere {
		s.overlay = true
		s.overlayRow, s.overlayCol = curRow, curCol
	}
	return s.yield(DiffRecord[T]{
		Time:     ev.Time,
		Duration: ev.Duration,
		Row:      row,
		Cells:    cells,
	}, nil)
}

// emit feeds one grouped event and yields the resulting row diffs: rows
// whose content changed, plus the row holding a stale cursor overlay. The
// overlay is drawn only on rows being emitted anyway; a cursor resting on
// an untouched row is drawn by emitFinalCursor at the end of the stream.
func (s *screenDiff[T]) emit(ev asciicast.Event) bool {
	if err := s.emu.Feed(ev.Data); err != nil {
		s.yield(DiffRecord[T]{}, fmt.Errorf("feeding emulator: %w", err))
		return false
	}
	curRow, curCol, visible := s.emu.Cursor()
	cursorOn := visible && curCol >= 0 && curCol < s.width && curRow >= 0 && curRow < s.height

	dirty := make(map[int]bool)
	for row := 0; row < s.height; row++ {
		if len(s.rowChanges(s.contentRow(row), s.snapshot[row])) > 0 {
			dirty[row] = true
		}
	}
	if s.overlay && !(cursorOn && curRow == s.overlayRow && curCol == s.overlayCol) {
		// The overlay no longer belongs where it was drawn.
		dirty[s.overlayRow] = true
		s.overlay = false
	}

	for row := 0; row < s.height; row++ {
		if !dirty[row] {
			continue
		}
		if !s.emitRow(ev, row, curRow, curCol, cursorOn && curRow == row) {
			return false
		}
	}
	return true
}

// emitFinalCursor draws the cursor overlay once the stream is done, if it
// is visible and was not already part of the last emitted state.
func (s *screenDiff[T]) emitFinalCursor(ev asciicast.Event) bool {
	curRow, curCol, visible := s.emu.Cursor()
	if !visible || curRow < 0 || curRow >= s.height || curCol < 0 || curCol >= s.width {
		return true
	}
	if s.overlay && s.overlayRow == curRow && s.overlayCol == curCol {
		return true
	}
	return s.emitRow(ev, curRow, curRow, curCol, true)
}
