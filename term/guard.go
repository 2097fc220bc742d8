// Package term is the capture core: pty-based recording of a shell session,
// time-based grouping of the captured events, and replay through a terminal
// emulator into minimal per-row screen diffs.
package term

import (
	"errors"
	"fmt"

	xterm "golang.org/x/term"
)

// ErrNotATerminal is returned when an operation needing a tty is given a
// descriptor that isn't one.
var ErrNotATerminal = errors.New("descriptor is not a terminal")

// ModeGuard holds the terminal attributes captured when raw mode was
// entered, so they can be restored exactly once when the scope ends.
type ModeGuard struct {
	fd       int
	saved    *xterm.State
	restored bool
}

// MakeRawMode captures the current attributes of fd and switches it to raw
// mode: no line buffering, no echo, no signal-generating control characters.
// If fd is not a terminal it fails with ErrNotATerminal and mutates nothing.
func MakeRawMode(fd int) (*ModeGuard, error) {
	if !xterm.IsTerminal(fd) {
		return nil, fmt.Errorf("%w: fd %d", ErrNotATerminal, fd)
	}
	saved, err := xterm.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}
	return &ModeGuard{fd: fd, saved: saved}, nil
}

// Restore puts back the attributes captured by MakeRawMode. Only the first
// call mutates the terminal; later calls and calls on a nil guard are no-ops,
// so it is safe to both defer Restore and call it explicitly.
func (g *ModeGuard) Restore() error {
	if g == nil || g.restored {
		return nil
	}
	g.restored = true
	return xterm.Restore(g.fd, g.saved)
}
