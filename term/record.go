package term

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"

	"termcast/asciicast"
)

// ErrSizeQuery is returned when the window size of a descriptor cannot be
// queried. No default size is ever substituted.
var ErrSizeQuery = errors.New("cannot query terminal size")

// GetTerminalSize reports the window size of fd in character cells.
func GetTerminalSize(fd int) (columns, rows int, err error) {
	if !xterm.IsTerminal(fd) {
		return 0, 0, fmt.Errorf("%w: fd %d is not a terminal", ErrSizeQuery, fd)
	}
	columns, rows, err = xterm.GetSize(fd)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrSizeQuery, err)
	}
	return columns, rows, nil
}

// Recording couples a spawned shell with its captured event stream. The
// caller owns the child's lifetime: exhaust Events, then Wait and Close.
// Stopping early leaves the child running; it is the caller's job to
// terminate it.
type Recording struct {
	// Header describes the recording; its Theme is left nil for the
	// caller to fill in (see DetectTheme).
	Header asciicast.Header
	// Events is the captured output stream. It is single-use and ends
	// when the shell exits. It does not reap the child.
	Events iter.Seq2[asciicast.Event, error]

	cmd    *exec.Cmd
	master *os.File
	start  time.Time
}

// Master exposes the pty master, e.g. for window-size propagation.
func (r *Recording) Master() *os.File { return r.master }

// Wait reaps the child shell.
func (r *Recording) Wait() error { return r.cmd.Wait() }

// Close closes the pty master.
func (r *Recording) Close() error { return r.master.Close() }

// Record spawns $SHELL (falling back to /bin/sh) on a freshly allocated pty
// sized columns x rows and returns the recording. Bytes read from inputFD
// are forwarded to the shell; everything the shell writes is echoed to
// outputFD and yielded as a timestamped output event. Record does not touch
// terminal modes; put inputFD in raw mode with MakeRawMode first.
func Record(columns, rows, inputFD, outputFD int) (*Recording, error) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return RecordCommand(shell, columns, rows, inputFD, outputFD)
}

// RecordCommand is Record with an explicit program to run on the pty.
func RecordCommand(program string, columns, rows, inputFD, outputFD int) (*Recording, error) {
	cmd := exec.Command(program)
	cmd.Env = os.Environ()
	master, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(columns),
	})
	if err != nil {
		return nil, fmt.Errorf("starting %s on a pty: %w", program, err)
	}
	rec := &Recording{
		Header: asciicast.Header{
			Version:   asciicast.Version,
			Width:     columns,
			Height:    rows,
			Timestamp: time.Now().Unix(),
		},
		cmd:    cmd,
		master: master,
		start:  time.Now(),
	}
	rec.Events = rec.multiplex(inputFD, outputFD)
	return rec, nil
}

// multiplex is the record loop: one blocking select over the input
// descriptor and the pty master, on a single goroutine. The sequence ends
// when the master reaches end of stream (the child exited); any other I/O
// error is yielded and ends the sequence. Events already yielded stand.
func (r *Recording) multiplex(inputFD, outputFD int) iter.Seq2[asciicast.Event, error] {
	return func(yield func(asciicast.Event, error) bool) {
		masterFD := int(r.master.Fd())
		buf := make([]byte, 4096)
		watchInput := true

		for {
			var fds unix.FdSet
			fds.Set(masterFD)
			nfds := masterFD + 1
			if watchInput {
				fds.Set(inputFD)
				if inputFD >= masterFD {
					nfds = inputFD + 1
				}
			}
			if _, err := unix.Select(nfds, &fds, nil, nil, nil); err != nil {
				if err == unix.EINTR {
					continue
				}
				yield(asciicast.Event{}, fmt.Errorf("waiting on pty: %w", err))
				return
			}

			if watchInput && fds.IsSet(inputFD) {
				n, err := unix.Read(inputFD, buf)
				switch {
				case err == unix.EINTR:
				case err != nil || n == 0:
					// Input went away; keep draining the child.
					watchInput = false
				default:
					if _, err := r.master.Write(buf[:n]); err != nil {
						yield(asciicast.Event{}, fmt.Errorf("writing to pty: %w", err))
						return
					}
				}
			}

			if fds.IsSet(masterFD) {
				n, err := unix.Read(masterFD, buf)
				if err == unix.EINTR {
					continue
				}
				if n == 0 || err == unix.EIO {
					// Linux reports EIO on the master once the
					// child side is gone; both mean end of stream.
					return
				}
				if err != nil {
					yield(asciicast.Event{}, fmt.Errorf("reading from pty: %w", err))
					return
				}
				data := make([]byte, n)
				copy(data, buf[:n])
				if _, err := unix.Write(outputFD, data); err != nil {
					yield(asciicast.Event{}, fmt.Errorf("echoing output: %w", err))
					return
				}
				ev := asciicast.Event{
					Time: time.Since(r.start),
					Type: asciicast.Output,
					Data: data,
				}
				if !yield(ev, nil) {
					return
				}
			}
		}
	}
}
