package term

import (
	"errors"
	"os"
	"testing"
	"time"

	"termcast/asciicast"
)

var recordCommands = []string{
	"echo $SHELL\n",
	"ls\n",
	"w",
	"h",
	"o",
	"a",
	"m",
	"i\n",
	"exit\n",
}

func TestGetTerminalSizeRejectsNonTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	if _, _, err := GetTerminalSize(int(r.Fd())); !errors.Is(err, ErrSizeQuery) {
		t.Fatalf("expected ErrSizeQuery, got %v", err)
	}
}

func TestRecord(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	// Pipes in lieu of stdin and stdout.
	inRead, inWrite, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	outRead, outWrite, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer func() {
		for _, f := range []*os.File{inRead, inWrite, outRead, outWrite} {
			f.Close()
		}
	}()

	const columns, rows = 80, 24
	rec, err := RecordCommand("/bin/sh", columns, rows, int(inRead.Fd()), int(outWrite.Fd()))
	if err != nil {
		t.Fatalf("RecordCommand: %v", err)
	}

	if rec.Header.Version != asciicast.Version {
		t.Errorf("header version = %d, want %d", rec.Header.Version, asciicast.Version)
	}
	if rec.Header.Width != columns || rec.Header.Height != rows {
		t.Errorf("header size = %dx%d, want %dx%d",
			rec.Header.Width, rec.Header.Height, columns, rows)
	}

	// Type the session from another goroutine, the way a user would.
	go func() {
		for _, line := range recordCommands {
			inWrite.Write([]byte(line))
			time.Sleep(20 * time.Millisecond)
		}
	}()

	// Drain the echoed output so the pipe never fills up.
	go func() {
		buf := make([]byte, 4096)
		for {
			if _, err := outRead.Read(buf); err != nil {
				return
			}
		}
	}()

	var events []asciicast.Event
	var prev time.Duration = -1
	for ev, evErr := range rec.Events {
		if evErr != nil {
			t.Fatalf("event stream: %v", evErr)
		}
		if ev.Type != asciicast.Output {
			t.Errorf("recorder yielded a %q event, want output only", ev.Type)
		}
		if len(ev.Data) == 0 {
			t.Error("recorder yielded an empty event")
		}
		if ev.Time < prev {
			t.Errorf("event times went backwards: %v after %v", ev.Time, prev)
		}
		if ev.Duration != 0 {
			t.Error("recorded events must not carry durations")
		}
		prev = ev.Time
		events = append(events, ev)
	}

	if len(events) == 0 {
		t.Error("expected at least one output event from the shell")
	}

	// The caller reaps the child and closes the master.
	if err := rec.Wait(); err != nil {
		t.Logf("shell exit: %v", err)
	}
	if err := rec.Close(); err != nil {
		t.Errorf("closing master: %v", err)
	}
}
