package asciicast

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

// ErrNoHeader is returned when events are written before the header.
var ErrNoHeader = errors.New("asciicast: header not written")

// Writer streams cast records to w, one JSON line per record.
type Writer struct {
	w           *bufio.Writer
	wroteHeader bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteHeader writes the cast header. It must be called exactly once,
// before any event.
func (w *Writer) WriteHeader(h Header) error {
	if w.wroteHeader {
		return errors.New("asciicast: header written twice")
	}
	if err := h.Validate(); err != nil {
		return err
	}
	if err := w.writeLine(h); err != nil {
		return err
	}
	w.wroteHeader = true
	// Events arrive at human pace; flushing per record keeps the file
	// valid if the process dies mid-recording.
	return w.w.Flush()
}

func (w *Writer) WriteEvent(e Event) error {
	if !w.wroteHeader {
		return ErrNoHeader
	}
	if err := w.writeLine(e); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *Writer) writeLine(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(data); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush flushes buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Reader decodes a cast stream lazily, line by line.
type Reader struct {
	s *bufio.Scanner
}

func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &Reader{s: s}
}

// Records yields the decoded records in file order, Header first. Decoding
// stops at the first malformed line; blank lines are skipped.
func (r *Reader) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		sawHeader := false
		line := 0
		for r.s.Scan() {
			line++
			text := strings.TrimSpace(r.s.Text())
			if text == "" {
				continue
			}
			if !sawHeader {
				var h Header
				if err := json.Unmarshal([]byte(text), &h); err != nil {
					yield(nil, fmt.Errorf("line %d: decoding header: %w", line, err))
					return
				}
				if err := h.Validate(); err != nil {
					yield(nil, fmt.Errorf("line %d: %w", line, err))
					return
				}
				sawHeader = true
				if !yield(h, nil) {
					return
				}
				continue
			}
			var e Event
			if err := json.Unmarshal([]byte(text), &e); err != nil {
				yield(nil, fmt.Errorf("line %d: decoding event: %w", line, err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := r.s.Err(); err != nil {
			yield(nil, err)
			return
		}
		if !sawHeader {
			yield(nil, errors.New("asciicast: empty cast"))
		}
	}
}
