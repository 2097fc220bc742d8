// Package asciicast implements the asciicast v2 recording container: a JSON
// header object on the first line followed by one JSON event array per line.
// See https://github.com/asciinema/asciinema/blob/develop/doc/asciicast-v2.md
package asciicast

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Version is the asciicast protocol version this package reads and writes.
const Version = 2

// Color is a hex RGB value like "#1e1e1e".
type Color string

// ParseColor validates s as a hex RGB color.
func ParseColor(s string) (Color, error) {
	if _, err := colorful.Hex(s); err != nil {
		return "", fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color(s), nil
}

// Theme is a terminal color scheme: default foreground and background plus
// the 16 base palette colors.
type Theme struct {
	Foreground Color
	Background Color
	Palette    [16]Color
}

type themeJSON struct {
	Fg      string `json:"fg"`
	Bg      string `json:"bg"`
	Palette string `json:"palette"`
}

func (t Theme) MarshalJSON() ([]byte, error) {
	colors := make([]string, len(t.Palette))
	for i, c := range t.Palette {
		colors[i] = string(c)
	}
	return json.Marshal(themeJSON{
		Fg:      string(t.Foreground),
		Bg:      string(t.Background),
		Palette: strings.Join(colors, ":"),
	})
}

func (t *Theme) UnmarshalJSON(data []byte) error {
	var raw themeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fg, err := ParseColor(raw.Fg)
	if err != nil {
		return fmt.Errorf("theme foreground: %w", err)
	}
	bg, err := ParseColor(raw.Bg)
	if err != nil {
		return fmt.Errorf("theme background: %w", err)
	}
	colors := strings.Split(raw.Palette, ":")
	if len(colors) != len(t.Palette) {
		return fmt.Errorf("theme palette has %d colors, want %d", len(colors), len(t.Palette))
	}
	t.Foreground = fg
	t.Background = bg
	for i, c := range colors {
		if t.Palette[i], err = ParseColor(c); err != nil {
			return fmt.Errorf("theme palette color %d: %w", i, err)
		}
	}
	return nil
}

// Header is the first record of every cast.
type Header struct {
	Version   int    `json:"version"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Theme     *Theme `json:"theme,omitempty"`
}

// Validate reports whether the header describes a usable screen.
func (h Header) Validate() error {
	if h.Version != Version {
		return fmt.Errorf("unsupported asciicast version %d", h.Version)
	}
	if h.Width <= 0 || h.Height <= 0 {
		return fmt.Errorf("invalid terminal size %dx%d", h.Width, h.Height)
	}
	return nil
}

// EventType discriminates captured terminal traffic.
type EventType string

const (
	// Output is data the recorded program wrote to its terminal.
	Output EventType = "o"
	// Input is data the user typed.
	Input EventType = "i"
)

// Event is one captured chunk of terminal traffic. Time is the offset from
// the start of the recording and never decreases within a cast. Duration is
// how long the event stays on screen; it is assigned by grouping and is not
// part of the wire format.
type Event struct {
	Time     time.Duration
	Type     EventType
	Data     []byte
	Duration time.Duration
}

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Time.Seconds(), string(e.Type), string(e.Data)})
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("event has %d elements, want 3", len(raw))
	}
	var seconds float64
	if err := json.Unmarshal(raw[0], &seconds); err != nil {
		return fmt.Errorf("event time: %w", err)
	}
	if seconds < 0 {
		return fmt.Errorf("negative event time %v", seconds)
	}
	var typ string
	if err := json.Unmarshal(raw[1], &typ); err != nil {
		return fmt.Errorf("event type: %w", err)
	}
	if typ != string(Output) && typ != string(Input) {
		return fmt.Errorf("unknown event type %q", typ)
	}
	var payload string
	if err := json.Unmarshal(raw[2], &payload); err != nil {
		return fmt.Errorf("event data: %w", err)
	}
	e.Time = time.Duration(seconds * float64(time.Second))
	e.Type = EventType(typ)
	e.Data = []byte(payload)
	e.Duration = 0
	return nil
}

// Record is one element of a cast stream: a Header or an Event. A stream
// carries exactly one Header and it comes first.
type Record interface {
	castRecord()
}

func (Header) castRecord() {}
func (Event) castRecord()  {}
