package term

import (
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termcast/asciicast"
)

func eventSeq(events []asciicast.Event) iter.Seq2[asciicast.Event, error] {
	return func(yield func(asciicast.Event, error) bool) {
		for _, ev := range events {
			if !yield(ev, nil) {
				return
			}
		}
	}
}

func collectEvents(t *testing.T, seq iter.Seq2[asciicast.Event, error]) []asciicast.Event {
	t.Helper()
	var out []asciicast.Event
	for ev, err := range seq {
		require.NoError(t, err)
		out = append(out, ev)
	}
	return out
}

func outputEvents(times []int, payloads []string) []asciicast.Event {
	events := make([]asciicast.Event, len(times))
	for i, ms := range times {
		events[i] = asciicast.Event{
			Time: time.Duration(ms) * time.Millisecond,
			Type: asciicast.Output,
			Data: []byte(payloads[i]),
		}
	}
	return events
}

func TestGroup(t *testing.T) {
	input := outputEvents(
		[]int{0, 50, 80, 200, 210, 300, 310, 320, 330},
		[]string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
	)

	got := collectEvents(t, Group(eventSeq(input), 50*time.Millisecond, 1234*time.Millisecond))

	want := []asciicast.Event{
		{Time: 0, Type: asciicast.Output, Data: []byte("1"), Duration: 50 * time.Millisecond},
		{Time: 50 * time.Millisecond, Type: asciicast.Output, Data: []byte("23"), Duration: 150 * time.Millisecond},
		{Time: 200 * time.Millisecond, Type: asciicast.Output, Data: []byte("45"), Duration: 100 * time.Millisecond},
		{Time: 300 * time.Millisecond, Type: asciicast.Output, Data: []byte("6789"), Duration: 1234 * time.Millisecond},
	}
	assert.Equal(t, want, got)
}

func TestGroupProperties(t *testing.T) {
	tests := []struct {
		name     string
		times    []int
		payloads []string
		min      int
		max      int
	}{
		{
			name:     "bursts",
			times:    []int{0, 1, 2, 120, 121, 500, 2000},
			payloads: []string{"a", "b", "c", "d", "e", "f", "g"},
			min:      50,
			max:      1000,
		},
		{
			name:     "all merged",
			times:    []int{0, 10, 20, 30},
			payloads: []string{"w", "x", "y", "z"},
			min:      100,
			max:      400,
		},
		{
			name:     "none merged",
			times:    []int{0, 100, 200, 5000},
			payloads: []string{"p", "q", "r", "s"},
			min:      10,
			max:      800,
		},
		{
			name:     "single event",
			times:    []int{42},
			payloads: []string{"solo"},
			min:      50,
			max:      1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := outputEvents(tt.times, tt.payloads)
			min := time.Duration(tt.min) * time.Millisecond
			max := time.Duration(tt.max) * time.Millisecond

			got := collectEvents(t, Group(eventSeq(input), min, max))
			require.NotEmpty(t, got)

			// Output times are a strictly increasing subsequence of
			// the input times.
			inputTimes := make(map[time.Duration]bool, len(input))
			for _, ev := range input {
				inputTimes[ev.Time] = true
			}
			var prev time.Duration = -1
			for _, g := range got {
				assert.True(t, inputTimes[g.Time], "group time %v not an input time", g.Time)
				assert.Greater(t, g.Time, prev)
				prev = g.Time

				assert.Greater(t, g.Duration, time.Duration(0))
				assert.LessOrEqual(t, g.Duration, max)
			}

			// Concatenated group data equals concatenated input data.
			var wantData, gotData []byte
			for _, ev := range input {
				wantData = append(wantData, ev.Data...)
			}
			for _, g := range got {
				gotData = append(gotData, g.Data...)
			}
			assert.Equal(t, wantData, gotData)
		})
	}
}

func TestGroupClampsGapToMax(t *testing.T) {
	input := outputEvents([]int{0, 5000}, []string{"a", "b"})

	got := collectEvents(t, Group(eventSeq(input), 50*time.Millisecond, 1000*time.Millisecond))

	require.Len(t, got, 2)
	assert.Equal(t, 1000*time.Millisecond, got[0].Duration, "gap beyond max must be clamped")
	assert.Equal(t, 1000*time.Millisecond, got[1].Duration, "final group closes with max")
}

func TestGroupEmptyInput(t *testing.T) {
	got := collectEvents(t, Group(eventSeq(nil), 50*time.Millisecond, 1000*time.Millisecond))
	assert.Empty(t, got)
}

func TestGroupPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	seq := iter.Seq2[asciicast.Event, error](func(yield func(asciicast.Event, error) bool) {
		if !yield(asciicast.Event{Type: asciicast.Output, Data: []byte("x")}, nil) {
			return
		}
		yield(asciicast.Event{}, boom)
	})

	var got []asciicast.Event
	var err error
	for ev, e := range Group(seq, 50*time.Millisecond, 1000*time.Millisecond) {
		if e != nil {
			err = e
			break
		}
		got = append(got, ev)
	}
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, got, "open group is abandoned on stream error")
}
