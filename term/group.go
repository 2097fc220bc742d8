package term

import (
	"iter"
	"time"

	"termcast/asciicast"
)

// Group merges a timestamped event stream into display-ready groups, each
// carrying an explicit duration. Events closer together than minDuration
// are merged into the open group; an event at least minDuration away closes
// the group with the gap as its duration. The final group is closed with
// maxDuration, and every duration is clamped to maxDuration.
//
// Group is a streaming transform with one group of state; it assumes input
// times are non-decreasing and does not validate that.
func Group(events iter.Seq2[asciicast.Event, error], minDuration, maxDuration time.Duration) iter.Seq2[asciicast.Event, error] {
	return func(yield func(asciicast.Event, error) bool) {
		var current asciicast.Event
		open := false
		for ev, err := range events {
			if err != nil {
				yield(asciicast.Event{}, err)
				return
			}
			if !open {
				current = ev
				current.Data = append([]byte(nil), ev.Data...)
				open = true
				continue
			}
			gap := ev.Time - current.Time
			if gap < minDuration {
				current.Data = append(current.Data, ev.Data...)
				continue
			}
			current.Duration = clamp(gap, maxDuration)
			if !yield(current, nil) {
				return
			}
			current = ev
			current.Data = append([]byte(nil), ev.Data...)
		}
		if open {
			// No following event to measure a gap against.
			current.Duration = maxDuration
			yield(current, nil)
		}
	}
}

func clamp(d, max time.Duration) time.Duration {
	if d > max {
		return max
	}
	return d
}
