// Package tone maps calculator feedback events to short sine cues and plays
// them without ever blocking or failing the caller.
package tone

import (
	"sort"
	"time"
)

// Tag names a feedback event.
type Tag string

const (
	Button   Tag = "button"
	Digit    Tag = "digit"
	Operator Tag = "operator"
	Clear    Tag = "clear"
	Equals   Tag = "equals"
	Error    Tag = "error"
)

// Tone is a single sine cue.
type Tone struct {
	Frequency float64       `json:"frequency_hz"`
	Duration  time.Duration `json:"-"`
}

// DurationMillis reports the cue length in whole milliseconds.
func (t Tone) DurationMillis() int64 {
	return t.Duration.Milliseconds()
}

// Table maps tags to tones.
type Table map[Tag]Tone

// DefaultTable returns the stock cue set: a C-major arpeggio for input and
// a low F for errors.
func DefaultTable() Table {
	return Table{
		Button:   {Frequency: 523.25, Duration: 100 * time.Millisecond},
		Digit:    {Frequency: 659.25, Duration: 100 * time.Millisecond},
		Operator: {Frequency: 783.99, Duration: 100 * time.Millisecond},
		Clear:    {Frequency: 392.00, Duration: 200 * time.Millisecond},
		Equals:   {Frequency: 1046.50, Duration: 300 * time.Millisecond},
		Error:    {Frequency: 349.23, Duration: 500 * time.Millisecond},
	}
}

// Lookup returns the tone for tag.
func (t Table) Lookup(tag Tag) (Tone, bool) {
	tn, ok := t[tag]
	return tn, ok
}

// Tags returns the table's tags in lexical order.
func (t Table) Tags() []Tag {
	tags := make([]Tag, 0, len(t))
	for tag := range t {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}
