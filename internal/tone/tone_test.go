package tone

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestDefaultTableCoversEveryTag(t *testing.T) {
	table := DefaultTable()

	for _, tag := range []Tag{Button, Digit, Operator, Clear, Equals, Error} {
		tn, ok := table.Lookup(tag)
		if !ok {
			t.Fatalf("expected tone for %q", tag)
		}
		if tn.Frequency <= 0 || tn.Duration <= 0 {
			t.Fatalf("tag %q: expected positive frequency and duration, got %+v", tag, tn)
		}
	}

	seen := make(map[float64]Tag)
	for tag, tn := range table {
		if other, dup := seen[tn.Frequency]; dup {
			t.Fatalf("tags %q and %q share frequency %g", tag, other, tn.Frequency)
		}
		seen[tn.Frequency] = tag
	}
}

func TestTagsSorted(t *testing.T) {
	got := DefaultTable().Tags()
	want := []Tag{Button, Clear, Digit, Equals, Error, Operator}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCueFor(t *testing.T) {
	cue := DefaultTable().CueFor(Equals)
	if cue == nil {
		t.Fatal("expected cue for equals")
	}
	if cue.Frequency != 1046.50 || cue.DurationMS != 300 {
		t.Fatalf("unexpected cue %+v", cue)
	}
	if cue.URL != "/tones/equals.wav" {
		t.Fatalf("expected url %q, got %q", "/tones/equals.wav", cue.URL)
	}

	if DefaultTable().CueFor("bogus") != nil {
		t.Fatal("expected nil cue for unknown tag")
	}
}

func TestLoadTable(t *testing.T) {
	src := `
tones:
  digit: {frequency_hz: 440, duration_ms: 80}
  blip:
    frequency_hz: 1200
    duration_ms: 20
`
	table, err := LoadTable(strings.NewReader(src))
	if err != nil {
		t.Fatalf("loading table: %v", err)
	}

	if got := table[Digit]; got.Frequency != 440 || got.Duration != 80*time.Millisecond {
		t.Fatalf("expected overridden digit tone, got %+v", got)
	}
	if got := table["blip"]; got.Frequency != 1200 || got.Duration != 20*time.Millisecond {
		t.Fatalf("expected added blip tone, got %+v", got)
	}
	if got := table[Equals]; got != DefaultTable()[Equals] {
		t.Fatalf("expected default equals tone, got %+v", got)
	}
}

func TestLoadTableEmptyInput(t *testing.T) {
	table, err := LoadTable(strings.NewReader(""))
	if err != nil {
		t.Fatalf("loading empty table: %v", err)
	}
	if !reflect.DeepEqual(table, DefaultTable()) {
		t.Fatalf("expected default table, got %v", table)
	}
}

func TestLoadTableRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "zero frequency", src: "tones:\n  digit: {frequency_hz: 0, duration_ms: 80}\n"},
		{name: "negative duration", src: "tones:\n  digit: {frequency_hz: 440, duration_ms: -1}\n"},
		{name: "not yaml", src: "tones: [\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadTable(strings.NewReader(tc.src)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadTableFileEmptyPath(t *testing.T) {
	table, err := LoadTableFile("")
	if err != nil {
		t.Fatalf("loading table: %v", err)
	}
	if !reflect.DeepEqual(table, DefaultTable()) {
		t.Fatal("expected default table for empty path")
	}
}
