package tone

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type toneFile struct {
	Tones map[Tag]toneEntry `yaml:"tones"`
}

type toneEntry struct {
	Frequency  float64 `yaml:"frequency_hz"`
	DurationMS int     `yaml:"duration_ms"`
}

// LoadTable reads a YAML tone table and overlays it on DefaultTable:
//
//	tones:
//	  digit: {frequency_hz: 440, duration_ms: 80}
//
// Tags missing from the file keep their default cue.
func LoadTable(r io.Reader) (Table, error) {
	var f toneFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode tone table: %w", err)
	}

	table := DefaultTable()
	for tag, e := range f.Tones {
		if e.Frequency <= 0 {
			return nil, fmt.Errorf("tone %q: frequency_hz must be positive", tag)
		}
		if e.DurationMS <= 0 {
			return nil, fmt.Errorf("tone %q: duration_ms must be positive", tag)
		}
		table[tag] = Tone{
			Frequency: e.Frequency,
			Duration:  time.Duration(e.DurationMS) * time.Millisecond,
		}
	}
	return table, nil
}

// LoadTableFile is LoadTable on a file. An empty path yields DefaultTable.
func LoadTableFile(path string) (Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tone table: %w", err)
	}
	defer f.Close()

	return LoadTable(f)
}
