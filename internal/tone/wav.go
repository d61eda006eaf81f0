package tone

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"time"
)

const (
	// SampleRate of rendered cues.
	SampleRate = 44100

	startGain = 0.3
	endGain   = 0.01
)

// Render writes t as a 16-bit mono PCM WAV. The envelope starts at gain 0.3
// and decays exponentially to 0.01 over the cue.
func Render(w io.Writer, t Tone) error {
	n := int(int64(t.Duration) * SampleRate / int64(time.Second))
	dataLen := uint32(n * 2)

	var buf bytes.Buffer
	buf.Grow(44 + int(dataLen))

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))           // chunk size
	binary.Write(&buf, binary.LittleEndian, uint16(1))            // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1))            // mono
	binary.Write(&buf, binary.LittleEndian, uint32(SampleRate))   // sample rate
	binary.Write(&buf, binary.LittleEndian, uint32(SampleRate*2)) // byte rate
	binary.Write(&buf, binary.LittleEndian, uint16(2))            // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16))           // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataLen)

	decay := 0.0
	if n > 1 {
		decay = math.Log(endGain/startGain) / float64(n-1)
	}
	for i := 0; i < n; i++ {
		gain := startGain * math.Exp(decay*float64(i))
		s := gain * math.Sin(2*math.Pi*t.Frequency*float64(i)/SampleRate)
		binary.Write(&buf, binary.LittleEndian, int16(s*math.MaxInt16))
	}

	_, err := w.Write(buf.Bytes())
	return err
}
