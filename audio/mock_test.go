// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"math"
)

// mockSource generates interleaved samples from a waveform function.
type mockSource struct {
	format   Format
	frames   int
	read     int
	waveform func(frame, channel int) float32
	closed   bool
}

func newMockSource(sampleRate, channels, frames int, waveform func(frame, channel int) float32) *mockSource {
	return &mockSource{
		format: Format{
			SampleRate: sampleRate,
			Channels:   channels,
			BitDepth:   16,
			Encoding:   EncodingLinear,
		},
		frames:   frames,
		waveform: waveform,
	}
}

func newConstantSource(sampleRate, channels, frames int, value float32) *mockSource {
	return newMockSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

func newSineSource(sampleRate, channels, frames int, frequency float64) *mockSource {
	return newMockSource(sampleRate, channels, frames, func(frame, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// newRampSource yields frame/frames on every channel.
func newRampSource(sampleRate, channels, frames int) *mockSource {
	return newMockSource(sampleRate, channels, frames, func(frame, _ int) float32 {
		return float32(frame) / float32(frames)
	})
}

func (m *mockSource) Format() Format { return m.format }
func (m *mockSource) Close() error   { m.closed = true; return nil }

func (m *mockSource) ReadSamples(dst []float32) (int, error) {
	if m.read >= m.frames {
		return 0, io.EOF
	}

	ch := m.format.Channels
	n := min(len(dst)/ch, m.frames-m.read)
	for f := range n {
		for c := range ch {
			dst[f*ch+c] = m.waveform(m.read+f, c)
		}
	}
	m.read += n

	if m.read >= m.frames {
		return n * ch, io.EOF
	}
	return n * ch, nil
}
