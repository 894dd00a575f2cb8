// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides generated audio.Source values for tests.
package audiotest

import (
	"io"
	"math"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/dsp"
)

// MockSource generates interleaved samples from a waveform function.
// It reports itself as 16-bit linear PCM unless the format is overridden.
type MockSource struct {
	format   audio.Format
	frames   int // total frames to generate
	read     int // frames generated so far
	waveform func(frame, channel int) float32
}

// NewMockSource creates a source of frames frames per channel.
func NewMockSource(sampleRate, channels, frames int, waveform func(frame, channel int) float32) *MockSource {
	return &MockSource{
		format: audio.Format{
			SampleRate: sampleRate,
			Channels:   channels,
			BitDepth:   16,
			Encoding:   audio.EncodingLinear,
		},
		frames:   frames,
		waveform: waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(frame, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantSource creates a mock source with constant value.
func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 {
		return value
	})
}

// NewPCMSource replays mono 16-bit samples exactly.
func NewPCMSource(sampleRate int, samples []int16) *MockSource {
	return NewMockSource(sampleRate, 1, len(samples), func(frame, _ int) float32 {
		return dsp.Int16ToFloat32(samples[frame])
	})
}

// WithFormat overrides the reported format, keeping the generated data.
func (m *MockSource) WithFormat(f audio.Format) *MockSource {
	m.format = f
	return m
}

func (m *MockSource) Format() audio.Format { return m.format }
func (m *MockSource) Close() error         { return nil }

// Reset rewinds the generator.
func (m *MockSource) Reset() {
	m.read = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
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
