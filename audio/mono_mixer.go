// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MonoMixer folds an interleaved multi-channel source into mono by averaging
// the channels of each frame. Mono sources pass through untouched.
type MonoMixer struct {
	src      Source
	channels int
	tmp      []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{
		src:      src,
		channels: src.Format().Channels,
	}
}

// Format reports the source format with the channel count folded to one.
func (m *MonoMixer) Format() Format {
	f := m.src.Format()
	f.Channels = 1
	return f
}

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// ReadSamples writes at most len(dst) mono frames.
func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if m.channels < 1 {
		return 0, ErrNoChannels
	}
	if m.channels == 1 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * m.channels
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp)
	frames := n / m.channels
	if frames == 0 {
		return 0, err
	}

	if m.channels == 2 {
		for f := range frames {
			dst[f] = (m.tmp[2*f] + m.tmp[2*f+1]) * 0.5
		}
		return frames, err
	}

	inv := 1 / float32(m.channels)
	for f := range frames {
		var sum float32
		for _, v := range m.tmp[f*m.channels : (f+1)*m.channels] {
			sum += v
		}
		dst[f] = sum * inv
	}

	return frames, err
}
