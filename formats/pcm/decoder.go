// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/dsp"
)

type source struct {
	r      io.Reader
	format audio.Format
	width  int
	buf    []byte
}

func (s *source) Format() audio.Format { return s.format }

func (s *source) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("closing pcm reader: %w", err)
		}
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := len(dst) * s.width
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	n, err := io.ReadFull(s.r, s.buf)
	samples := n / s.width
	for i := range samples {
		dst[i] = s.sample(s.buf[i*s.width:])
	}

	switch {
	case err == nil:
		return samples, nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// A trailing partial sample is dropped.
		return samples, io.EOF
	default:
		return samples, fmt.Errorf("reading pcm samples: %w", err)
	}
}

func (s *source) sample(b []byte) float32 {
	switch s.width {
	case 1:
		return dsp.IntToFloat32(int(b[0])-128, 8)
	case 2:
		return dsp.Int16ToFloat32(int16(binary.LittleEndian.Uint16(b)))
	case 3:
		v := int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16
		return dsp.IntToFloat32(int(v), 24)
	default:
		return dsp.IntToFloat32(int(int32(binary.LittleEndian.Uint32(b))), 32)
	}
}

// Decoder reads headerless interleaved little-endian PCM whose layout is
// declared up front. 8-bit data is unsigned like in WAV files; wider samples
// are two's complement.
type Decoder struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

func (d Decoder) Format() (audio.Format, error) {
	if d.SampleRate <= 0 || d.Channels <= 0 {
		return audio.Format{}, fmt.Errorf("%w: %dHz, %d channels", ErrInvalidLayout, d.SampleRate, d.Channels)
	}

	switch d.BitDepth {
	case 8, 16, 24, 32:
	default:
		return audio.Format{}, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, d.BitDepth)
	}

	return audio.Format{
		SampleRate: d.SampleRate,
		Channels:   d.Channels,
		BitDepth:   d.BitDepth,
		Encoding:   audio.EncodingLinear,
	}, nil
}

func (d Decoder) Decode(r io.Reader) (audio.Source, error) {
	format, err := d.Format()
	if err != nil {
		return nil, err
	}

	return &source{r: r, format: format, width: d.BitDepth / 8}, nil
}
