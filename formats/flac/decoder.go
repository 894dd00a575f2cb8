// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/dsp"
)

// frameParser is the part of flac.Stream the source needs.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

type source struct {
	stream  frameParser
	format  audio.Format
	buf     []float32
	pending []float32
	eof     bool
}

func (s *source) Format() audio.Format { return s.format }

func (s *source) Close() error {
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("closing flac stream: %w", err)
	}
	return nil
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	written := 0
	for written < len(dst) {
		if len(s.pending) > 0 {
			n := copy(dst[written:], s.pending)
			s.pending = s.pending[n:]
			written += n
			continue
		}

		if s.eof {
			break
		}

		f, err := s.stream.ParseNext()
		if errors.Is(err, io.EOF) {
			s.eof = true
			break
		}
		if err != nil {
			return written, fmt.Errorf("decoding flac frame: %w", err)
		}
		s.interleave(f)
	}

	if written == 0 && s.eof && len(dst) > 0 {
		return 0, io.EOF
	}

	return written, nil
}

// interleave turns the per-channel subframes of f into normalised
// interleaved samples stored in pending.
func (s *source) interleave(f *frame.Frame) {
	channels := len(f.Subframes)
	if channels == 0 {
		s.pending = s.pending[:0]
		return
	}

	frames := len(f.Subframes[0].Samples)
	need := frames * channels
	if cap(s.buf) < need {
		s.buf = make([]float32, need)
	}
	s.buf = s.buf[:need]

	depth := s.format.BitDepth
	for ch, sub := range f.Subframes {
		for i, v := range sub.Samples[:min(frames, len(sub.Samples))] {
			s.buf[i*channels+ch] = dsp.IntToFloat32(int(v), depth)
		}
	}

	s.pending = s.buf
}

// Decoder reads native FLAC streams through github.com/mewkiz/flac.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlac, err)
	}

	info := stream.Info
	if info == nil || info.NChannels == 0 || info.SampleRate == 0 {
		_ = stream.Close()
		return nil, ErrNotFlac
	}
	if info.BitsPerSample > 32 {
		_ = stream.Close()
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, info.BitsPerSample)
	}

	return &source{
		stream: stream,
		format: audio.Format{
			SampleRate: int(info.SampleRate),
			Channels:   int(info.NChannels),
			BitDepth:   int(info.BitsPerSample),
			Encoding:   audio.EncodingLinear,
		},
	}, nil
}
