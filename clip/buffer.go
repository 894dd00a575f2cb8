// SPDX-License-Identifier: EPL-2.0

package clip

import (
	"fmt"
	"time"

	"github.com/ik5/audmix/audio"
)

// DefaultSampleRate is the rate clips are decoded to unless told otherwise.
const DefaultSampleRate = 22050

// Buffer is an immutable block of mono 16-bit frames.
type Buffer struct {
	frames []int16
	rate   int
}

// New copies frames into a Buffer. format is what the decode step reports
// for frames; anything but mono 16-bit linear PCM at a positive rate fails
// with ErrInvalidFormat.
func New(frames []int16, format audio.Format) (*Buffer, error) {
	if format.Channels != 1 || format.BitDepth != 16 ||
		format.Encoding != audio.EncodingLinear || format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}
	if len(frames) == 0 {
		return nil, ErrEmpty
	}

	return &Buffer{
		frames: append([]int16(nil), frames...),
		rate:   format.SampleRate,
	}, nil
}

// Mono16 is the format descriptor New accepts at rate.
func Mono16(rate int) audio.Format {
	return audio.Format{
		SampleRate: rate,
		Channels:   1,
		BitDepth:   16,
		Encoding:   audio.EncodingLinear,
	}
}

// Valid reports whether b holds playable frames. A nil Buffer is not valid.
func (b *Buffer) Valid() bool {
	return b != nil && len(b.frames) > 0
}

// Len is the frame count.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.frames)
}

func (b *Buffer) SampleRate() int {
	if b == nil {
		return 0
	}
	return b.rate
}

// Duration is the playing time of the whole clip.
func (b *Buffer) Duration() time.Duration {
	if !b.Valid() || b.rate <= 0 {
		return 0
	}
	return time.Duration(len(b.frames)) * time.Second / time.Duration(b.rate)
}

// SampleAt returns frame i, or 0 when i is outside the clip.
func (b *Buffer) SampleAt(i int) int16 {
	if b == nil || i < 0 || i >= len(b.frames) {
		return 0
	}
	return b.frames[i]
}
