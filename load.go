// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/clip"
	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/flac"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/pcm"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
)

// LoadOptions controls how decoded audio becomes a clip.
type LoadOptions struct {
	// SampleRate is the designated engine rate; 0 means clip.DefaultSampleRate.
	SampleRate int `yaml:"sample_rate"`
	// Convert downmixes and resamples input that is not already mono 16-bit
	// linear PCM at SampleRate. Without it such input is refused with
	// clip.ErrUnsupportedFormat.
	Convert bool `yaml:"convert"`
	// BufferSize is the read block in samples; 0 means 4096.
	BufferSize int `yaml:"buffer_size"`
}

func (o LoadOptions) rate() int {
	if o.SampleRate > 0 {
		return o.SampleRate
	}
	return clip.DefaultSampleRate
}

// DefaultRegistry returns a registry with every bundled decoder bound to its
// usual file extensions. Raw PCM is registered as 16-bit mono at
// clip.DefaultSampleRate.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(wav.Decoder{}, "wav", "wave")
	reg.Register(aiff.Decoder{}, "aif", "aiff", "aifc")
	reg.Register(mp3.Decoder{}, "mp3")
	reg.Register(vorbis.Decoder{}, "ogg", "oga")
	reg.Register(flac.Decoder{}, "flac")
	reg.Register(pcm.Decoder{SampleRate: clip.DefaultSampleRate, Channels: 1, BitDepth: 16}, "pcm", "raw")

	return reg
}

var defaultRegistry = sync.OnceValue(DefaultRegistry)

// Load drains src into a clip and closes it.
func Load(src audio.Source, opts LoadOptions) (*clip.Buffer, error) {
	defer src.Close()

	rate := opts.rate()
	format := src.Format()
	if !opts.Convert && !format.IsMono16(rate) {
		return nil, fmt.Errorf("%w: %s, want %s", clip.ErrUnsupportedFormat, format, clip.Mono16(rate))
	}

	frames, err := audio.ToMono16(src, rate, opts.BufferSize)
	if err != nil {
		return nil, fmt.Errorf("decoding samples: %w", err)
	}

	return clip.New(frames, clip.Mono16(rate))
}

// Decode reads a clip of the given kind ("wav", "mp3", ...) from r.
func Decode(r io.Reader, kind string, opts LoadOptions) (*clip.Buffer, error) {
	dec, ok := defaultRegistry().Get(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", audio.ErrUnknownFormat, kind)
	}

	return decodeWith(dec, r, opts)
}

// DecodeFile reads a clip from path, picking the decoder by extension.
func DecodeFile(path string, opts LoadOptions) (*clip.Buffer, error) {
	dec, err := defaultRegistry().ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening clip: %w", err)
	}
	defer f.Close()

	b, err := decodeWith(dec, f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return b, nil
}

// FromWAV decodes an in-memory WAV file.
func FromWAV(data []byte, opts LoadOptions) (*clip.Buffer, error) {
	return decodeWith(wav.Decoder{}, bytes.NewReader(data), opts)
}

// FromPCM builds a clip from headerless little-endian PCM with the given layout.
func FromPCM(data []byte, bits, rate, channels int, opts LoadOptions) (*clip.Buffer, error) {
	dec := pcm.Decoder{SampleRate: rate, Channels: channels, BitDepth: bits}
	return decodeWith(dec, bytes.NewReader(data), opts)
}

func decodeWith(dec audio.Decoder, r io.Reader, opts LoadOptions) (*clip.Buffer, error) {
	src, err := dec.Decode(r)
	if err != nil {
		return nil, err
	}

	return Load(src, opts)
}
