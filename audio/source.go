// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Encoding tells how a source stored its samples before they were normalised
// to float32.
type Encoding int

const (
	EncodingUnknown Encoding = iota
	// EncodingLinear is integer linear PCM (WAV, AIFF, FLAC, raw PCM).
	EncodingLinear
	// EncodingFloat is IEEE float PCM.
	EncodingFloat
	// EncodingCompressed is a lossy codec (MP3, Vorbis).
	EncodingCompressed
)

func (e Encoding) String() string {
	switch e {
	case EncodingLinear:
		return "linear"
	case EncodingFloat:
		return "float"
	case EncodingCompressed:
		return "compressed"
	default:
		return "unknown"
	}
}

// Format describes the native layout of a decoded stream.
type Format struct {
	SampleRate int
	Channels   int
	// BitDepth of the stored samples; 0 when the codec has no fixed depth.
	BitDepth int
	Encoding Encoding
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch/%dbit/%s", f.SampleRate, f.Channels, f.BitDepth, f.Encoding)
}

// IsMono16 reports whether f is mono 16-bit linear PCM at sampleRate.
func (f Format) IsMono16(sampleRate int) bool {
	return f.Channels == 1 && f.BitDepth == 16 && f.Encoding == EncodingLinear && f.SampleRate == sampleRate
}

type Source interface {
	// Format of the underlying stream.
	Format() Format
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)
	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry maps format names (e.g., "wav", "mp3", "ogg") to decoders.
// Names are case-insensitive.
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.RWMutex{},
	}
}

// Register binds d to every given name, replacing earlier bindings.
func (r *Registry) Register(d Decoder, names ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, name := range names {
		r.codecs[strings.ToLower(name)] = d
	}
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// ForPath picks a decoder by the file extension of path.
func (r *Registry) ForPath(path string) (Decoder, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, path)
	}

	d, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	return d, nil
}

// Formats lists the registered names in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
