// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decode-side building blocks that turn encoded
// clips into mono 16-bit PCM for the mixer.
//
// # Source Interface
//
// Every decoder and processing stage implements Source:
//
//	type Source interface {
//	    Format() Format
//	    ReadSamples(dst []float32) (int, error)
//	    Close() error
//	}
//
// Format carries the native rate, channel count, bit depth and Encoding of
// the stream so callers can tell a 16-bit linear WAV apart from an MP3 that
// merely decodes to 16-bit values.
//
// # Format Registry
//
// Registry maps names and file extensions to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register(wav.Decoder{}, "wav", "wave")
//	decoder, err := registry.ForPath("beep.wav")
//
// # Conversion
//
// ToMono16 drains a Source into []int16 at a target rate, inserting a
// MonoMixer and a Resampler only when the stream needs them:
//
//	pcm, err := audio.ToMono16(src, 22050, 4096)
//
// Samples inside the pipeline are float32 in [-1.0, 1.0); see package dsp for
// the exact int16 mapping.
//
// # Error Handling
//
// Sources return io.EOF when no more data is available. A source that keeps
// returning neither data nor an error makes the pipeline fail with
// io.ErrNoProgress instead of spinning.
package audio
