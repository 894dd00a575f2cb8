// SPDX-License-Identifier: EPL-2.0

// Package wav decodes RIFF/WAVE files and writes mono 16-bit WAV.
//
// Decoding is done by github.com/go-audio/wav, so files with extra chunks
// (LIST, fact, cue) before the data chunk are read correctly. Integer PCM at
// 8, 16, 24 and 32 bits is accepted; the returned audio.Source reports the
// file's native audio.Format and yields float32 samples in [-1, 1].
//
//	src, err := wav.Decoder{}.Decode(f)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    // not RIFF/WAVE
//	}
//
// WriteWAV16 writes the mono 16-bit layout clips use through the same
// go-audio encoder. It needs an io.WriteSeeker, such as an *os.File, to patch
// the header sizes once the data is written.
package wav
