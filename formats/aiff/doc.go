// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files.
// Integer PCM at 8, 16, 24 and 32 bits is supported with any channel count
// and sample rate. Samples come out as float32 in [-1, 1]; Format reports the
// file's native layout so callers can decide whether a conversion is needed.
//
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not FORM/AIFF
//	}
//
// go-audio needs an io.ReadSeeker. Other readers are buffered into memory first.
package aiff
