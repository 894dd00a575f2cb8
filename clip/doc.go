// SPDX-License-Identifier: EPL-2.0

// Package clip holds decoded sound clips in the only format the mixer plays:
// mono, signed 16-bit linear PCM at a single sample rate.
//
// A Buffer is immutable once New returns. Any number of mixer channels may
// hold the same *Buffer and read it concurrently without locking; the buffer
// lives as long as its longest holder.
//
//	buf, err := clip.New(samples, audio.Format{
//	    SampleRate: 22050,
//	    Channels:   1,
//	    BitDepth:   16,
//	    Encoding:   audio.EncodingLinear,
//	})
//
// Reading past either end with SampleAt yields silence rather than a panic.
package clip
