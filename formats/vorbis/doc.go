// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with github.com/jfreymuth/oggvorbis.
//
// Vorbis has no fixed sample size, so the source reports a BitDepth of 0 and
// audio.EncodingCompressed. Samples are interleaved float32 in [-1, 1].
package vorbis
