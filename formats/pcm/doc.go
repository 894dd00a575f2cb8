// SPDX-License-Identifier: EPL-2.0

// Package pcm reads raw, headerless PCM.
//
// A raw stream carries no description of itself, so the Decoder value holds
// the layout the caller vouches for:
//
//	src, err := pcm.Decoder{SampleRate: 22050, Channels: 1, BitDepth: 16}.Decode(r)
package pcm
