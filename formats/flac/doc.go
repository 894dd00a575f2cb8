// SPDX-License-Identifier: EPL-2.0

// Package flac decodes native FLAC streams with github.com/mewkiz/flac.
//
// Frames are decoded lazily as samples are read. Every bit depth up to 32 is
// normalised to float32 in [-1, 1] and interleaved in channel order.
package flac
