// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio file decoding.
//
// This package uses github.com/hajimehoshi/go-mp3, which always yields stereo
// 16-bit PCM whatever the channel mode of the file. The source therefore reports
// two channels; mono clips need audio.NewMonoMixer or the convert mode of the
// load functions before they can be played.
//
//	src, err := mp3.Decoder{}.Decode(f)
//	if errors.Is(err, mp3.ErrNotMP3) {
//	    // no MPEG frames found
//	}
package mp3
