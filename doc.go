// SPDX-License-Identifier: EPL-2.0

// Package audmix is a small software mixer for devices that play short sound
// effects over a single mono output.
//
// Clips are decoded once into immutable clip.Buffer values and then played on
// any of a fixed number of channels of a mixer.Engine, which sums the playing
// channels with saturation into fixed-size periods and hands them to a
// sink.Sink (an audio device or a WAV file).
//
// This package is the decode boundary. It turns encoded audio into clips:
//
//	buf, err := audmix.DecodeFile("laser.wav", audmix.LoadOptions{})
//	if errors.Is(err, clip.ErrUnsupportedFormat) {
//	    // not mono 16-bit at 22050 Hz; retry with Convert: true
//	}
//
// By default only mono 16-bit linear PCM at the designated rate is accepted.
// With LoadOptions.Convert any decodable input is downmixed with
// audio.MonoMixer, resampled with audio.Resampler and quantised to 16 bits
// first. The engine itself never converts.
//
// # Supported Formats
//
//   - WAV via formats/wav (go-audio/wav)
//   - AIFF via formats/aiff (go-audio/aiff)
//   - MP3 via formats/mp3 (hajimehoshi/go-mp3)
//   - Ogg Vorbis via formats/vorbis (jfreymuth/oggvorbis)
//   - FLAC via formats/flac (mewkiz/flac)
//   - raw PCM via formats/pcm
//
// # Playing
//
//	eng, err := mixer.Start(mixer.DefaultConfig(), snk)
//	if err != nil {
//	    return err
//	}
//	defer eng.Stop()
//
//	_ = eng.Assign(0, buf)
//	_ = eng.SetVolume(0, 0.8)
//	_ = eng.SetPlaying(0, true)
package audmix
