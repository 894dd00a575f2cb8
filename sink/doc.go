// SPDX-License-Identifier: EPL-2.0

// Package sink is the PCM output a mixer writes its periods to.
//
// A [Sink] is opened once with the requested [Params] and reports what the
// device granted. Periods of mono 16-bit frames are then written one at a
// time. When a write fails, [Sink.Recover] gets one chance to bring the
// device back; an error from Recover wraps [ErrFatal].
//
// # Backends
//
//   - [Malgo] plays through miniaudio. Periods go into a ring buffer that
//     the device callback drains; running dry is reported as [ErrUnderrun]
//     on the next write.
//   - [Oto] plays through oto. Periods are piped into a single player.
//   - [WAVFile] writes a WAV file, either as fast as it is fed or paced
//     like a device.
//
// [New] builds one from [Options].
package sink
