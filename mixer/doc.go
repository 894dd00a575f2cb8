// SPDX-License-Identifier: EPL-2.0

// Package mixer plays many clips at once through a single sink.
//
// # Channels
//
// A [Pool] holds a fixed number of channels. Each channel plays at most one
// [clip.Buffer] from a cursor, at a volume between 0 and 100 percent.
// Channels are addressed by index; an index outside the pool fails with
// [ErrInvalidChannel] and has no other effect.
//
// # Engine
//
// [Start] opens a [sink.Sink] and runs one goroutine that, every period,
// sums all playing channels with saturation, writes the period and sleeps a
// period when the sink already holds more than one. A failed write is
// recovered once and retried; a second failure in a row stops the engine
// with [ErrFatalSink], reported by [Engine.Err].
//
//	e, err := mixer.Start(mixer.DefaultConfig(), sink.NewMalgo(nil))
//	if err != nil {
//		return err
//	}
//	defer e.Stop()
//
//	e.Assign(0, beep)
//	e.SetVolume(0, 0.5)
//
// Control calls only touch the pool, so they never wait on the sink. A
// change is heard at the latest one period after the call returns.
package mixer
