// SPDX-License-Identifier: EPL-2.0

package sink

import "errors"

var (
	// ErrUnderrun is returned by WritePeriod when the device ran out of
	// audio since the previous write. The period was not queued; Recover
	// and write it again.
	ErrUnderrun = errors.New("sink: underrun")

	// ErrFatal wraps the cause when Recover cannot bring the device back.
	ErrFatal = errors.New("sink: unrecoverable device error")

	ErrNotOpen        = errors.New("sink: not open")
	ErrClosed         = errors.New("sink: closed")
	ErrInvalidParams  = errors.New("sink: invalid parameters")
	ErrUnknownBackend = errors.New("sink: unknown backend")
)
