// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

var (
	// ErrConfiguration is returned by Start when the config is unusable or
	// the sink cannot be opened as requested. The engine never ran.
	ErrConfiguration = errors.New("mixer: configuration error")

	// ErrInvalidChannel is returned for a channel id outside the pool.
	ErrInvalidChannel = errors.New("mixer: invalid channel")

	// ErrFatalSink is reported by Engine.Err after the sink failed twice in
	// a row or could not be recovered. The engine has stopped.
	ErrFatalSink = errors.New("mixer: fatal sink error")
)
