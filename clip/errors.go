// SPDX-License-Identifier: EPL-2.0

package clip

import "errors"

var (
	// ErrInvalidFormat is returned by New when the decode step reports an
	// encoding other than mono 16-bit linear PCM.
	ErrInvalidFormat = errors.New("clip: invalid sample format")

	// ErrUnsupportedFormat is returned by decode boundaries that refuse a
	// stream instead of converting it.
	ErrUnsupportedFormat = errors.New("clip: unsupported format")

	// ErrEmpty is returned for a clip with no frames.
	ErrEmpty = errors.New("clip: no frames")
)
