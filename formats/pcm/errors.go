// SPDX-License-Identifier: EPL-2.0

package pcm

import "errors"

var (
	ErrInvalidLayout       = errors.New("raw PCM needs a positive sample rate and channel count")
	ErrUnsupportedBitDepth = errors.New("unsupported raw PCM bit depth")
)
