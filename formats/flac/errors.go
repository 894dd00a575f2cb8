// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	// ErrNotFlac indicates the input lacks the fLaC signature or a valid STREAMINFO block
	ErrNotFlac = errors.New("not a FLAC stream")

	// ErrUnsupportedBitDepth indicates a sample size above 32 bits
	ErrUnsupportedBitDepth = errors.New("unsupported FLAC bit depth")
)
