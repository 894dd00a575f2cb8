// SPDX-License-Identifier: EPL-2.0

package dsp

import "math"

const pcm16Scale = 32768.0

// Float32ToInt16 quantises a normalised sample to 16-bit PCM. Values outside
// [-1, 1) saturate, NaN becomes silence.
func Float32ToInt16(x float32) int16 {
	if x != x {
		return 0
	}

	v := x * pcm16Scale
	if v >= math.MaxInt16 {
		return math.MaxInt16
	}
	if v <= math.MinInt16 {
		return math.MinInt16
	}

	return int16(v)
}

// Int16ToFloat32 is the inverse of Float32ToInt16.
func Int16ToFloat32(s int16) float32 {
	return float32(s) / pcm16Scale
}

// IntToFloat32 normalises a signed integer sample stored with bitDepth bits
// (1 to 32). Other depths are treated as 16-bit.
func IntToFloat32(v, bitDepth int) float32 {
	if bitDepth < 1 || bitDepth > 32 {
		bitDepth = 16
	}

	return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
}
