// SPDX-License-Identifier: EPL-2.0

package dsp

import "math"

// SaturateAdd16 returns a+b clamped to the int16 range.
func SaturateAdd16(a, b int16) int16 {
	s := int32(a) + int32(b)
	if s > math.MaxInt16 {
		return math.MaxInt16
	}
	if s < math.MinInt16 {
		return math.MinInt16
	}

	return int16(s)
}

// Attenuate scales s by percent/100. Percentages above 100 are treated as 100.
func Attenuate(s int16, percent uint8) int16 {
	if percent >= 100 {
		return s
	}

	return int16(int32(s) * int32(percent) / 100)
}

// Percent converts a volume ratio to an integer percentage in [0, 100].
// The ratio is clamped and rounded to the nearest percent; NaN maps to 0.
func Percent(ratio float64) uint8 {
	switch {
	case math.IsNaN(ratio), ratio <= 0:
		return 0
	case ratio >= 1:
		return 100
	}

	return uint8(math.Round(ratio * 100))
}
