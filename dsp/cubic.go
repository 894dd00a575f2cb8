// SPDX-License-Identifier: EPL-2.0

package dsp

// CubicInterpolate returns the Catmull-Rom spline through y1 and y2 at the
// fractional position x (0 <= x <= 1). y0 and y3 are the neighbouring samples.
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	b := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c := -0.5*y0 + 0.5*y2

	return ((a*x+b)*x+c)*x + y1
}
