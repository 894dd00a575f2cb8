// SPDX-License-Identifier: EPL-2.0

// Package dsp holds the small sample-level math shared by the decode pipeline
// and the mixer.
//
// # Conversions
//
// Decoders hand out float32 samples in [-1, 1). Float32ToInt16 and
// Int16ToFloat32 convert between that range and signed 16-bit PCM using the
// same 32768 scale, so a 16-bit value survives the round trip unchanged.
//
// # Mixing
//
// SaturateAdd16 adds two 16-bit samples and clamps the sum instead of
// wrapping. Attenuate scales a sample by an integer percentage and Percent
// turns a 0.0..1.0 ratio into that percentage.
//
// # Interpolation
//
// CubicInterpolate is the Catmull-Rom kernel used by the resampler.
package dsp
