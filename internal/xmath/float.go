// Package xmath provides the epsilon-aware scalar and 2D vector arithmetic
// shared by the zorder, corner, motion, and collision packages.
//
// All comparisons snap differences smaller than Epsilon to zero before
// testing their sign, mirroring the float-utility shim the prototype this
// engine is based on layered over its scalar type: rather than comparing
// a-b > 0 directly, every comparison first rounds near-zero deltas away so
// that raymarching roots landing a few ULPs off a cell boundary are treated
// as exactly on it.
package xmath

import "golang.org/x/exp/constraints"

// Epsilon is the zero-comparison tolerance for float32 arithmetic, per the
// numeric contract: IEEE-754 32-bit floats, epsilon == float32 machine
// epsilon (~1.19e-7).
const Epsilon float32 = 1.1920929e-7

// AngularEpsilon is the looser tolerance used for angle comparisons
// (rotation deltas, corner-configuration snapping), per the numeric
// contract's allowance of an effective ~1e-5 for angular quantities.
const AngularEpsilon float32 = 1e-5

// ApproxEqual reports whether a and b differ by less than Epsilon.
func ApproxEqual(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < Epsilon
}

// IsZero reports whether v is within Epsilon of zero.
func IsZero(v float32) bool { return ApproxEqual(v, 0) }

// SnapZero returns 0 if v is within Epsilon of zero, else v unchanged.
func SnapZero(v float32) float32 {
	if IsZero(v) {
		return 0
	}
	return v
}

// Sign returns -1, 0, or 1 for v, treating anything within Epsilon of zero
// as exactly zero (the "zero_signum" used throughout impulse/slide logic).
func Sign(v float32) int {
	v = SnapZero(v)
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Greater reports a > b after snapping their difference toward zero.
func Greater(a, b float32) bool { return SnapZero(a-b) > 0 }

// GreaterEq reports a >= b after snapping their difference toward zero.
func GreaterEq(a, b float32) bool { return SnapZero(a-b) >= 0 }

// Less reports a < b after snapping their difference toward zero.
func Less(a, b float32) bool { return SnapZero(a-b) < 0 }

// LessEq reports a <= b after snapping their difference toward zero.
func LessEq(a, b float32) bool { return SnapZero(a-b) <= 0 }

// Clamp restricts v to [lo, hi] for any ordered type.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
