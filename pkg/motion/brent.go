package motion

import (
	"fmt"
	"math"

	"github.com/duskgrid/duskgrid/internal/xmath"
)

const (
	brentMaxIter = 64
	brentTol     = 1e-6
	sampleSafety = 8
)

// bracketAndBrent finds the earliest root of f in [lo, hi] by sampling at a
// rate fine enough not to skip between consecutive roots of a sinusoid at
// angular frequency freq, then refining the first sign change found with
// Brent's method. There is no root-finding library in the dependency
// corpus (raymarching.rs leans on Rust's roots crate for the equivalent
// job), so this is a direct hand-rolled port of the classic
// bisection/secant/inverse-quadratic hybrid.
func bracketAndBrent(f func(float32) float32, lo, hi, freq float32) (float32, bool, error) {
	if hi <= lo {
		return 0, false, nil
	}

	period := float32(2 * math.Pi)
	if freq > xmath.Epsilon {
		period = 2 * float32(math.Pi) / freq
	}
	step := period / sampleSafety
	if step <= 0 || step > hi-lo {
		step = hi - lo
	}

	a := lo
	fa := f(a)
	if xmath.IsZero(fa) {
		return a, true, nil
	}

	for a < hi {
		b := xmath.Min(a+step, hi)
		fb := f(b)
		if xmath.IsZero(fb) {
			return b, true, nil
		}
		if (fa < 0) != (fb < 0) {
			root, err := brent(f, a, b, fa, fb)
			if err != nil {
				return 0, false, err
			}
			return root, true, nil
		}
		a, fa = b, fb
		if b == hi {
			break
		}
	}
	return 0, false, nil
}

// brent refines a root of f known to lie in [a, b] (f(a) and f(b) have
// opposite sign), combining bisection's guaranteed convergence with the
// superlinear speed of secant/inverse-quadratic interpolation steps.
func brent(f func(float32) float32, a, b, fa, fb float32) (float32, error) {
	if fa*fb > 0 {
		return 0, fmt.Errorf("motion: brent called without a valid bracket")
	}

	c, fc := a, fa
	mflag := true
	var d float32

	for i := 0; i < brentMaxIter; i++ {
		if xmath.IsZero(fb) {
			return b, nil
		}

		var s float32
		if fa != fc && fb != fc {
			s = a*fb*fc/((fa-fb)*(fa-fc)) +
				b*fa*fc/((fb-fa)*(fb-fc)) +
				c*fa*fb/((fc-fa)*(fc-fb))
		} else {
			s = b - fb*(b-a)/(fb-fa)
		}

		lo, hi := (3*a+b)/4, b
		if lo > hi {
			lo, hi = hi, lo
		}
		cond1 := s < lo || s > hi
		cond2 := mflag && xmath.Greater(abs32(s-b), abs32(b-c)/2)
		cond3 := !mflag && d != 0 && xmath.Greater(abs32(s-b), abs32(c-d)/2)
		cond4 := mflag && abs32(b-c) < brentTol
		cond5 := !mflag && abs32(c-d) < brentTol
		if cond1 || cond2 || cond3 || cond4 || cond5 {
			s = (a + b) / 2
			mflag = true
		} else {
			mflag = false
		}

		fs := f(s)
		d, c, fc = c, b, fb

		if fa*fs < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}
		if abs32(fa) < abs32(fb) {
			a, b = b, a
			fa, fb = fb, fa
		}

		if abs32(b-a) < brentTol {
			return b, nil
		}
	}
	return 0, ErrRootFindDivergence
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
