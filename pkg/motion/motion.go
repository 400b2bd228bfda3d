// Package motion implements the composite motion equation a body corner
// follows in a target body's reference frame, and the root-finder used to
// locate the instant a raymarched corner crosses a wall boundary. Both are
// grounded on original_source/src/engine/physics/raymarching.rs's Motion
// type and its at_tick method.
package motion

import (
	"math"

	"github.com/duskgrid/duskgrid/internal/xmath"
)

// Motion describes one corner's trajectory, expressed entirely in the
// target body's reference frame: the corner orbits CenterOfRotation at
// RotationalVelocity (the owner body's own spin) while translating at
// Velocity (the owner's linear velocity relative to the target), and the
// whole resulting frame then counter-rotates at RevolutionaryVelocity to
// cancel the target's own spin — RevolutionaryVelocity is already the
// negated target angular velocity (-ω_target), not ω_target itself, per
// spec.md §9's resolved open question (see SPEC_FULL.md §5.5).
type Motion struct {
	CenterOfRotation      xmath.Vec2
	Offset                xmath.Vec2
	Velocity              xmath.Vec2
	RotationalVelocity    float32
	RevolutionaryVelocity float32
}

// AtTick evaluates the corner's position at time t:
//
//	P(t) = ((Offset.Rotate(ω_own·t) + Velocity·t) + Center).Rotate(ω_rev·t)
func (m Motion) AtTick(t float32) xmath.Vec2 {
	spin := xmath.FromAngle(m.RotationalVelocity * t)
	p := m.Offset.Rotate(spin).Add(m.Velocity.Scale(t)).Add(m.CenterOfRotation)
	revolve := xmath.FromAngle(m.RevolutionaryVelocity * t)
	return p.Rotate(revolve)
}

// Axis names one component of a Vec2, the coordinate a root-find targets.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (m Motion) component(axis Axis, t float32) float32 {
	p := m.AtTick(t)
	if axis == AxisX {
		return p.X
	}
	return p.Y
}

// isPureTranslation reports whether m has no rotational component at all —
// the cheap linear closed-form case applies.
func (m Motion) isPureTranslation() bool {
	return xmath.IsZero(m.RotationalVelocity) && xmath.IsZero(m.RevolutionaryVelocity)
}

// FindRoot locates the earliest t in [0, tMax] at which the axis component
// of m's trajectory equals target. found is false if no such t exists in
// the horizon (the corner never reaches that wall in this tick).
//
// The pure-translation case is solved directly (it's affine in t); every
// other case — pure rotation included — is solved by bracketing m's
// component function and refining with Brent's method, the same numeric
// fallback raymarching.rs reaches for once its closed-form special cases
// don't apply (see SPEC_FULL.md §5.5).
func (m Motion) FindRoot(axis Axis, target, tMax float32) (t float32, found bool, err error) {
	f := func(t float32) float32 { return m.component(axis, t) - target }

	if xmath.IsZero(f(0)) {
		return 0, true, nil
	}

	if m.isPureTranslation() {
		return m.linearRoot(axis, target, tMax)
	}
	return bracketAndBrent(f, 0, tMax, m.dominantFrequency())
}

// linearRoot solves the axis component directly: it is an affine function
// of t when there is no rotation at all.
func (m Motion) linearRoot(axis Axis, target, tMax float32) (float32, bool, error) {
	var v0, vel float32
	if axis == AxisX {
		v0, vel = m.Offset.X+m.CenterOfRotation.X, m.Velocity.X
	} else {
		v0, vel = m.Offset.Y+m.CenterOfRotation.Y, m.Velocity.Y
	}
	if xmath.IsZero(vel) {
		return 0, false, nil
	}
	t := (target - v0) / vel
	if t < 0 || t > tMax {
		return 0, false, nil
	}
	return t, true, nil
}

// dominantFrequency returns the combined angular rate driving m's
// trajectory, used to pick a bracket step fine enough not to skip a root
// between samples.
func (m Motion) dominantFrequency() float32 {
	return float32(math.Abs(float64(m.RotationalVelocity))) + float32(math.Abs(float64(m.RevolutionaryVelocity)))
}
