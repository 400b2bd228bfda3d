package xmath

import "math"

// Vec2 is a 2D single-precision vector, used throughout for positions,
// offsets, and velocities.
type Vec2 struct {
	X, Y float32
}

// Zero is the additive identity.
var Zero = Vec2{}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Mul is the component-wise (Hadamard) product.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

func (v Vec2) Neg() Vec2 { return Vec2{-v.X, -v.Y} }

func (v Vec2) Dot(o Vec2) float32 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) Length() float32 { return float32(math.Sqrt(float64(v.Dot(v)))) }

// Rotate rotates v by dir, where dir is itself a unit (cos,sin) vector —
// the same "rotate by a Vec2" convention the motion equation uses so that
// composing several rotations never needs the angle recovered in between.
func (v Vec2) Rotate(dir Vec2) Vec2 {
	return Vec2{
		X: v.X*dir.X - v.Y*dir.Y,
		Y: v.X*dir.Y + v.Y*dir.X,
	}
}

// FromAngle builds the unit (cos,sin) vector for an angle in radians, the
// form Rotate expects as its argument.
func FromAngle(radians float32) Vec2 {
	s, c := math.Sincos(float64(radians))
	return Vec2{X: float32(c), Y: float32(s)}
}

// IsZero reports whether both components are within Epsilon of zero.
func (v Vec2) IsZero() bool { return IsZero(v.X) && IsZero(v.Y) }

// SnapZero snaps each component independently.
func (v Vec2) SnapZero() Vec2 { return Vec2{SnapZero(v.X), SnapZero(v.Y)} }

// WithX returns a copy of v with the X component replaced.
func (v Vec2) WithX(x float32) Vec2 { return Vec2{x, v.Y} }

// WithY returns a copy of v with the Y component replaced.
func (v Vec2) WithY(y float32) Vec2 { return Vec2{v.X, y} }

// LessEqMag reports, component-wise, whether |v| <= |o|.
func (v Vec2) LessEqMag(o Vec2) (bool, bool) {
	ax, ay := abs32(v.X), abs32(v.Y)
	bx, by := abs32(o.X), abs32(o.Y)
	return SnapZero(ax-bx) <= 0, SnapZero(ay-by) <= 0
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// AngularToTangential converts an angular velocity about the origin into
// the tangential linear velocity of a point at offset from that origin:
// v = ω × offset in 2D, i.e. (-ω·offset.y, ω·offset.x).
func AngularToTangential(angularVelocity float32, offset Vec2) Vec2 {
	return Vec2{X: -angularVelocity * offset.Y, Y: angularVelocity * offset.X}
}
