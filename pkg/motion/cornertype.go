package motion

import (
	"math"

	"github.com/duskgrid/duskgrid/internal/xmath"
	"github.com/duskgrid/duskgrid/pkg/corner"
)

// edgeAxis names an axis-degenerate corner: one that rotation has carried
// off the diagonal and onto a cardinal wall, where only one axis can ever
// be hit. edgeNone means the corner is still a true diagonal corner (use
// the embedded corner.Kind instead).
type edgeAxis int

const (
	edgeNone edgeAxis = iota
	edgeTop
	edgeBottom
	edgeLeft
	edgeRight
)

const (
	quarterPi      float32 = math.Pi / 4
	threeQuarterPi float32 = 3 * math.Pi / 4
	fiveQuarterPi  float32 = 5 * math.Pi / 4
	sevenQuarterPi float32 = 7 * math.Pi / 4
	twoPi          float32 = 2 * math.Pi
)

// CornerType classifies a raymarched particle's current corner for wall
// collision purposes. Most of the time it's one of the four true diagonal
// corners; as a body spins relative to its own corner, the corner sweeps
// continuously through the angle between two diagonals and briefly lines
// up with a cardinal wall — the edgeAxis cases record that degenerate
// angle. Grounded on original_source/src/engine/physics/collisions.rs's
// CornerType enum.
type CornerType struct {
	corner corner.Kind
	edge   edgeAxis
	angle  float32
}

// CornerTypeFromIndex builds the true-corner CornerType for one of a
// cell's four corner indices (0=TopLeft, 1=TopRight, 2=BottomLeft,
// 3=BottomRight), matching corner.Kind's bit layout.
func CornerTypeFromIndex(index int) CornerType {
	return CornerType{corner: corner.Kind(index)}
}

func normalizeAngle(rotation float32) float32 {
	rot := float32(math.Mod(float64(rotation), float64(twoPi)))
	if rot < 0 {
		rot += twoPi
	}
	return rot
}

// CornerTypeFromRotation reconstructs a CornerType from an absolute
// rotation angle (radians), snapping to a true corner when the angle is
// within AngularEpsilon of a diagonal and to an edge case otherwise.
func CornerTypeFromRotation(rotation float32) CornerType {
	rot := normalizeAngle(rotation)
	near := func(a, b float32) bool {
		d := a - b
		return d < xmath.AngularEpsilon && d > -xmath.AngularEpsilon
	}
	switch {
	case near(rot, quarterPi):
		return CornerType{corner: corner.BottomRight}
	case near(rot, threeQuarterPi):
		return CornerType{corner: corner.BottomLeft}
	case near(rot, fiveQuarterPi):
		return CornerType{corner: corner.TopLeft}
	case near(rot, sevenQuarterPi):
		return CornerType{corner: corner.TopRight}
	case rot < quarterPi:
		return CornerType{edge: edgeRight, angle: rot}
	case rot < threeQuarterPi:
		return CornerType{edge: edgeBottom, angle: rot}
	case rot < fiveQuarterPi:
		return CornerType{edge: edgeLeft, angle: rot}
	case rot < sevenQuarterPi:
		return CornerType{edge: edgeTop, angle: rot}
	default:
		return CornerType{edge: edgeRight, angle: rot}
	}
}

// Rotation returns c's absolute angle: the fixed diagonal angle for a true
// corner, or the stored angle for an edge case.
func (c CornerType) Rotation() float32 {
	if c.edge != edgeNone {
		return c.angle
	}
	switch c.corner {
	case corner.BottomRight:
		return quarterPi
	case corner.BottomLeft:
		return threeQuarterPi
	case corner.TopLeft:
		return fiveQuarterPi
	default: // TopRight
		return sevenQuarterPi
	}
}

// Rotate returns the CornerType reached by adding delta (radians) to c's
// current angle, re-snapping to a true corner if the result lands back on
// one.
func (c CornerType) Rotate(delta float32) CornerType {
	return CornerTypeFromRotation(c.Rotation() + delta)
}

func (c CornerType) isTopEdge() bool    { return c.edge == edgeTop }
func (c CornerType) isBottomEdge() bool { return c.edge == edgeBottom }
func (c CornerType) isLeftEdge() bool   { return c.edge == edgeLeft }
func (c CornerType) isRightEdge() bool  { return c.edge == edgeRight }

// HittableWalls reports, for a given instantaneous tangential velocity,
// which of the target's cardinal walls (x, y) this corner could possibly
// strike — a corner only ever threatens the wall(s) it's moving toward.
func (c CornerType) HittableWalls(velocity xmath.Vec2) (x, y bool) {
	switch {
	case c.edge == edgeNone && c.corner == corner.TopLeft:
		return xmath.Less(velocity.X, 0), xmath.Less(velocity.Y, 0)
	case c.edge == edgeNone && c.corner == corner.TopRight:
		return xmath.Greater(velocity.X, 0), xmath.Less(velocity.Y, 0)
	case c.edge == edgeNone && c.corner == corner.BottomLeft:
		return xmath.Less(velocity.X, 0), xmath.Greater(velocity.Y, 0)
	case c.edge == edgeNone: // BottomRight
		return xmath.Greater(velocity.X, 0), xmath.Greater(velocity.Y, 0)
	case c.isTopEdge():
		return false, xmath.Less(velocity.Y, 0)
	case c.isBottomEdge():
		return false, xmath.Greater(velocity.Y, 0)
	case c.isLeftEdge():
		return xmath.Less(velocity.X, 0), false
	default: // right edge
		return xmath.Greater(velocity.X, 0), false
	}
}

// Checks returns the index (or pair of indices, when velocity is
// axis-aligned and the result is ambiguous between two cells) of the
// neighboring cell(s) this corner's wall check must examine, in the
// 2*y|x quadrant-index convention used throughout this package. Panics
// if velocity is zero (both components within Epsilon) — a stationary corner never reaches this
// call in the collision scheduler, since only moving corners are ever
// raymarched.
func (c CornerType) Checks(velocity xmath.Vec2) []int {
	if velocity.IsZero() {
		panic("motion: CornerType.Checks called with zero velocity")
	}
	x, y := 0, 0
	if xmath.Greater(velocity.X, 0) {
		x = 1
	}
	if xmath.Greater(velocity.Y, 0) {
		y = 1
	}

	switch {
	case xmath.IsZero(velocity.X):
		switch {
		case c.isTopEdge() || c.isBottomEdge():
			return []int{2 * y, (2 * y) | 1}
		case c.edge == edgeNone && (c.corner == corner.TopLeft || c.corner == corner.BottomLeft), c.isLeftEdge():
			return []int{(2 * y) | 1}
		default:
			return []int{2 * y}
		}
	case xmath.IsZero(velocity.Y):
		switch {
		case c.isLeftEdge() || c.isRightEdge():
			return []int{2 | x, x}
		case c.edge == edgeNone && (c.corner == corner.TopLeft || c.corner == corner.TopRight), c.isTopEdge():
			return []int{2 | x}
		default:
			return []int{x}
		}
	default:
		return []int{(2 * y) | x}
	}
}
