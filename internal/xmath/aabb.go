package xmath

// AABB is an axis-aligned bounding box stored as center + radius (half
// extents), the representation the broad phase sweeps and expands.
type AABB struct {
	Center Vec2
	Radius Vec2
}

// AABBFromBounds builds an AABB from its top-left and bottom-right corners.
func AABBFromBounds(topLeft, bottomRight Vec2) AABB {
	return AABB{
		Center: topLeft.Add(bottomRight).Scale(0.5),
		Radius: bottomRight.Sub(topLeft).Scale(0.5),
	}
}

func (b AABB) Min() Vec2 { return b.Center.Sub(b.Radius) }
func (b AABB) Max() Vec2 { return b.Center.Add(b.Radius) }

// Expand grows the box by distance on each axis (distance may be negative
// per axis; the radius always grows by |distance|/2, matching the swept
// expansion used when projecting a body's AABB forward by its velocity).
func (b AABB) Expand(distance Vec2) AABB {
	return AABB{
		Center: b.Center.Add(distance.Scale(0.5)),
		Radius: b.Radius.Add(Vec2{abs32(distance.X), abs32(distance.Y)}.Scale(0.5)),
	}
}

// Intersects reports whether the two boxes' axis intervals both overlap —
// the broad-phase pair test.
func (b AABB) Intersects(o AABB) bool {
	d := o.Center.Sub(b.Center)
	sumRadius := b.Radius.Add(o.Radius)
	x, y := d.LessEqMag(sumRadius)
	return x && y
}
