// Package broadphase implements swept-AABB pairing over the live body set,
// grounded on original_source/src/engine/systems/collisions.rs's
// collect_collision_objects: every tick it rebuilds the full O(n²) pair
// set from scratch rather than maintaining a persistent spatial index, and
// this engine's scheduler calls it again at the top of every sub-tick
// iteration for the same reason (spec.md §4.6 step 1; see SPEC_FULL.md
// §5.4).
package broadphase

import (
	"github.com/duskgrid/duskgrid/internal/xmath"
	"github.com/duskgrid/duskgrid/pkg/body"
)

// Pair is one candidate colliding pair, ordered by ID so a pair is never
// reported both as (a,b) and (b,a).
type Pair struct {
	A, B body.ID
}

// boundingBox returns b's swept AABB over dt: its static extent (derived
// from its DAG root's height) expanded by how far it will travel at its
// current linear velocity.
func boundingBox(b *body.Body, dt float32) xmath.AABB {
	half := float32(int64(1)<<b.Root.Height) / 2
	box := xmath.AABB{Center: b.Position, Radius: xmath.Vec2{X: half, Y: half}}
	return box.Expand(b.LinearVelocity.Scale(dt))
}

// Pairs returns every pair of bodies whose swept bounding boxes overlap
// over the next dt. A pair where both bodies are static is never reported
// — two immovable bodies can never newly collide with each other.
func Pairs(bodies []*body.Body, dt float32) []Pair {
	boxes := make([]xmath.AABB, len(bodies))
	for i, b := range bodies {
		boxes[i] = boundingBox(b, dt)
	}

	var out []Pair
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if bodies[i].Static && bodies[j].Static {
				continue
			}
			if boxes[i].Intersects(boxes[j]) {
				a, c := bodies[i].ID, bodies[j].ID
				if a > c {
					a, c = c, a
				}
				out = append(out, Pair{A: a, B: c})
			}
		}
	}
	return out
}
