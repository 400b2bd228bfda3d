// Package collision implements continuous n-body collision resolution
// over the body set: exposed corners are raymarched through the target
// body's quadtree to find the earliest wall contact, and contacts are
// resolved with an instantaneous velocity impulse. Grounded on
// original_source/src/engine/physics/collisions.rs's n_body_collisions,
// find_next_action, and entity_to_collision_object.
package collision

import (
	"github.com/duskgrid/duskgrid/internal/xmath"
	"github.com/duskgrid/duskgrid/pkg/body"
	"github.com/duskgrid/duskgrid/pkg/broadphase"
	"github.com/duskgrid/duskgrid/pkg/motion"
)

// Particle is one exposed corner of owner being raymarched against
// target's quadtree, expressed in target's reference frame.
type Particle struct {
	Offset xmath.Vec2
	Corner motion.CornerType
}

// object pairs one ordered (owner, target) relationship with the set of
// owner's exposed corners still to be checked against target this tick.
// The direction matters: an (A,B) object tests A's corners against B's
// geometry, and a separate (B,A) object tests the reverse, exactly as
// entity_to_collision_object is called for both orderings of every
// broad-phase pair.
type object struct {
	owner, target *body.Body
	relVelocity   xmath.Vec2
	particles     []*Particle
}

// motionFor builds the composite motion equation (see package motion)
// that carries p through target's reference frame: p.Offset at time zero,
// orbiting at owner's own spin, translating at the pair's relative
// velocity, and counter-rotating to cancel target's own spin.
func (o *object) motionFor(p *Particle) motion.Motion {
	alignTarget := xmath.FromAngle(-o.target.Rotation)
	return motion.Motion{
		CenterOfRotation:      o.owner.Position.Sub(o.target.Position).Rotate(alignTarget),
		Offset:                p.Offset,
		Velocity:              o.relVelocity,
		RotationalVelocity:    o.owner.AngularVelocity,
		RevolutionaryVelocity: -o.target.AngularVelocity,
	}
}

// instantTangentialVelocity is the corner's linear velocity at time t
// relative to target, combining the pair's relative translation with the
// tangential velocity contributed by both bodies' spin.
func (o *object) instantTangentialVelocity(m motion.Motion, t float32) xmath.Vec2 {
	offset := m.AtTick(t)
	return o.relVelocity.
		Add(xmath.AngularToTangential(o.owner.AngularVelocity, offset)).
		Add(xmath.AngularToTangential(-o.target.AngularVelocity, offset))
}

// buildObject constructs the (owner, target) collision object, or nil if
// the pair has no relative motion at all (nothing can newly collide) or
// owner has no exposed corners.
func buildObject(owner, target *body.Body) *object {
	alignTarget := xmath.FromAngle(-target.Rotation)
	relVelocity := owner.LinearVelocity.Sub(target.LinearVelocity).Rotate(alignTarget).SnapZero()
	if relVelocity.IsZero() && xmath.IsZero(owner.AngularVelocity-target.AngularVelocity) {
		return nil
	}

	var particles []*Particle
	for _, c := range owner.Corners {
		for i := 0; i < 4; i++ {
			if c.ExposedMask&(1<<uint(i)) == 0 {
				continue
			}
			// offset is the corner's position relative to owner's own
			// center (not target's) — the part of the motion equation
			// that spins at the owner's own angular velocity. The
			// owner-center-to-target-center vector is carried instead by
			// Motion.CenterOfRotation (see motionFor), which only
			// translates and is otherwise inert.
			offset := c.Points[i].Rotate(owner.Forward).Rotate(alignTarget)
			particles = append(particles, &Particle{
				Offset: offset,
				Corner: motion.CornerTypeFromIndex(i).Rotate(owner.Rotation - target.Rotation),
			})
		}
	}
	if len(particles) == 0 {
		return nil
	}
	return &object{owner: owner, target: target, relVelocity: relVelocity, particles: particles}
}

// buildObjects constructs both directional collision objects for every
// broad-phase pair.
func buildObjects(pairs []broadphase.Pair, bodies []*body.Body) []*object {
	byID := make(map[body.ID]*body.Body, len(bodies))
	for _, b := range bodies {
		byID[b.ID] = b
	}

	var out []*object
	for _, pr := range pairs {
		a, b := byID[pr.A], byID[pr.B]
		if a == nil || b == nil {
			continue
		}
		if o := buildObject(a, b); o != nil {
			out = append(out, o)
		}
		if o := buildObject(b, a); o != nil {
			out = append(out, o)
		}
	}
	return out
}
