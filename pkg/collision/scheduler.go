package collision

import (
	"container/heap"

	"github.com/duskgrid/duskgrid/internal/xmath"
	"github.com/duskgrid/duskgrid/pkg/body"
	"github.com/duskgrid/duskgrid/pkg/broadphase"
	"github.com/duskgrid/duskgrid/pkg/corner"
	"github.com/duskgrid/duskgrid/pkg/dag"
	"github.com/duskgrid/duskgrid/pkg/material"
	"github.com/duskgrid/duskgrid/pkg/motion"
)

// DragMultiplier is applied to every non-static body's velocities at the
// end of every Step, the same flat damping n_body_collisions' apply_drag uses.
const DragMultiplier float32 = 0.95

// DefaultMaxIterations bounds how many sub-tick collision resolutions a
// single Step will run before giving up with ErrSchedulerIterationCap.
const DefaultMaxIterations = 64

// Scheduler advances a body set through one tick of continuous collision
// detection and resolution, grounded on
// original_source/src/engine/physics/collisions.rs's n_body_collisions.
type Scheduler struct {
	Store         *dag.Store
	Palette       material.Palette
	Bodies        *body.Set
	MaxIterations int
}

// NewScheduler builds a Scheduler over bodies backed by store.
func NewScheduler(store *dag.Store, palette material.Palette, bodies *body.Set) *Scheduler {
	return &Scheduler{Store: store, Palette: palette, Bodies: bodies, MaxIterations: DefaultMaxIterations}
}

type hitRecord struct {
	owner, target body.ID
	hitX, hitY    bool
}

// Step advances every non-static body by dt, resolving any wall contacts encountered
// along the way: broad-phase pairs are recomputed every sub-tick, the
// earliest contact across all of them is found and resolved with an
// impulse, and the remaining tick budget is consumed by the time already
// spent before that contact. Once no contact remains in the budget, every
// non-static body moves the rest of the way and a flat drag is applied.
func (s *Scheduler) Step(dt float32) error {
	tickMax := dt
	for iter := 0; ; iter++ {
		if iter >= s.MaxIterations {
			return ErrSchedulerIterationCap
		}

		bodies := s.Bodies.All()
		pairs := broadphase.Pairs(bodies, tickMax)
		objects := buildObjects(pairs, bodies)

		hits, ticksToAction, err := s.findNextAction(objects, tickMax)
		if err != nil {
			return err
		}

		s.advance(bodies, ticksToAction)
		if len(hits) == 0 {
			break
		}
		tickMax -= ticksToAction
		s.applyHits(hits)
		if xmath.IsZero(tickMax) {
			break
		}
	}
	s.applyDrag()
	return nil
}

// findNextAction resolves every exposed corner of every collision object
// against its target once, collects the ones that land on an actual wall
// into the event queue, and returns the combined hit per ordered body
// pair at the single earliest tick found (ties are merged: a body pair
// that's hit on two corners at once needs both walls' impulses applied
// together).
func (s *Scheduler) findNextAction(objects []*object, tickMax float32) (map[[2]body.ID]hitRecord, float32, error) {
	pq := &eventQueue{}
	for _, obj := range objects {
		for _, p := range obj.particles {
			ticks, hitX, hitY, found, err := s.nextIntersection(obj, p, tickMax)
			if err != nil {
				return nil, 0, err
			}
			if found && (hitX || hitY) {
				heap.Push(pq, &event{owner: obj.owner.ID, target: obj.target.ID, ticks: ticks, hitX: hitX, hitY: hitY})
			}
		}
	}
	if pq.Len() == 0 {
		return nil, tickMax, nil
	}

	first := heap.Pop(pq).(*event)
	ticksToAction := first.ticks
	combined := map[[2]body.ID]hitRecord{}
	merge := func(e *event) {
		key := [2]body.ID{e.owner, e.target}
		cur := combined[key]
		cur.owner, cur.target = e.owner, e.target
		cur.hitX = cur.hitX || e.hitX
		cur.hitY = cur.hitY || e.hitY
		combined[key] = cur
	}
	merge(first)
	for pq.Len() > 0 && xmath.ApproxEqual((*pq)[0].ticks, ticksToAction) {
		merge(heap.Pop(pq).(*event))
	}
	return combined, ticksToAction, nil
}

// nextIntersection finds the earliest tick (within [0, tickMax]) at which
// particle p, raymarched through target's quadtree, crosses into a new
// cell, then reports whether that crossing is actually a wall strike.
func (s *Scheduler) nextIntersection(obj *object, p *Particle, tickMax float32) (ticks float32, hitX, hitY, found bool, err error) {
	m := obj.motionFor(p)
	rootCenter := corner.RootCenter(obj.target.Root.Height)

	point := m.AtTick(0)
	itvel := obj.instantTangentialVelocity(m, 0)
	cells, err := pointToCells(s.Store, obj.target.Root, rootCenter, point)
	if err != nil {
		return 0, false, false, false, err
	}
	if hx, hy := hittingWall(cells, s.Palette, itvel, p.Corner); hx || hy {
		return 0, hx, hy, true, nil
	}

	radius := cellSize(obj.target.Root.Height) / 2
	gridTopLeft := xmath.Vec2{X: -radius, Y: -radius}
	idx := quadrantIndex(itvel)
	var topLeft, bottomRight xmath.Vec2
	if cell := cells[idx]; cell != nil {
		size := cellSize(cell.Pointer.Height)
		origin := gridTopLeft.Add(xmath.Vec2{X: float32(cell.Cell[0]) * size, Y: float32(cell.Cell[1]) * size})
		topLeft, bottomRight = origin, origin.Add(xmath.Vec2{X: size, Y: size})
	} else {
		topLeft, bottomRight = gridTopLeft, xmath.Vec2{X: radius, Y: radius}
	}

	ticksToHit := tickMax
	crossed := false
	for _, bound := range [2]xmath.Vec2{topLeft, bottomRight} {
		for _, axis := range [2]motion.Axis{motion.AxisX, motion.AxisY} {
			val := bound.X
			if axis == motion.AxisY {
				val = bound.Y
			}
			if xmath.ApproxEqual(axisValue(point, axis), val) {
				continue
			}
			t, ok, ferr := m.FindRoot(axis, val, ticksToHit)
			if ferr != nil {
				return 0, false, false, false, ferr
			}
			if ok && t < ticksToHit {
				ticksToHit, crossed = t, true
			}
		}
	}
	if !crossed {
		return 0, false, false, false, nil
	}

	hitPoint := m.AtTick(ticksToHit)
	hitVel := obj.instantTangentialVelocity(m, ticksToHit)
	hitCells, err := pointToCells(s.Store, obj.target.Root, rootCenter, hitPoint)
	if err != nil {
		return 0, false, false, false, err
	}
	hx, hy := hittingWall(hitCells, s.Palette, hitVel, p.Corner)
	return ticksToHit, hx, hy, true, nil
}

func axisValue(v xmath.Vec2, axis motion.Axis) float32 {
	if axis == motion.AxisX {
		return v.X
	}
	return v.Y
}

// advance moves every non-static body forward by dt along its current
// velocities; static bodies stay where they are.
func (s *Scheduler) advance(bodies []*body.Body, dt float32) {
	for _, b := range bodies {
		if b.Static {
			continue
		}
		b.Position = b.Position.Add(b.LinearVelocity.Scale(dt)).SnapZero()
		b.SetRotation(xmath.SnapZero(b.Rotation + b.AngularVelocity*dt))
	}
}

// applyHits resolves every combined contact with an instantaneous
// velocity impulse: the relative velocity along the struck wall axes is
// cancelled and redistributed between owner and target, and angular
// velocity is zeroed on contact — matching n_body_collisions' impulse
// step exactly, generalized from its single designated static_thing to
// per-body Static.
func (s *Scheduler) applyHits(hits map[[2]body.ID]hitRecord) {
	for _, h := range hits {
		owner, target := s.Bodies.Get(h.owner), s.Bodies.Get(h.target)
		if owner == nil || target == nil {
			continue
		}
		relVelocity := owner.LinearVelocity.Sub(target.LinearVelocity)
		mask := xmath.Vec2{X: boolToFloat(h.hitX), Y: boolToFloat(h.hitY)}
		worldImpulse := relVelocity.Rotate(xmath.FromAngle(-target.Rotation)).Neg().Mul(mask).Rotate(target.Forward)

		if !owner.Static {
			owner.LinearVelocity = owner.LinearVelocity.Add(worldImpulse).SnapZero()
			owner.AngularVelocity = 0
		}
		if !target.Static {
			target.LinearVelocity = target.LinearVelocity.Sub(worldImpulse).SnapZero()
			target.AngularVelocity = 0
		}
	}
}

func boolToFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// applyDrag damps every non-static body's velocities by DragMultiplier, snapping
// anything that decays below Epsilon to exactly zero.
func (s *Scheduler) applyDrag() {
	for _, b := range s.Bodies.All() {
		if b.Static {
			continue
		}
		b.LinearVelocity = b.LinearVelocity.Scale(DragMultiplier).SnapZero()
		b.AngularVelocity = xmath.SnapZero(b.AngularVelocity * DragMultiplier)
	}
}
