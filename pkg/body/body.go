// Package body implements the rigid body model: a stable-ID handle over a
// DAG root plus the kinematic state (position, rotation, velocities) and
// the derived corner cache rebuilt after every edit. It is grounded on
// spec.md §3's Body record and on the prototype's entity fields
// (original_source/src/engine/entities.rs-equivalent position/rotation/
// velocity components), generalizing the original's single designated
// static body into a per-body Static flag (see SPEC_FULL.md §5.6).
package body

import (
	"fmt"
	"math"

	"github.com/duskgrid/duskgrid/internal/xmath"
	"github.com/duskgrid/duskgrid/pkg/corner"
	"github.com/duskgrid/duskgrid/pkg/dag"
	"github.com/duskgrid/duskgrid/pkg/material"
	"github.com/duskgrid/duskgrid/pkg/zorder"
)

// ID is a stable handle for a body, valid until the body is destroyed.
type ID uint32

// Body is one rigid shape: a DAG subtree plus the kinematic state needed
// to place and move it in world space.
type Body struct {
	ID ID

	Root   dag.ExternalPointer
	Static bool

	Position        xmath.Vec2
	Rotation        float32
	Forward         xmath.Vec2
	LinearVelocity  xmath.Vec2
	AngularVelocity float32

	Corners []corner.Record
}

// Set is the live collection of bodies in one simulation, addressed by ID.
// It owns the reference each body holds on its DAG root: CreateBody
// retains, DestroyBody releases.
type Set struct {
	store   *dag.Store
	palette material.Palette

	bodies map[ID]*Body
	free   []ID
	next   ID
}

// NewSet builds an empty body set backed by store.
func NewSet(store *dag.Store, palette material.Palette) *Set {
	return &Set{
		store:   store,
		palette: palette,
		bodies:  make(map[ID]*Body),
	}
}

func (s *Set) allocateID() ID {
	if k := len(s.free); k > 0 {
		id := s.free[k-1]
		s.free = s.free[:k-1]
		return id
	}
	s.next++
	return s.next
}

// CreateBody adds a body at root with the given initial placement. The
// store's root reference count is incremented: the Set is now a co-owner
// of root alongside whatever already held it (e.g. a shared template).
func (s *Set) CreateBody(root dag.ExternalPointer, position xmath.Vec2, rotation float32, static bool) (*Body, error) {
	s.store.Retain(root)
	corners, err := corner.TreeCorners(s.store, s.palette, root, corner.RootCenter(root.Height))
	if err != nil {
		s.store.Release(root)
		return nil, err
	}

	b := &Body{
		ID:       s.allocateID(),
		Root:     root,
		Static:   static,
		Position: position,
		Rotation: rotation,
		Forward:  xmath.FromAngle(rotation),
		Corners:  corners,
	}
	s.bodies[b.ID] = b
	return b, nil
}

// DestroyBody removes a body and releases its root reference.
func (s *Set) DestroyBody(id ID) error {
	b, ok := s.bodies[id]
	if !ok {
		return fmt.Errorf("body: unknown id %d", id)
	}
	s.store.Release(b.Root)
	delete(s.bodies, id)
	s.free = append(s.free, id)
	return nil
}

// Get returns the body for id, or nil if it doesn't exist (or was
// destroyed).
func (s *Set) Get(id ID) *Body { return s.bodies[id] }

// All returns every live body. The returned slice is a fresh copy each
// call — callers must not assume identity across edits.
func (s *Set) All() []*Body {
	out := make([]*Body, 0, len(s.bodies))
	for _, b := range s.bodies {
		out = append(out, b)
	}
	return out
}

// ErrEditOutsideDomain is returned by MutateCell when targetHeight exceeds
// the body's root height.
var ErrEditOutsideDomain = fmt.Errorf("body: edit height exceeds root height")

// ErrPointOutsideBody is returned by MutateCell when worldPoint falls
// outside the body's own AABB.
var ErrPointOutsideBody = fmt.Errorf("body: point outside body's bounds")

func cellSize(height uint32) float32 { return float32(int64(1) << height) }

// localPath projects worldPoint into id's body-local frame and resolves it
// to the zorder.Path of the deepest cell of targetHeight covering it,
// rejecting points outside the body's AABB or heights taller than the
// root — spec.md §6's mutate_cell contract.
func localPath(b *Body, targetHeight uint32, worldPoint xmath.Vec2) (zorder.Path, error) {
	if targetHeight > b.Root.Height {
		return zorder.Path{}, fmt.Errorf("%w: height %d > root height %d", ErrEditOutsideDomain, targetHeight, b.Root.Height)
	}

	half := corner.RootCenter(b.Root.Height)
	local := worldPoint.Sub(b.Position).Rotate(xmath.FromAngle(-b.Rotation))
	if xmath.Greater(local.X, half.X) || xmath.Greater(-local.X, half.X) ||
		xmath.Greater(local.Y, half.Y) || xmath.Greater(-local.Y, half.Y) {
		return zorder.Path{}, ErrPointOutsideBody
	}

	grid := local.Add(half)
	depth := b.Root.Height - targetHeight
	size := cellSize(targetHeight)
	maxIdx := (uint32(1) << depth) - 1
	cx := xmath.Min(uint32(math.Floor(float64(grid.X/size))), maxIdx)
	cy := xmath.Min(uint32(math.Floor(float64(grid.Y/size))), maxIdx)
	return zorder.FromCell(zorder.Cell{X: cx, Y: cy}, depth), nil
}

// MutateCell rewrites the block of targetHeight covering worldPoint (in
// id's own world frame) to newLeaf, re-deriving the body's corner cache
// afterward. The DAG store handles structural sharing and garbage
// collection of the superseded subtree; this call only needs to swap the
// body's own Root pointer and rebuild Corners, matching spec.md §6's
// mutate_cell contract.
func (s *Set) MutateCell(id ID, targetHeight uint32, worldPoint xmath.Vec2, newLeaf dag.Index) error {
	b, ok := s.bodies[id]
	if !ok {
		return fmt.Errorf("body: unknown id %d", id)
	}

	path, err := localPath(b, targetHeight, worldPoint)
	if err != nil {
		return err
	}

	newRoot, err := s.store.SetNode(b.Root, path, newLeaf)
	if err != nil {
		return err
	}

	// SetNode may edit a solely-owned node in place and return the same
	// root, so the corner cache is rebuilt even when the root is unchanged.
	corners, err := corner.TreeCorners(s.store, s.palette, newRoot, corner.RootCenter(newRoot.Height))
	if err != nil {
		return err
	}
	b.Root = newRoot
	b.Corners = corners
	return nil
}

// SetRotation updates a body's rotation and keeps Forward in sync —
// spec.md §3's invariant that Forward always equals FromAngle(Rotation).
func (b *Body) SetRotation(radians float32) {
	b.Rotation = radians
	b.Forward = xmath.FromAngle(radians)
}

// WorldCorner returns a corner's absolute world-space position: the
// body's local corner point rotated by its current orientation and
// translated by its position.
func (b *Body) WorldCorner(p xmath.Vec2) xmath.Vec2 {
	return p.Rotate(b.Forward).Add(b.Position)
}

// PointVelocity returns the instantaneous linear velocity of a point at
// local offset p, combining translation and spin: v = linear + ω × p.
func (b *Body) PointVelocity(p xmath.Vec2) xmath.Vec2 {
	return b.LinearVelocity.Add(xmath.AngularToTangential(b.AngularVelocity, p))
}
