// Package corner builds the per-body corner cache: for every solid leaf
// cell reachable under a body's DAG root, the four corner points of that
// cell plus a bitmask of which corners are actually exposed (not buried
// against another solid cell). It is grounded on
// original_source/src/engine/physics/collisions.rs's corner_handling
// module (cell_corner_mask, cell_corners, tree_corners): the three
// adjacency checks per corner (two cardinal neighbors plus the diagonal
// between them), with an out-of-bounds neighbor always treated as
// passable so a body's outer boundary corners stay exposed.
package corner

import (
	"github.com/duskgrid/duskgrid/internal/xmath"
	"github.com/duskgrid/duskgrid/pkg/dag"
	"github.com/duskgrid/duskgrid/pkg/material"
	"github.com/duskgrid/duskgrid/pkg/zorder"
)

// LimOffset is a small inward nudge applied to a corner's raymarch origin
// to keep it from phasing exactly onto a cell boundary, where the
// adjacency classification becomes ambiguous. Ported from the prototype's
// LIM_OFFSET literal (engine/physics/collisions.rs).
const LimOffset float32 = 2.0 / 0xFFFF

// Kind names one of a solid cell's four corners. The bit value of Mask()
// matches the mask layout spec.md documents: TL=0b0001, TR=0b0010,
// BL=0b0100, BR=0b1000.
type Kind uint8

const (
	TopLeft Kind = iota
	TopRight
	BottomLeft
	BottomRight
)

// Mask returns this corner's single-bit value in an ExposedMask.
func (k Kind) Mask() uint8 { return 1 << uint(k) }

// offset returns a corner's (dx,dy) within a cell, in units of half the
// cell's size.
func (k Kind) offset() (int32, int32) {
	switch k {
	case TopLeft:
		return -1, -1
	case TopRight:
		return 1, -1
	case BottomLeft:
		return -1, 1
	default:
		return 1, 1
	}
}

// neighbors returns the three (dx,dy) neighbor steps (in whole cells) that
// share this corner: the two cardinal neighbors and the diagonal between
// them.
func (k Kind) neighbors() [3][2]int32 {
	switch k {
	case TopLeft:
		return [3][2]int32{{-1, 0}, {0, -1}, {-1, -1}}
	case TopRight:
		return [3][2]int32{{1, 0}, {0, -1}, {1, -1}}
	case BottomLeft:
		return [3][2]int32{{-1, 0}, {0, 1}, {-1, 1}}
	default:
		return [3][2]int32{{1, 0}, {0, 1}, {1, 1}}
	}
}

// Record is the corner cache entry for a single solid leaf cell: its four
// corner points (local to the body's root, center at the origin) and which
// of them are exposed.
type Record struct {
	LeafIndex   dag.Index
	Points      [4]xmath.Vec2
	ExposedMask uint8
}

// cellSize returns the side length, in base grid units, of a leaf at the
// given height (height counts subdivision levels below it; height 0 is the
// unit cell).
func cellSize(height uint32) float32 {
	return float32(int64(1) << height)
}

// cellOrigin returns a cell's top-left corner position in base grid units,
// given its coordinate in the grid at its own depth.
func cellOrigin(c zorder.Cell, height uint32) xmath.Vec2 {
	size := cellSize(height)
	return xmath.Vec2{X: float32(c.X) * size, Y: float32(c.Y) * size}
}

// points returns the four corner points of a cell centered on rootCenter:
// the cell's own center (in root-local units, origin at the root's
// top-left) minus rootCenter, plus each corner's offset from that center.
func points(origin xmath.Vec2, height uint32, rootCenter xmath.Vec2) [4]xmath.Vec2 {
	size := cellSize(height)
	half := size / 2
	center := origin.Add(xmath.Vec2{X: half, Y: half}).Sub(rootCenter)
	var out [4]xmath.Vec2
	for _, k := range []Kind{TopLeft, TopRight, BottomLeft, BottomRight} {
		dx, dy := k.offset()
		out[k] = center.Add(xmath.Vec2{X: float32(dx) * half, Y: float32(dy) * half})
	}
	return out
}

// Mask computes the exposed-corner bitmask for the leaf located at path
// under root: a corner is exposed unless one of its three neighbor cells
// (read via store) is solid. A neighbor stepping outside the root's grid
// is treated as passable.
func Mask(store *dag.Store, palette material.Palette, root dag.ExternalPointer, path zorder.Path) (uint8, error) {
	var mask uint8
	for _, k := range []Kind{TopLeft, TopRight, BottomLeft, BottomRight} {
		exposed := true
		for _, step := range k.neighbors() {
			neighborPath, ok := path.MoveCartesianly(step[0], step[1])
			if !ok {
				continue // out of bounds: passable, doesn't hide this corner
			}
			data, err := store.CellAt(root, neighborPath.ToCell(), neighborPath.Depth)
			if err != nil {
				return 0, err
			}
			if palette.IsSolid(material.Index(data.Pointer.Root)) {
				exposed = false
				break
			}
		}
		if exposed {
			mask |= k.Mask()
		}
	}
	return mask, nil
}

// TreeCorners walks every solid leaf reachable from root and builds its
// Record, including its exposed mask. rootCenter is the point (in base
// grid units, origin at the root's own top-left corner) that body-local
// corner offsets are measured from — ordinarily the geometric center of
// the root's bounding box.
func TreeCorners(store *dag.Store, palette material.Palette, root dag.ExternalPointer, rootCenter xmath.Vec2) ([]Record, error) {
	leaves, err := store.DFSLeafCells(root)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, leaf := range leaves {
		if !palette.IsSolid(material.Index(leaf.Pointer.Root)) {
			continue
		}
		mask, err := Mask(store, palette, root, leaf.Path)
		if err != nil {
			return nil, err
		}
		origin := cellOrigin(leaf.Cell, leaf.Pointer.Height)
		out = append(out, Record{
			LeafIndex:   leaf.Pointer.Root,
			Points:      points(origin, leaf.Pointer.Height, rootCenter),
			ExposedMask: mask,
		})
	}
	return out, nil
}

// RootCenter returns the geometric center of a root of the given height,
// in its own top-left-origin coordinate frame — the natural rootCenter
// argument for TreeCorners when a body's local origin is its bounding
// box's center.
func RootCenter(height uint32) xmath.Vec2 {
	half := cellSize(height) / 2
	return xmath.Vec2{X: half, Y: half}
}
