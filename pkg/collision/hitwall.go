package collision

import (
	"math"

	"github.com/duskgrid/duskgrid/internal/xmath"
	"github.com/duskgrid/duskgrid/pkg/corner"
	"github.com/duskgrid/duskgrid/pkg/dag"
	"github.com/duskgrid/duskgrid/pkg/material"
	"github.com/duskgrid/duskgrid/pkg/motion"
	"github.com/duskgrid/duskgrid/pkg/zorder"
)

func cellSize(height uint32) float32 { return float32(int64(1) << height) }

// quadrantIndex maps a velocity's sign to one of the four quadrant cells
// surrounding a point, in the 2*y|x convention used throughout.
func quadrantIndex(v xmath.Vec2) int {
	y, x := 0, 0
	if xmath.Greater(v.Y, 0) {
		y = 1
	}
	if xmath.Greater(v.X, 0) {
		x = 1
	}
	return 2*y | x
}

// pointToCells looks up the (up to) four cells diagonally surrounding
// point — expressed in target-center-relative coordinates, the same frame
// corner.Record points use — nudged inward by corner.LimOffset so a point
// sitting exactly on a cell boundary resolves unambiguously. A direction
// that would fall outside the root's grid is left nil, the same
// out-of-bounds-is-passable convention corner.Mask uses.
func pointToCells(store *dag.Store, root dag.ExternalPointer, rootCenter, point xmath.Vec2) ([4]*dag.CellData, error) {
	var out [4]*dag.CellData
	gridPoint := point.Add(rootCenter)
	bound := cellSize(root.Height)
	directions := [4]xmath.Vec2{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}}

	maxIdx := uint32(bound) - 1
	for i, dir := range directions {
		cur := gridPoint.Add(dir.Scale(corner.LimOffset))
		if cur.X < 0 || cur.Y < 0 || cur.X > bound || cur.Y > bound {
			continue
		}
		cx := xmath.Min(uint32(math.Floor(float64(cur.X))), maxIdx)
		cy := xmath.Min(uint32(math.Floor(float64(cur.Y))), maxIdx)
		data, err := store.CellAt(root, zorder.Cell{X: cx, Y: cy}, root.Height)
		if err != nil {
			return out, err
		}
		d := data
		out[i] = &d
	}
	return out, nil
}

func isSolidCell(palette material.Palette, c *dag.CellData) bool {
	if c == nil {
		return false
	}
	return palette.IsSolid(material.Index(c.Pointer.Root))
}

// slideIndices returns the two quadrant indices hittingWall consults to
// decide whether a simultaneous two-axis hit should slide along one wall
// instead of stopping dead on the corner — the diagonal-neighbor tie break
// ported from collisions.rs's hitting_wall.
func slideIndices(v xmath.Vec2) (int, int) {
	switch {
	case xmath.Less(v.X, 0) && xmath.Less(v.Y, 0):
		return 2, 1
	case xmath.Less(v.X, 0) && xmath.Greater(v.Y, 0):
		return 0, 3
	case xmath.Greater(v.X, 0) && xmath.Less(v.Y, 0):
		return 3, 0
	default: // x > 0, y > 0
		return 1, 2
	}
}

// hittingWall decides which of a corner's threatened walls (x, y) are
// actually being struck: a wall only counts if the corresponding quadrant
// cell(s) the corner is moving into are solid, and if both axes would hit
// simultaneously, the two cells adjacent to the diagonal decide: exactly
// one solid downgrades that to a slide along just that wall, while both or
// neither solid leaves a full stop on both axes.
func hittingWall(cells [4]*dag.CellData, palette material.Palette, itvel xmath.Vec2, ct motion.CornerType) (hitX, hitY bool) {
	if itvel.IsZero() {
		return false, false
	}
	hitX, hitY = ct.HittableWalls(itvel)

	var solid bool
	for _, idx := range ct.Checks(itvel) {
		if isSolidCell(palette, cells[idx]) {
			solid = true
			break
		}
	}
	hitX, hitY = hitX && solid, hitY && solid

	if hitX && hitY {
		ix, iy := slideIndices(itvel)
		slideX, slideY := isSolidCell(palette, cells[ix]), isSolidCell(palette, cells[iy])
		if slideX || slideY {
			hitX, hitY = slideX, slideY
		}
	}
	return hitX, hitY
}
