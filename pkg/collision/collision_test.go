package collision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskgrid/duskgrid/internal/xmath"
	"github.com/duskgrid/duskgrid/pkg/body"
	"github.com/duskgrid/duskgrid/pkg/corner"
	"github.com/duskgrid/duskgrid/pkg/dag"
	"github.com/duskgrid/duskgrid/pkg/material"
	"github.com/duskgrid/duskgrid/pkg/motion"
	"github.com/duskgrid/duskgrid/pkg/zorder"
)

func TestHittingWallRequiresSolidNeighbor(t *testing.T) {
	palette := material.Default()
	solid := dag.CellData{Pointer: dag.ExternalPointer{Root: dag.Index(material.Stone), Height: 0}}
	var cells [4]*dag.CellData
	cells[3] = &solid

	ct := motion.CornerTypeFromIndex(3) // BottomRight
	hx, hy := hittingWall(cells, palette, xmath.Vec2{X: 1, Y: 1}, ct)
	require.True(t, hx)
	require.True(t, hy)
}

func TestHittingWallOpenSpaceNoHit(t *testing.T) {
	palette := material.Default()
	var cells [4]*dag.CellData
	ct := motion.CornerTypeFromIndex(3)
	hx, hy := hittingWall(cells, palette, xmath.Vec2{X: 1, Y: 1}, ct)
	require.False(t, hx)
	require.False(t, hy)
}

func TestHittingWallZeroVelocityNeverHits(t *testing.T) {
	palette := material.Default()
	solid := dag.CellData{Pointer: dag.ExternalPointer{Root: dag.Index(material.Stone), Height: 0}}
	var cells [4]*dag.CellData
	cells[0], cells[1], cells[2], cells[3] = &solid, &solid, &solid, &solid
	ct := motion.CornerTypeFromIndex(0)
	hx, hy := hittingWall(cells, palette, xmath.Vec2{}, ct)
	require.False(t, hx)
	require.False(t, hy)
}

func TestPointToCellsLooksUpNeighboringQuadrants(t *testing.T) {
	store := dag.NewStore(material.Default().Len())
	root := dag.ExternalPointer{Root: dag.Index(material.Empty), Height: 1}
	root, err := store.SetNode(root, zorder.FromCell(zorder.Cell{X: 1, Y: 1}, 1), dag.Index(material.Stone))
	require.NoError(t, err)

	rootCenter := corner.RootCenter(root.Height)
	cells, err := pointToCells(store, root, rootCenter, xmath.Vec2{})
	require.NoError(t, err)

	require.NotNil(t, cells[3])
	require.True(t, material.Default().IsSolid(material.Index(cells[3].Pointer.Root)))
	require.NotNil(t, cells[0])
	require.False(t, material.Default().IsSolid(material.Index(cells[0].Pointer.Root)))
}

func TestBuildObjectNilWhenNoRelativeMotion(t *testing.T) {
	store := dag.NewStore(material.Default().Len())
	palette := material.Default()
	set := body.NewSet(store, palette)
	root := dag.ExternalPointer{Root: dag.Index(material.Stone), Height: 0}

	a, err := set.CreateBody(root, xmath.Vec2{}, 0, false)
	require.NoError(t, err)
	b, err := set.CreateBody(root, xmath.Vec2{X: 5, Y: 0}, 0, false)
	require.NoError(t, err)

	require.Nil(t, buildObject(a, b))
}

func TestSchedulerStepAdvancesFreelyWithNoCollision(t *testing.T) {
	store := dag.NewStore(material.Default().Len())
	palette := material.Default()
	bodies := body.NewSet(store, palette)

	root := dag.ExternalPointer{Root: dag.Index(material.Empty), Height: 0}
	a, err := bodies.CreateBody(root, xmath.Vec2{}, 0, false)
	require.NoError(t, err)
	a.LinearVelocity = xmath.Vec2{X: 1, Y: 0}

	sched := NewScheduler(store, palette, bodies)
	require.NoError(t, sched.Step(1))

	require.InDelta(t, 1, a.Position.X, 1e-4)
	require.InDelta(t, DragMultiplier, a.LinearVelocity.X, 1e-4)
}

func TestSchedulerStepRunsToCompletionWithCollidingBodies(t *testing.T) {
	store := dag.NewStore(material.Default().Len())
	palette := material.Default()
	bodies := body.NewSet(store, palette)

	// Both bodies are unit squares (height-0 root, half-extent 0.5). moving
	// starts with its bottom edge at y=0.5 heading straight down at the
	// static body below it, whose top edge sits at y=1.5: a real contact one
	// unit of travel in, well short of the 2 units free fall would cover
	// over Step's full dt.
	solidRoot := dag.ExternalPointer{Root: dag.Index(material.Stone), Height: 0}
	moving, err := bodies.CreateBody(solidRoot, xmath.Vec2{X: 0, Y: 0}, 0, false)
	require.NoError(t, err)
	moving.LinearVelocity = xmath.Vec2{X: 0, Y: 1}

	_, err = bodies.CreateBody(solidRoot, xmath.Vec2{X: 0, Y: 2}, 0, true)
	require.NoError(t, err)

	sched := NewScheduler(store, palette, bodies)
	require.NoError(t, sched.Step(2))

	require.Less(t, moving.Position.Y, float32(1.5), "the wall contact must actually stop the fall short of free-motion's y=2")
	require.InDelta(t, 0, moving.LinearVelocity.Y, 0.1, "the impulse must cancel the downward velocity on contact")
}
