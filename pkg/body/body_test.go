package body

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskgrid/duskgrid/internal/xmath"
	"github.com/duskgrid/duskgrid/pkg/dag"
	"github.com/duskgrid/duskgrid/pkg/material"
	"github.com/duskgrid/duskgrid/pkg/zorder"
)

func newTestSet() (*Set, *dag.Store) {
	store := dag.NewStore(material.Default().Len())
	return NewSet(store, material.Default()), store
}

func TestCreateBodyBuildsCornerCache(t *testing.T) {
	set, store := newTestSet()
	root := dag.ExternalPointer{Root: dag.Index(material.Empty), Height: 2}
	root, err := store.SetNode(root, zorder.FromCell(zorder.Cell{X: 1, Y: 1}, 2), dag.Index(material.Stone))
	require.NoError(t, err)

	b, err := set.CreateBody(root, xmath.Vec2{X: 10, Y: 10}, 0, false)
	require.NoError(t, err)
	require.Len(t, b.Corners, 1)
	require.Equal(t, xmath.Vec2{X: 1, Y: 0}, b.Forward)
}

func TestMutateCellRebuildsCorners(t *testing.T) {
	set, store := newTestSet()
	root := dag.ExternalPointer{Root: dag.Index(material.Empty), Height: 2}
	b, err := set.CreateBody(root, xmath.Vec2{}, 0, false)
	require.NoError(t, err)
	require.Empty(t, b.Corners)

	// height-2 root is a 4x4 leaf grid centered on the body's position, so
	// cell (2,2) covers local [0,1)x[0,1) and world point (0.5, 0.5).
	err = set.MutateCell(b.ID, 0, xmath.Vec2{X: 0.5, Y: 0.5}, dag.Index(material.Stone))
	require.NoError(t, err)
	require.Len(t, b.Corners, 1)
	_ = store
}

func TestMutateCellOutsideDomainRejected(t *testing.T) {
	set, _ := newTestSet()
	root := dag.ExternalPointer{Root: dag.Index(material.Empty), Height: 1}
	b, err := set.CreateBody(root, xmath.Vec2{}, 0, false)
	require.NoError(t, err)

	err = set.MutateCell(b.ID, 2, xmath.Vec2{}, dag.Index(material.Stone))
	require.ErrorIs(t, err, ErrEditOutsideDomain)
}

func TestMutateCellRejectsPointOutsideAABB(t *testing.T) {
	set, _ := newTestSet()
	root := dag.ExternalPointer{Root: dag.Index(material.Empty), Height: 1}
	b, err := set.CreateBody(root, xmath.Vec2{}, 0, false)
	require.NoError(t, err)

	// height-1 root spans [-1, 1] on each axis; (5, 5) is well outside it.
	err = set.MutateCell(b.ID, 0, xmath.Vec2{X: 5, Y: 5}, dag.Index(material.Stone))
	require.ErrorIs(t, err, ErrPointOutsideBody)
}

func TestDestroyBodyReleasesAndFreesID(t *testing.T) {
	set, _ := newTestSet()
	root := dag.ExternalPointer{Root: dag.Index(material.Empty), Height: 1}
	b, err := set.CreateBody(root, xmath.Vec2{}, 0, false)
	require.NoError(t, err)
	id := b.ID

	require.NoError(t, set.DestroyBody(id))
	require.Nil(t, set.Get(id))

	b2, err := set.CreateBody(root, xmath.Vec2{}, 0, false)
	require.NoError(t, err)
	require.Equal(t, id, b2.ID, "freed ids should be reused")
}
