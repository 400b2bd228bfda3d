package corner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskgrid/duskgrid/pkg/dag"
	"github.com/duskgrid/duskgrid/pkg/material"
	"github.com/duskgrid/duskgrid/pkg/zorder"
)

func TestTreeCornersFindsIsolatedSolidBlock(t *testing.T) {
	store := dag.NewStore(material.Default().Len())
	palette := material.Default()
	root := dag.ExternalPointer{Root: dag.Index(material.Empty), Height: 3}

	var err error
	root, err = store.SetNode(root, zorder.FromCell(zorder.Cell{X: 3, Y: 3}, 3), dag.Index(material.Stone))
	require.NoError(t, err)

	records, err := TreeCorners(store, palette, root, RootCenter(root.Height))
	require.NoError(t, err)
	require.Len(t, records, 1)
	// Isolated solid cell: every corner exposed (no solid neighbor at all).
	require.Equal(t, uint8(0b1111), records[0].ExposedMask)
}

func TestTreeCornersHidesSharedCornerBetweenAdjacentSolids(t *testing.T) {
	store := dag.NewStore(material.Default().Len())
	palette := material.Default()
	root := dag.ExternalPointer{Root: dag.Index(material.Empty), Height: 3}

	var err error
	root, err = store.SetNode(root, zorder.FromCell(zorder.Cell{X: 2, Y: 2}, 3), dag.Index(material.Stone))
	require.NoError(t, err)
	root, err = store.SetNode(root, zorder.FromCell(zorder.Cell{X: 3, Y: 2}, 3), dag.Index(material.Stone))
	require.NoError(t, err)

	records, err := TreeCorners(store, palette, root, RootCenter(root.Height))
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, r := range records {
		// The shared edge between the two cells hides exactly the two
		// corners sitting on that shared edge for each cell.
		require.NotEqual(t, uint8(0b1111), r.ExposedMask)
	}
}
