package broadphase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskgrid/duskgrid/internal/xmath"
	"github.com/duskgrid/duskgrid/pkg/body"
	"github.com/duskgrid/duskgrid/pkg/dag"
	"github.com/duskgrid/duskgrid/pkg/material"
)

func makeBody(t *testing.T, set *body.Set, pos xmath.Vec2, vel xmath.Vec2, static bool) *body.Body {
	root := dag.ExternalPointer{Root: dag.Index(material.Empty), Height: 1}
	b, err := set.CreateBody(root, pos, 0, static)
	require.NoError(t, err)
	b.LinearVelocity = vel
	return b
}

func TestPairsFindsOverlappingBodies(t *testing.T) {
	store := dag.NewStore(material.Default().Len())
	set := body.NewSet(store, material.Default())

	a := makeBody(t, set, xmath.Vec2{X: 0, Y: 0}, xmath.Vec2{}, false)
	b := makeBody(t, set, xmath.Vec2{X: 1.5, Y: 0}, xmath.Vec2{}, false)
	_ = makeBody(t, set, xmath.Vec2{X: 100, Y: 100}, xmath.Vec2{}, false)

	pairs := Pairs(set.All(), 1.0/60)
	require.Len(t, pairs, 1)
	require.ElementsMatch(t, []body.ID{a.ID, b.ID}, []body.ID{pairs[0].A, pairs[0].B})
}

func TestPairsSkipsTwoStaticBodies(t *testing.T) {
	store := dag.NewStore(material.Default().Len())
	set := body.NewSet(store, material.Default())

	makeBody(t, set, xmath.Vec2{X: 0, Y: 0}, xmath.Vec2{}, true)
	makeBody(t, set, xmath.Vec2{X: 0, Y: 0}, xmath.Vec2{}, true)

	require.Empty(t, Pairs(set.All(), 1.0/60))
}

func TestPairsIncludesSweptMotion(t *testing.T) {
	store := dag.NewStore(material.Default().Len())
	set := body.NewSet(store, material.Default())

	makeBody(t, set, xmath.Vec2{X: 0, Y: 0}, xmath.Vec2{X: 100, Y: 0}, false)
	makeBody(t, set, xmath.Vec2{X: 10, Y: 0}, xmath.Vec2{}, false)

	require.Len(t, Pairs(set.All(), 1.0/60), 1)
}
