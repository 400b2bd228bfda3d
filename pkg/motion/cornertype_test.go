package motion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskgrid/duskgrid/internal/xmath"
)

func TestCornerTypeHittableWallsTopLeft(t *testing.T) {
	c := CornerTypeFromIndex(0) // TopLeft
	x, y := c.HittableWalls(xmath.Vec2{X: -1, Y: -1})
	require.True(t, x)
	require.True(t, y)

	x, y = c.HittableWalls(xmath.Vec2{X: 1, Y: 1})
	require.False(t, x)
	require.False(t, y)
}

func TestCornerTypeRotateBackToSameCorner(t *testing.T) {
	c := CornerTypeFromIndex(3) // BottomRight
	rotated := c.Rotate(float32(2 * math.Pi))
	require.InDelta(t, c.Rotation(), rotated.Rotation(), 1e-4)
}

func TestCornerTypeRotateLandsOnEdge(t *testing.T) {
	c := CornerTypeFromIndex(3) // BottomRight, angle = pi/4
	rotated := c.Rotate(float32(math.Pi) / 4)
	require.InDelta(t, math.Pi/2, rotated.Rotation(), 1e-4)
	x, y := rotated.HittableWalls(xmath.Vec2{X: 0, Y: 1})
	require.False(t, x)
	require.True(t, y)
}

func TestCornerTypeChecksDiagonalVelocity(t *testing.T) {
	c := CornerTypeFromIndex(0)
	idx := c.Checks(xmath.Vec2{X: 1, Y: 1})
	require.Equal(t, []int{3}, idx)
}

func TestCornerTypeChecksPanicsOnZeroVelocity(t *testing.T) {
	c := CornerTypeFromIndex(0)
	require.Panics(t, func() { c.Checks(xmath.Vec2{}) })
}
