package motion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskgrid/duskgrid/internal/xmath"
)

func TestAtTickPureTranslation(t *testing.T) {
	m := Motion{
		Offset:   xmath.Vec2{X: 1, Y: 0},
		Velocity: xmath.Vec2{X: 2, Y: 0},
	}
	p := m.AtTick(3)
	require.InDelta(t, 7, p.X, 1e-5)
	require.InDelta(t, 0, p.Y, 1e-5)
}

func TestFindRootLinearCase(t *testing.T) {
	m := Motion{
		Offset:   xmath.Vec2{X: 0, Y: 0},
		Velocity: xmath.Vec2{X: 1, Y: 0},
	}
	root, found, err := m.FindRoot(AxisX, 5, 10)
	require.NoError(t, err)
	require.True(t, found)
	require.InDelta(t, 5, root, 1e-4)
}

func TestFindRootLinearNeverReachesTarget(t *testing.T) {
	m := Motion{Velocity: xmath.Vec2{X: 1, Y: 0}}
	_, found, err := m.FindRoot(AxisX, 100, 1)
	require.NoError(t, err)
	require.False(t, found)
}

func TestFindRootAlreadyAtTarget(t *testing.T) {
	m := Motion{Offset: xmath.Vec2{X: 5, Y: 0}}
	root, found, err := m.FindRoot(AxisX, 5, 10)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, float32(0), root)
}

func TestFindRootRotationalCase(t *testing.T) {
	m := Motion{
		Offset:             xmath.Vec2{X: 1, Y: 0},
		RotationalVelocity: 1,
	}
	// component(t) = cos(t); it crosses 0 at t = pi/2.
	root, found, err := m.FindRoot(AxisX, 0, 3)
	require.NoError(t, err)
	require.True(t, found)
	require.InDelta(t, 1.5707963, root, 1e-3)
}
