package motion

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBracketAndBrentFindsSimpleRoot(t *testing.T) {
	f := func(t float32) float32 { return t - 3 }
	root, found, err := bracketAndBrent(f, 0, 10, 0)
	require.NoError(t, err)
	require.True(t, found)
	require.InDelta(t, 3, root, 1e-4)
}

func TestBracketAndBrentNoRootInRange(t *testing.T) {
	f := func(t float32) float32 { return t + 5 }
	_, found, err := bracketAndBrent(f, 0, 10, 0)
	require.NoError(t, err)
	require.False(t, found)
}

func TestBracketAndBrentEmptyRangeIsNotFound(t *testing.T) {
	f := func(t float32) float32 { return t }
	_, found, err := bracketAndBrent(f, 5, 5, 0)
	require.NoError(t, err)
	require.False(t, found)
}
