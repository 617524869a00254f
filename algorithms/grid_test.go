package algorithms

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"gridduel-backend/models"
)

func TestNewGridFromLayout(t *testing.T) {
	t.Parallel()

	layout := make([]models.CellType, 100)
	for i := range layout {
		layout[i] = models.CellEmpty
	}
	layout[3+4*10] = models.CellObstruction
	layout[0] = models.CellPlayer
	layout[99] = models.CellEnemy

	g, err := NewGridFromLayout(layout, 10)
	require.NoError(t, err)
	require.Equal(t, 10, g.Size())
	require.Equal(t, 1, g.BlockedCount())
	require.True(t, g.IsBlocked(Cell{3, 4}))
	require.False(t, g.IsBlocked(Cell{4, 3}))
	require.True(t, g.IsWalkable(Cell{0, 0}))
	require.True(t, g.IsWalkable(Cell{9, 9}))
}

func TestNewGridFromLayout_WrongLength(t *testing.T) {
	t.Parallel()

	layout := []models.CellType{models.CellObstruction, models.CellObstruction}
	g, err := NewGridFromLayout(layout, 10)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	require.Equal(t, 100, cfgErr.Expected)
	require.Equal(t, 2, cfgErr.Got)
	require.NotNil(t, g)
	require.Zero(t, g.BlockedCount())
}

func TestNewGridFromLayout_Missing(t *testing.T) {
	t.Parallel()

	g, err := NewGridFromLayout(nil, 10)
	require.ErrorIs(t, err, ErrLayoutMissing)
	require.NotNil(t, g)
	require.Zero(t, g.BlockedCount())
}

func TestGrid_Bounds(t *testing.T) {
	t.Parallel()

	g := NewGrid(10)
	for _, tc := range []struct {
		cell Cell
		in   bool
	}{
		{Cell{0, 0}, true},
		{Cell{9, 9}, true},
		{Cell{10, 0}, false},
		{Cell{0, 10}, false},
		{Cell{-1, 0}, false},
		{Cell{0, -1}, false},
	} {
		require.Equal(t, tc.in, g.IsInBounds(tc.cell), "%v", tc.cell)
		require.Equal(t, tc.in, g.IsWalkable(tc.cell), "%v", tc.cell)
	}
}

func TestGrid_SetBlockedIsBoolean(t *testing.T) {
	t.Parallel()

	g := NewGrid(10)
	c := Cell{2, 7}
	g.SetBlocked(c, true)
	g.SetBlocked(c, true)
	g.SetBlocked(c, false)
	require.False(t, g.IsBlocked(c))
	require.True(t, g.IsWalkable(c))

	// out of bounds writes are ignored
	g.SetBlocked(Cell{-1, 20}, true)
	require.Zero(t, g.BlockedCount())
}

func TestGrid_WithBlockedRestores(t *testing.T) {
	t.Parallel()

	g := NewGrid(10)
	c := Cell{5, 5}

	g.WithBlocked(c, func() {
		require.True(t, g.IsBlocked(c))
		require.Nil(t, FindPath(Cell{0, 0}, c, g))
	})
	require.False(t, g.IsBlocked(c))

	require.Panics(t, func() {
		g.WithBlocked(c, func() { panic("search failed") })
	})
	require.False(t, g.IsBlocked(c))
	require.Zero(t, g.BlockedCount())
}

func TestGrid_BlockTemporarilyKeepsPriorFlag(t *testing.T) {
	t.Parallel()

	g := NewGrid(10)
	c := Cell{1, 1}
	g.SetBlocked(c, true)

	release := g.BlockTemporarily(c)
	release()
	release()
	require.True(t, g.IsBlocked(c))

	noop := g.BlockTemporarily(Cell{-3, 0})
	noop()
	require.Equal(t, 1, g.BlockedCount())
}

func TestCellFromPosition(t *testing.T) {
	t.Parallel()

	require.Equal(t, Cell{3, 7}, CellFromPosition(models.Position{X: 3.9, Y: 1, Z: 7.1}))
	require.Equal(t, Cell{-1, 0}, CellFromPosition(models.Position{X: -0.5, Z: 0}))
	require.Equal(t, models.Position{X: 3, Y: 1, Z: 7}, Cell{3, 7}.Position(1))
}

func TestGrid_OutOfRangeSizeFallsBack(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, -3, MaxGridSize + 1, math.MaxInt} {
		g := NewGrid(size)
		require.Equal(t, DefaultGridSize, g.Size(), size)
		require.True(t, g.IsWalkable(Cell{1, 0}), size)
		require.Nil(t, FindPath(Cell{0, 0}, Cell{DefaultGridSize, 0}, g))
	}
	require.Equal(t, MaxGridSize, NewGrid(MaxGridSize).Size())

	cells := make([]models.CellType, 4)
	g, err := NewGridFromLayout(cells, math.MaxInt)
	require.ErrorIs(t, err, ErrGridSize)
	require.Equal(t, DefaultGridSize, g.Size())
	require.True(t, g.IsWalkable(Cell{9, 9}))
}
