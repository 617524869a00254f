package algorithms

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func wallGrid(t *testing.T) *Grid {
	t.Helper()
	g := NewGrid(10)
	for _, c := range []Cell{{3, 3}, {3, 4}, {3, 5}} {
		g.SetBlocked(c, true)
	}
	return g
}

func TestFindPath_OpenGridIsManhattanOptimal(t *testing.T) {
	t.Parallel()

	g := NewGrid(10)
	for sx := 0; sx < 10; sx += 3 {
		for sz := 0; sz < 10; sz += 4 {
			for gx := 0; gx < 10; gx += 2 {
				for gz := 0; gz < 10; gz += 3 {
					start, goal := Cell{sx, sz}, Cell{gx, gz}
					path := FindPath(start, goal, g)
					require.NotNil(t, path, "%v -> %v", start, goal)
					require.Len(t, path, ManhattanDistance(start, goal)+1)
					require.Equal(t, start, path[0])
					require.Equal(t, goal, path[len(path)-1])
					require.True(t, ValidatePath(path))
				}
			}
		}
	}
}

func TestFindPath_StartEqualsGoal(t *testing.T) {
	t.Parallel()

	path := FindPath(Cell{4, 4}, Cell{4, 4}, NewGrid(10))
	require.Equal(t, []Cell{{4, 4}}, path)
}

func TestFindPath_StraightRowPastWall(t *testing.T) {
	t.Parallel()

	path := FindPath(Cell{0, 0}, Cell{6, 0}, wallGrid(t))
	require.Equal(t, []Cell{
		{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}, {6, 0},
	}, path)
}

func TestFindPath_DetoursAroundWall(t *testing.T) {
	t.Parallel()

	g := wallGrid(t)
	start, goal := Cell{3, 0}, Cell{3, 6}
	path := FindPath(start, goal, g)
	require.NotNil(t, path)
	require.Len(t, path, ManhattanDistance(start, goal)+2+1)
	require.True(t, ValidatePath(path))
	for _, c := range path {
		require.True(t, g.IsWalkable(c), "path crosses blocked cell %v", c)
	}
	require.True(t, PathContains(path, Cell{2, 4}) || PathContains(path, Cell{4, 4}))
}

func TestFindPath_EnclosedGoal(t *testing.T) {
	t.Parallel()

	g := NewGrid(10)
	goal := Cell{5, 5}
	for _, c := range []Cell{{4, 5}, {6, 5}, {5, 4}, {5, 6}} {
		g.SetBlocked(c, true)
	}
	before := g.BlockedCount()

	require.Nil(t, FindPath(Cell{0, 0}, goal, g))
	require.Equal(t, before, g.BlockedCount())
}

func TestFindPath_BlockedOrOutOfBoundsGoal(t *testing.T) {
	t.Parallel()

	g := wallGrid(t)
	require.Nil(t, FindPath(Cell{0, 0}, Cell{3, 4}, g))
	require.Nil(t, FindPath(Cell{0, 0}, Cell{10, 0}, g))
	require.Nil(t, FindPath(Cell{0, 0}, Cell{-1, 3}, g))
}

func TestFindPath_TieBreakIsDeterministic(t *testing.T) {
	t.Parallel()

	g := NewGrid(10)
	first := FindPath(Cell{0, 0}, Cell{4, 4}, g)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, FindPath(Cell{0, 0}, Cell{4, 4}, g))
	}
}

func TestFindPath_AcceptsAnyWalkable(t *testing.T) {
	t.Parallel()

	// a corridor one cell wide along z=0, x in [0, 5]
	corridor := walkableFunc(func(c Cell) bool {
		return c.Z == 0 && c.X >= 0 && c.X <= 5
	})
	path := FindPath(Cell{0, 0}, Cell{5, 0}, corridor)
	require.Len(t, path, 6)
	require.Nil(t, FindPath(Cell{0, 0}, Cell{0, 1}, corridor))
}

type walkableFunc func(Cell) bool

func (f walkableFunc) IsWalkable(c Cell) bool { return f(c) }

func TestValidatePath(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		path []Cell
		want bool
	}{
		{"empty", nil, true},
		{"single", []Cell{{1, 1}}, true},
		{"unit steps", []Cell{{0, 0}, {1, 0}, {1, 1}}, true},
		{"diagonal", []Cell{{0, 0}, {1, 1}}, false},
		{"gap", []Cell{{0, 0}, {2, 0}}, false},
		{"repeat", []Cell{{0, 0}, {0, 0}}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ValidatePath(tc.path))
		})
	}
}
