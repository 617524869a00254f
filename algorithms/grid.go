package algorithms

import (
	"errors"
	"fmt"
	"math"

	"gridduel-backend/models"
)

// DefaultGridSize - side length of the duel grid
const DefaultGridSize = 10

// MaxGridSize - largest side length a grid accepts
const MaxGridSize = 64

// ErrGridSize - side length outside [1, MaxGridSize]
var ErrGridSize = fmt.Errorf("grid size must be between 1 and %d", MaxGridSize)

// ValidSize - whether size is an acceptable side length
func ValidSize(size int) bool {
	return size > 0 && size <= MaxGridSize
}

// ErrLayoutMissing - no layout supplied; the grid stays fully walkable
var ErrLayoutMissing = errors.New("grid layout missing, using an all-walkable grid")

// ConfigurationError - malformed grid layout
type ConfigurationError struct {
	Expected int
	Got      int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("grid layout has %d cells, expected %d", e.Got, e.Expected)
}

// Cell - integer grid coordinate on the x/z plane
type Cell struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Add - cell offset by (dx, dz)
func (c Cell) Add(dx, dz int) Cell {
	return Cell{X: c.X + dx, Z: c.Z + dz}
}

// Position - world position of the cell at the given surface height
func (c Cell) Position(height float64) models.Position {
	return models.Position{X: float64(c.X), Y: height, Z: float64(c.Z)}
}

// Pair - [x, z] for JSON payloads
func (c Cell) Pair() [2]int {
	return [2]int{c.X, c.Z}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// CellFromPosition - floor-rounds a world position to its cell
func CellFromPosition(p models.Position) Cell {
	return Cell{X: int(math.Floor(p.X)), Z: int(math.Floor(p.Z))}
}

// Grid - fixed-size occupancy map, blocked flags indexed x + z*size
type Grid struct {
	size    int
	blocked []bool
}

// NewGrid - all-walkable grid, invalid sizes fall back to DefaultGridSize
func NewGrid(size int) *Grid {
	if !ValidSize(size) {
		size = DefaultGridSize
	}
	return &Grid{
		size:    size,
		blocked: make([]bool, size*size),
	}
}

// NewGridFromLayout - grid built from a layout asset
//
// The returned grid is always usable. A missing layout yields
// ErrLayoutMissing, an invalid size yields ErrGridSize and a length
// mismatch yields *ConfigurationError; in every case each cell is walkable.
func NewGridFromLayout(layout []models.CellType, size int) (*Grid, error) {
	g := NewGrid(size)
	if !ValidSize(size) {
		return g, fmt.Errorf("%w, got %d", ErrGridSize, size)
	}
	if len(layout) == 0 {
		return g, ErrLayoutMissing
	}
	if len(layout) != g.size*g.size {
		return g, &ConfigurationError{Expected: g.size * g.size, Got: len(layout)}
	}
	for i, tag := range layout {
		g.blocked[i] = tag == models.CellObstruction
	}
	return g, nil
}

// Size - side length
func (g *Grid) Size() int {
	return g.size
}

// IsInBounds - both coordinates in [0, size)
func (g *Grid) IsInBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.size && c.Z >= 0 && c.Z < g.size
}

// IsWalkable - in bounds and not blocked
func (g *Grid) IsWalkable(c Cell) bool {
	return g.IsInBounds(c) && !g.blocked[c.X+c.Z*g.size]
}

// IsBlocked - out of bounds cells report false
func (g *Grid) IsBlocked(c Cell) bool {
	return g.IsInBounds(c) && g.blocked[c.X+c.Z*g.size]
}

// SetBlocked - out of bounds cells are ignored
func (g *Grid) SetBlocked(c Cell, blocked bool) {
	if !g.IsInBounds(c) {
		return
	}
	g.blocked[c.X+c.Z*g.size] = blocked
}

// BlockedCount - number of blocked cells
func (g *Grid) BlockedCount() int {
	n := 0
	for _, b := range g.blocked {
		if b {
			n++
		}
	}
	return n
}

// BlockedCells - blocked cells in flat index order
func (g *Grid) BlockedCells() []Cell {
	var cells []Cell
	for i, b := range g.blocked {
		if b {
			cells = append(cells, Cell{X: i % g.size, Z: i / g.size})
		}
	}
	return cells
}

// BlockTemporarily - blocks c and returns a func restoring its prior flag
//
// The release func is safe to call more than once.
func (g *Grid) BlockTemporarily(c Cell) (release func()) {
	if !g.IsInBounds(c) {
		return func() {}
	}
	prev := g.IsBlocked(c)
	g.SetBlocked(c, true)
	released := false
	return func() {
		if released {
			return
		}
		released = true
		g.SetBlocked(c, prev)
	}
}

// WithBlocked - runs fn with c blocked, restoring c even if fn panics
func (g *Grid) WithBlocked(c Cell, fn func()) {
	release := g.BlockTemporarily(c)
	defer release()
	fn()
}
