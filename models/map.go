package models

import "time"

// Position - continuous world position (Y is the surface height)
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// ========================================
// Cell type tags (grid layout asset)
// ========================================
type CellType string

const (
	CellEmpty       CellType = "EmptyCell"
	CellPlayer      CellType = "Player"
	CellEnemy       CellType = "Enemy"
	CellObstruction CellType = "Obstruction"
)

// Valid - whether the tag is one of the four known cell types
func (c CellType) Valid() bool {
	switch c {
	case CellEmpty, CellPlayer, CellEnemy, CellObstruction:
		return true
	}
	return false
}

// GridLayout - flat list of cell tags, indexed x + z*Size
type GridLayout struct {
	ID        string     `json:"id"`
	Size      int        `json:"size"`
	Cells     []CellType `json:"cells"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewGridLayout - layout of the given size with every cell empty
func NewGridLayout(id string, size int) *GridLayout {
	l := &GridLayout{
		ID:        id,
		Size:      size,
		Cells:     make([]CellType, size*size),
		CreatedAt: time.Now(),
	}
	l.Reset()
	return l
}

// Reset - set every cell back to EmptyCell
func (l *GridLayout) Reset() {
	for i := range l.Cells {
		l.Cells[i] = CellEmpty
	}
}

// Index - flat index of (x, z), -1 if outside the layout
func (l *GridLayout) Index(x, z int) int {
	if x < 0 || z < 0 || x >= l.Size || z >= l.Size {
		return -1
	}
	return x + z*l.Size
}

// Set - tag a cell; out of range coordinates are ignored
func (l *GridLayout) Set(x, z int, t CellType) {
	if i := l.Index(x, z); i >= 0 && i < len(l.Cells) {
		l.Cells[i] = t
	}
}

// Find - first cell carrying the tag, scanning in flat index order
func (l *GridLayout) Find(t CellType) (x, z int, ok bool) {
	if l.Size <= 0 {
		return 0, 0, false
	}
	for i, c := range l.Cells {
		if c == t {
			return i % l.Size, i / l.Size, true
		}
	}
	return 0, 0, false
}

// LayoutMessage - layout broadcast to viewers after a reset
type LayoutMessage struct {
	LayoutID  string   `json:"layout_id"`
	SessionID string   `json:"session_id"`
	Size      int      `json:"size"`
	Blocked   [][2]int `json:"blocked"`
}
