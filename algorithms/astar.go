package algorithms

import (
	"container/heap"
)

// Walkable - the grid query the pathfinder needs
type Walkable interface {
	IsWalkable(c Cell) bool
}

// node - A* search node, owned by a single FindPath call
type node struct {
	Cell
	g, h   float64
	parent *node
	seq    int // discovery order, tie-break for equal f
	index  int // heap position, -1 once popped
}

func (n *node) f() float64 {
	return n.g + n.h
}

// openSet - A* priority queue, lowest f first, then earliest discovered
type openSet []*node

func (pq openSet) Len() int { return len(pq) }

func (pq openSet) Less(i, j int) bool {
	fi, fj := pq[i].f(), pq[j].f()
	if fi != fj {
		return fi < fj
	}
	return pq[i].seq < pq[j].seq
}

func (pq openSet) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *openSet) Push(x interface{}) {
	n := x.(*node)
	n.index = len(*pq)
	*pq = append(*pq, n)
}

func (pq *openSet) Pop() interface{} {
	old := *pq
	last := len(old) - 1
	n := old[last]
	old[last] = nil
	n.index = -1
	*pq = old[:last]
	return n
}

// directions - +X, -X, +Z, -Z
var directions = [4][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
}

// ManhattanDistance - |dx| + |dz|
func ManhattanDistance(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Z-b.Z)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// FindPath - A* over 4-connected unit-cost cells
//
// Returns the cells from start to goal inclusive, or nil when the goal
// cannot be reached. start == goal yields a single-cell path. Among open
// nodes with equal f the one discovered first is expanded first.
func FindPath(start, goal Cell, grid Walkable) []Cell {
	if start == goal {
		return []Cell{start}
	}

	open := make(openSet, 0, 16)
	seen := make(map[Cell]*node)
	closed := make(map[Cell]bool)
	seq := 0

	startNode := &node{Cell: start, h: float64(ManhattanDistance(start, goal)), seq: seq}
	seen[start] = startNode
	heap.Push(&open, startNode)

	for open.Len() > 0 {
		current := heap.Pop(&open).(*node)

		if current.Cell == goal {
			return reconstructPath(current)
		}
		closed[current.Cell] = true

		for _, d := range directions {
			next := current.Add(d[0], d[1])
			if !grid.IsWalkable(next) || closed[next] {
				continue
			}

			tentativeG := current.g + 1
			neighbor, ok := seen[next]
			if !ok {
				seq++
				neighbor = &node{
					Cell:   next,
					g:      tentativeG,
					h:      float64(ManhattanDistance(next, goal)),
					parent: current,
					seq:    seq,
				}
				seen[next] = neighbor
				heap.Push(&open, neighbor)
				continue
			}
			if tentativeG < neighbor.g && neighbor.index >= 0 {
				neighbor.g = tentativeG
				neighbor.parent = current
				heap.Fix(&open, neighbor.index)
			}
		}
	}

	return nil
}

// reconstructPath - walks parent links back to the start
func reconstructPath(n *node) []Cell {
	var path []Cell
	for cur := n; cur != nil; cur = cur.parent {
		path = append(path, cur.Cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// ValidatePath - every step is a single axis-aligned unit move
func ValidatePath(path []Cell) bool {
	for i := 1; i < len(path); i++ {
		if ManhattanDistance(path[i-1], path[i]) != 1 {
			return false
		}
	}
	return true
}

// PathContains - whether c lies on the path
func PathContains(path []Cell, c Cell) bool {
	for _, p := range path {
		if p == c {
			return true
		}
	}
	return false
}

// PathPairs - path as [x, z] pairs for JSON payloads
func PathPairs(path []Cell) [][2]int {
	pairs := make([][2]int, len(path))
	for i, c := range path {
		pairs[i] = c.Pair()
	}
	return pairs
}
