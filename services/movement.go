package services

import (
	"math"

	"gridduel-backend/algorithms"
	"gridduel-backend/models"
)

// segmentEpsilon - segments shorter than this snap without interpolation
const segmentEpsilon = 1e-6

// Mover - path execution state machine, advanced once per tick
//
// A Mover walks an agent's continuous position along a path, one straight
// segment per cell, at a fixed speed. Start supersedes any running
// execution; a cancelled execution leaves the position wherever the
// interpolation stopped.
type Mover struct {
	position models.Position
	height   float64

	// current execution
	targets  []algorithms.Cell
	segment  int
	from     models.Position
	elapsed  float64
	duration float64
	speed    float64
	active   bool

	onComplete func()
}

// NewMover - idle mover standing at start
func NewMover(start models.Position, height float64, onComplete func()) *Mover {
	start.Y = height
	return &Mover{
		position:   start,
		height:     height,
		onComplete: onComplete,
	}
}

// Position - current continuous position
func (m *Mover) Position() models.Position {
	return m.position
}

// Active - an execution is in progress
func (m *Mover) Active() bool {
	return m.active
}

// Remaining - cells not reached yet, current segment's target first
func (m *Mover) Remaining() []algorithms.Cell {
	if !m.active {
		return nil
	}
	out := make([]algorithms.Cell, len(m.targets)-m.segment)
	copy(out, m.targets[m.segment:])
	return out
}

// Start - begin walking path at speed, cancelling any running execution
//
// The first cell is skipped when the mover stands exactly on it. If a
// previous cancellation left the mover between cells, the first cell is
// kept so the mover re-aligns to the grid before continuing. When nothing
// is left to walk the execution completes before Start returns and Start
// reports false.
func (m *Mover) Start(path []algorithms.Cell, speed float64) bool {
	m.Cancel()

	targets := path
	if len(targets) > 0 && samePosition(m.position, targets[0].Position(m.height)) {
		targets = targets[1:]
	}
	if len(targets) == 0 {
		m.complete()
		return false
	}

	m.targets = append([]algorithms.Cell(nil), targets...)
	m.segment = 0
	m.speed = speed
	m.active = true
	m.beginSegment()
	return true
}

// Cancel - abandon the running execution, returns whether one was running
func (m *Mover) Cancel() bool {
	wasActive := m.active
	m.active = false
	m.targets = nil
	m.segment = 0
	m.elapsed = 0
	m.duration = 0
	return wasActive
}

// Teleport - place the mover on a cell, cancelling any execution
func (m *Mover) Teleport(c algorithms.Cell) {
	m.Cancel()
	m.position = c.Position(m.height)
}

// Tick - advance by dt seconds
//
// Time left over after a segment ends carries into the next one. Each
// segment ends with an exact snap onto its cell.
func (m *Mover) Tick(dt float64) {
	if !m.active || dt <= 0 {
		return
	}

	remaining := dt
	for m.active {
		target := m.targets[m.segment].Position(m.height)
		if m.elapsed+remaining < m.duration {
			m.elapsed += remaining
			m.position = lerp(m.from, target, m.elapsed/m.duration)
			return
		}

		remaining -= m.duration - m.elapsed
		if remaining < 0 {
			remaining = 0
		}
		m.position = target

		m.segment++
		if m.segment >= len(m.targets) {
			m.active = false
			m.targets = nil
			m.complete()
			return
		}
		m.beginSegment()
	}
}

func (m *Mover) beginSegment() {
	target := m.targets[m.segment].Position(m.height)
	m.from = m.position
	m.elapsed = 0

	dist := distance(m.from, target)
	if dist < segmentEpsilon || m.speed <= 0 {
		m.duration = 0
		return
	}
	m.duration = dist / m.speed
}

func (m *Mover) complete() {
	if m.onComplete != nil {
		m.onComplete()
	}
}

func lerp(a, b models.Position, t float64) models.Position {
	return models.Position{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

func distance(a, b models.Position) float64 {
	dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func samePosition(a, b models.Position) bool {
	return distance(a, b) < segmentEpsilon
}
