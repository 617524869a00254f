package services

import (
	"gridduel-backend/algorithms"
	"gridduel-backend/models"
)

// AgentHooks - per-agent behaviour plugged into a GridAgent
type AgentHooks struct {
	// TrimPath adjusts a found path before it is walked
	TrimPath func(path []algorithms.Cell) []algorithms.Cell
	// OnArrive runs when an execution finishes normally
	OnArrive func(a *GridAgent)
}

// GridAgent - pathfinding + movement capability shared by player and enemy
type GridAgent struct {
	kind  models.AgentKind
	grid  *algorithms.Grid
	mover *Mover
	speed float64
	path  []algorithms.Cell // last path handed to the mover
	hooks AgentHooks
}

// NewGridAgent - idle agent standing on start
func NewGridAgent(kind models.AgentKind, grid *algorithms.Grid, start algorithms.Cell, speed, height float64, hooks AgentHooks) *GridAgent {
	a := &GridAgent{
		kind:  kind,
		grid:  grid,
		speed: speed,
		hooks: hooks,
	}
	a.mover = NewMover(start.Position(height), height, a.arrive)
	return a
}

// Kind - player or enemy
func (a *GridAgent) Kind() models.AgentKind {
	return a.kind
}

// MotionState - moving while an execution is in progress
func (a *GridAgent) MotionState() models.MotionState {
	if a.mover.Active() {
		return models.MotionMoving
	}
	return models.MotionIdle
}

// Position - continuous position
func (a *GridAgent) Position() models.Position {
	return a.mover.Position()
}

// Cell - floor-rounded position
func (a *GridAgent) Cell() algorithms.Cell {
	return algorithms.CellFromPosition(a.mover.Position())
}

// Speed - cells per second
func (a *GridAgent) Speed() float64 {
	return a.speed
}

// Path - last path handed to the mover
func (a *GridAgent) Path() []algorithms.Cell {
	return a.path
}

// Remaining - cells still ahead of the agent
func (a *GridAgent) Remaining() []algorithms.Cell {
	return a.mover.Remaining()
}

// PlanPath - A* from the agent's cell to target on the agent's grid
func (a *GridAgent) PlanPath(target algorithms.Cell) []algorithms.Cell {
	return algorithms.FindPath(a.Cell(), target, a.grid)
}

// RequestMove - plan and follow a path to target, false when unreachable
func (a *GridAgent) RequestMove(target algorithms.Cell) bool {
	path := a.PlanPath(target)
	if path == nil {
		return false
	}
	a.Follow(path)
	return true
}

// Follow - walk path, superseding whatever the agent was doing
func (a *GridAgent) Follow(path []algorithms.Cell) {
	if a.hooks.TrimPath != nil {
		path = a.hooks.TrimPath(path)
	}
	a.path = path
	a.mover.Start(path, a.speed)
}

// Stop - cancel the running execution without arriving
func (a *GridAgent) Stop() bool {
	return a.mover.Cancel()
}

// Teleport - place the agent on a cell
func (a *GridAgent) Teleport(c algorithms.Cell) {
	a.path = nil
	a.mover.Teleport(c)
}

// Tick - advance movement by dt seconds
func (a *GridAgent) Tick(dt float64) {
	a.mover.Tick(dt)
}

// Status - snapshot, opponent may be nil
func (a *GridAgent) Status(opponent *GridAgent) models.AgentStatus {
	remaining := a.Remaining()
	status := models.AgentStatus{
		Kind:     a.kind,
		Cell:     a.Cell().Pair(),
		Position: a.Position(),
		State:    a.MotionState(),
		Speed:    a.speed,
	}
	if len(remaining) > 0 {
		status.Path = algorithms.PathPairs(remaining)
	}
	if opponent != nil {
		status.BlocksOpponent = algorithms.PathContains(remaining, opponent.Cell())
	}
	return status
}

func (a *GridAgent) arrive() {
	if a.hooks.OnArrive != nil {
		a.hooks.OnArrive(a)
	}
}

// dropLastCell - enemy trim, stops one cell short of its goal
func dropLastCell(path []algorithms.Cell) []algorithms.Cell {
	if len(path) == 0 {
		return path
	}
	return path[:len(path)-1]
}
