package services

import (
	"sync"

	"gridduel-backend/algorithms"
	"gridduel-backend/models"
)

// TurnSignal - zero-payload fan-out pulse, "player is stationary"
//
// Subscribers run synchronously on the publisher's goroutine, in
// registration order. Subscribing or publishing from inside a subscriber is
// allowed; it takes effect from the next Publish.
type TurnSignal struct {
	mu     sync.Mutex
	subs   []*turnSubscription
	count  int
	nextID int
}

type turnSubscription struct {
	id int
	fn func()
}

// NewTurnSignal - signal with no subscribers
func NewTurnSignal() *TurnSignal {
	return &TurnSignal{}
}

// Subscribe - register fn, returns a func removing it
func (s *TurnSignal) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, &turnSubscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish - invoke every subscriber once
func (s *TurnSignal) Publish() {
	s.mu.Lock()
	s.count++
	subs := make([]*turnSubscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn()
	}
}

// Count - number of publishes so far
func (s *TurnSignal) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Subscribers - current subscriber count
func (s *TurnSignal) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// MoveResult - outcome of a player movement request
type MoveResult string

const (
	MoveAccepted MoveResult = "accepted" // path found, player moving (or already there)
	MoveDropped  MoveResult = "dropped"  // enemy is moving, request ignored
	MoveNoPath   MoveResult = "no_path"  // target unreachable, player stays put
)

// TurnEvent - something the coordinator did, for logging and broadcast
type TurnEvent struct {
	Type   string // models.Event*
	Agent  models.AgentKind
	From   algorithms.Cell
	Target algorithms.Cell
	Path   []algorithms.Cell
	Turn   int
}

// TurnCoordinator - alternates player and enemy movement on one grid
//
// The enemy moves only when the turn signal fires (and once at Start). The
// player's requests are dropped while the enemy is moving, and the enemy's
// cell is blocked for the duration of the player's search.
type TurnCoordinator struct {
	grid   *algorithms.Grid
	signal *TurnSignal
	player *GridAgent
	enemy  *GridAgent

	unsubscribe func()
	onEvent     func(TurnEvent)
}

// CoordinatorConfig - starting cells and speeds for both agents
type CoordinatorConfig struct {
	PlayerStart   algorithms.Cell
	EnemyStart    algorithms.Cell
	PlayerSpeed   float64
	EnemySpeed    float64
	SurfaceHeight float64
}

// NewTurnCoordinator - player and enemy wired to grid and signal
func NewTurnCoordinator(grid *algorithms.Grid, signal *TurnSignal, cfg CoordinatorConfig) *TurnCoordinator {
	tc := &TurnCoordinator{
		grid:   grid,
		signal: signal,
	}

	tc.player = NewGridAgent(models.AgentPlayer, grid, cfg.PlayerStart, cfg.PlayerSpeed, cfg.SurfaceHeight, AgentHooks{
		OnArrive: func(a *GridAgent) {
			tc.emit(TurnEvent{Type: models.EventMoveComplete, Agent: a.Kind(), From: a.Cell(), Target: a.Cell()})
			signal.Publish()
		},
	})
	tc.enemy = NewGridAgent(models.AgentEnemy, grid, cfg.EnemyStart, cfg.EnemySpeed, cfg.SurfaceHeight, AgentHooks{
		TrimPath: dropLastCell,
		OnArrive: func(a *GridAgent) {
			tc.emit(TurnEvent{Type: models.EventMoveComplete, Agent: a.Kind(), From: a.Cell(), Target: a.Cell()})
		},
	})

	return tc
}

// OnEvent - register the event callback (one at a time)
func (tc *TurnCoordinator) OnEvent(fn func(TurnEvent)) {
	tc.onEvent = fn
}

// Player - the player agent
func (tc *TurnCoordinator) Player() *GridAgent {
	return tc.player
}

// Enemy - the enemy agent
func (tc *TurnCoordinator) Enemy() *GridAgent {
	return tc.enemy
}

// Grid - the shared grid
func (tc *TurnCoordinator) Grid() *algorithms.Grid {
	return tc.grid
}

// Start - subscribe the enemy to the turn signal and give it its first move
func (tc *TurnCoordinator) Start() {
	if tc.unsubscribe == nil {
		tc.unsubscribe = tc.signal.Subscribe(tc.TriggerEnemy)
	}
	tc.TriggerEnemy()
}

// Stop - unsubscribe the enemy and halt both agents
func (tc *TurnCoordinator) Stop() {
	if tc.unsubscribe != nil {
		tc.unsubscribe()
		tc.unsubscribe = nil
	}
	tc.player.Stop()
	tc.enemy.Stop()
}

// RequestPlayerMove - player movement request towards a world position
func (tc *TurnCoordinator) RequestPlayerMove(target models.Position) MoveResult {
	goal := algorithms.CellFromPosition(target)
	from := tc.player.Cell()

	if tc.enemy.MotionState() == models.MotionMoving {
		tc.emit(TurnEvent{Type: models.EventRequestDropped, Agent: models.AgentPlayer, From: from, Target: goal})
		return MoveDropped
	}

	var path []algorithms.Cell
	tc.grid.WithBlocked(tc.enemy.Cell(), func() {
		path = tc.player.PlanPath(goal)
	})

	if path == nil {
		tc.emit(TurnEvent{Type: models.EventPathNotFound, Agent: models.AgentPlayer, From: from, Target: goal})
		return MoveNoPath
	}

	tc.emit(TurnEvent{Type: models.EventPathFound, Agent: models.AgentPlayer, From: from, Target: goal, Path: path})
	tc.follow(tc.player, path, goal)
	return MoveAccepted
}

// TriggerEnemy - enemy paths towards the player's cell and starts walking
func (tc *TurnCoordinator) TriggerEnemy() {
	goal := tc.player.Cell()
	from := tc.enemy.Cell()

	path := tc.enemy.PlanPath(goal)
	if path == nil {
		tc.emit(TurnEvent{Type: models.EventPathNotFound, Agent: models.AgentEnemy, From: from, Target: goal})
		return
	}

	tc.emit(TurnEvent{Type: models.EventPathFound, Agent: models.AgentEnemy, From: from, Target: goal, Path: path})
	tc.follow(tc.enemy, path, goal)
}

// follow - hand path to agent, reporting a superseded execution
func (tc *TurnCoordinator) follow(a *GridAgent, path []algorithms.Cell, goal algorithms.Cell) {
	from := a.Cell()
	if a.MotionState() == models.MotionMoving {
		tc.emit(TurnEvent{Type: models.EventMoveCancelled, Agent: a.Kind(), From: from, Target: goal})
	}
	a.Follow(path)
	if a.MotionState() == models.MotionMoving {
		tc.emit(TurnEvent{Type: models.EventMoveStart, Agent: a.Kind(), From: from, Target: goal, Path: a.Path()})
	}
}

// Tick - advance both agents by dt seconds
func (tc *TurnCoordinator) Tick(dt float64) {
	tc.player.Tick(dt)
	tc.enemy.Tick(dt)
}

// Status - snapshot of both agents
func (tc *TurnCoordinator) Status() (player, enemy models.AgentStatus) {
	return tc.player.Status(tc.enemy), tc.enemy.Status(tc.player)
}

func (tc *TurnCoordinator) emit(ev TurnEvent) {
	if ev.Turn == 0 {
		ev.Turn = tc.signal.Count()
	}
	if tc.onEvent != nil {
		tc.onEvent(ev)
	}
}
