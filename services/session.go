package services

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"gridduel-backend/algorithms"
	"gridduel-backend/models"
)

// GameSession - one duel: grid, turn signal, both agents and the tick loop
//
// Every tick and every request runs under mu, so the core sees a single
// logical thread.
type GameSession struct {
	ID            string
	IsRunning     bool
	cfg           Config
	broadcastFunc func(models.WebSocketMessage)
	logs          *LogBuffer

	layout      *models.GridLayout
	grid        *algorithms.Grid
	signal      *TurnSignal
	coordinator *TurnCoordinator
	unsubTurn   func()
	activated   bool
	lastStates  map[models.AgentKind]models.MotionState

	stopChan chan bool
	mu       sync.Mutex
}

// NewGameSession - session over layout (nil means an all-walkable grid)
func NewGameSession(cfg Config, layout *models.GridLayout, broadcastFunc func(models.WebSocketMessage), logs *LogBuffer) *GameSession {
	s := &GameSession{
		ID:            uuid.New().String(),
		cfg:           cfg,
		broadcastFunc: broadcastFunc,
		logs:          logs,
		stopChan:      make(chan bool),
	}
	s.build(layout)
	return s
}

// build - grid, signal and coordinator from a layout; caller holds mu or owns s
func (s *GameSession) build(layout *models.GridLayout) {
	size := s.cfg.GridSize
	if layout != nil && layout.Size > 0 {
		size = layout.Size
	}

	var cells []models.CellType
	if layout != nil {
		cells = layout.Cells
	}
	grid, err := algorithms.NewGridFromLayout(cells, size)
	var cfgErr *algorithms.ConfigurationError
	switch {
	case errors.Is(err, algorithms.ErrLayoutMissing):
		log.Printf("⚠️  %v", err)
	case errors.As(err, &cfgErr), errors.Is(err, algorithms.ErrGridSize):
		log.Printf("❌ %v, falling back to an all-walkable grid", err)
	}
	size = grid.Size()

	playerStart, enemyStart := SpawnCells(layout, size)

	s.layout = layout
	s.grid = grid
	s.signal = NewTurnSignal()
	s.coordinator = NewTurnCoordinator(grid, s.signal, CoordinatorConfig{
		PlayerStart:   playerStart,
		EnemyStart:    enemyStart,
		PlayerSpeed:   s.cfg.PlayerSpeed,
		EnemySpeed:    s.cfg.EnemySpeed,
		SurfaceHeight: s.cfg.SurfaceHeight,
	})
	s.coordinator.OnEvent(s.handleEvent)
	s.lastStates = map[models.AgentKind]models.MotionState{
		models.AgentPlayer: models.MotionIdle,
		models.AgentEnemy:  models.MotionIdle,
	}
	s.activated = false

	layoutID := ""
	if layout != nil {
		layoutID = layout.ID
	}
	s.logs.Add(models.MoveLog{
		SessionID: s.ID,
		EventType: models.EventLayoutLoaded,
		FromX:     playerStart.X,
		FromZ:     playerStart.Z,
		TargetX:   enemyStart.X,
		TargetZ:   enemyStart.Z,
		DataJSON:  layoutID,
	})
	log.Printf("🗺️  Grid %dx%d ready (%d blocked), player %v, enemy %v", size, size, grid.BlockedCount(), playerStart, enemyStart)
}

// Activate - subscribe the turn broadcast and give the enemy its first move
func (s *GameSession) Activate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activate()
}

func (s *GameSession) activate() {
	if s.activated {
		return
	}
	s.activated = true
	s.coordinator.Start()
	s.unsubTurn = s.signal.Subscribe(s.broadcastTurn)
	s.broadcastPositions(true)
}

// Start - activate and run the tick loop
func (s *GameSession) Start() {
	s.mu.Lock()
	if s.IsRunning {
		s.mu.Unlock()
		return
	}
	s.IsRunning = true
	s.activate()
	s.mu.Unlock()

	log.Printf("🚀 Session %s started (%d Hz)", s.ID, s.cfg.TickRate)
	go s.runLoop()
}

// Stop - stop the tick loop, agents stay where they are
func (s *GameSession) Stop() {
	s.mu.Lock()
	if !s.IsRunning {
		s.mu.Unlock()
		return
	}
	s.IsRunning = false
	s.mu.Unlock()

	s.stopChan <- true
	log.Printf("🛑 Session %s stopped", s.ID)
}

// runLoop - tick at the configured rate with wall-clock dt
func (s *GameSession) runLoop() {
	ticker := time.NewTicker(s.cfg.TickInterval())
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-s.stopChan:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.Tick(dt)
		}
	}
}

// Tick - advance both agents by dt seconds
func (s *GameSession) Tick(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.coordinator.Tick(dt)
	s.broadcastPositions(false)
}

// RequestMove - player movement request towards a world position
func (s *GameSession) RequestMove(target models.Position) MoveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.coordinator.RequestPlayerMove(target)
	log.Printf("🎯 Move to (%.1f, %.1f): %s", target.X, target.Z, result)
	return result
}

// Reset - rebuild the duel on a new layout
func (s *GameSession) Reset(layout *models.GridLayout) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasActive := s.activated
	s.coordinator.Stop()
	if s.unsubTurn != nil {
		s.unsubTurn()
		s.unsubTurn = nil
	}
	s.build(layout)

	s.broadcast(models.MessageTypeMapUpdate, s.layoutMessage())
	if wasActive || s.IsRunning {
		s.activate()
	}
}

// Status - snapshot of the session
func (s *GameSession) Status() models.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, enemy := s.coordinator.Status()
	layoutID := ""
	if s.layout != nil {
		layoutID = s.layout.ID
	}
	return models.SessionStatus{
		SessionID: s.ID,
		LayoutID:  layoutID,
		GridSize:  s.grid.Size(),
		Blocked:   s.grid.BlockedCount(),
		Turns:     s.signal.Count(),
		Running:   s.IsRunning,
		Player:    player,
		Enemy:     enemy,
	}
}

// CellInfo - cell under a world position and whether it can be walked on
func (s *GameSession) CellInfo(pos models.Position) (cell algorithms.Cell, inBounds, walkable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cell = algorithms.CellFromPosition(pos)
	return cell, s.grid.IsInBounds(cell), s.grid.IsWalkable(cell)
}

// LayoutMessage - blocked cells of the current grid
func (s *GameSession) LayoutMessage() models.LayoutMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layoutMessage()
}

func (s *GameSession) layoutMessage() models.LayoutMessage {
	msg := models.LayoutMessage{
		SessionID: s.ID,
		Size:      s.grid.Size(),
		Blocked:   algorithms.PathPairs(s.grid.BlockedCells()),
	}
	if s.layout != nil {
		msg.LayoutID = s.layout.ID
	}
	return msg
}

// handleEvent - coordinator events to the log buffer and viewers
func (s *GameSession) handleEvent(ev TurnEvent) {
	speed := s.cfg.PlayerSpeed
	if ev.Agent == models.AgentEnemy {
		speed = s.cfg.EnemySpeed
	}
	s.logs.Add(MoveLogFromEvent(s.ID, ev, speed))

	if ev.Type == models.EventMoveStart {
		s.broadcast(models.MessageTypePathUpdate, models.PathData{
			Agent:     ev.Agent,
			Cells:     algorithms.PathPairs(ev.Path),
			Length:    len(ev.Path) - 1,
			Algorithm: "a_star",
			CreatedAt: time.Now(),
		})
	}
}

// broadcastTurn - turn signal subscriber
func (s *GameSession) broadcastTurn() {
	s.broadcast(models.MessageTypeTurn, models.TurnData{
		Turn:       s.signal.Count(),
		PlayerCell: s.coordinator.Player().Cell().Pair(),
		EnemyCell:  s.coordinator.Enemy().Cell().Pair(),
	})
}

// broadcastPositions - moving agents, plus agents that just stopped
func (s *GameSession) broadcastPositions(force bool) {
	for _, a := range []*GridAgent{s.coordinator.Player(), s.coordinator.Enemy()} {
		state := a.MotionState()
		prev := s.lastStates[a.Kind()]
		s.lastStates[a.Kind()] = state
		if !force && state == models.MotionIdle && prev == models.MotionIdle {
			continue
		}
		s.broadcast(models.MessageTypePosition, models.PositionData{
			Agent:    a.Kind(),
			Position: a.Position(),
			State:    state,
		})
	}
}

func (s *GameSession) broadcast(msgType string, data interface{}) {
	if s.broadcastFunc == nil {
		return
	}
	s.broadcastFunc(models.NewMessage(msgType, data))
}
