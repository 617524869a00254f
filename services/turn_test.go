package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gridduel-backend/algorithms"
	"gridduel-backend/models"
)

type eventRecorder struct {
	events []TurnEvent
}

func (r *eventRecorder) record(ev TurnEvent) {
	r.events = append(r.events, ev)
}

func (r *eventRecorder) count(eventType string, agent models.AgentKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == eventType && ev.Agent == agent {
			n++
		}
	}
	return n
}

func newTestCoordinator(t *testing.T, grid *algorithms.Grid, player, enemy algorithms.Cell) (*TurnCoordinator, *TurnSignal, *eventRecorder) {
	t.Helper()
	signal := NewTurnSignal()
	tc := NewTurnCoordinator(grid, signal, CoordinatorConfig{
		PlayerStart:   player,
		EnemyStart:    enemy,
		PlayerSpeed:   1,
		EnemySpeed:    1,
		SurfaceHeight: 1,
	})
	rec := &eventRecorder{}
	tc.OnEvent(rec.record)
	return tc, signal, rec
}

func tickUntilIdle(t *testing.T, tc *TurnCoordinator, a *GridAgent) {
	t.Helper()
	for i := 0; i < 1000 && a.MotionState() == models.MotionMoving; i++ {
		tc.Tick(0.1)
	}
	require.Equal(t, models.MotionIdle, a.MotionState())
}

func worldPos(c algorithms.Cell) models.Position {
	return models.Position{X: float64(c.X) + 0.5, Y: 3, Z: float64(c.Z) + 0.5}
}

func TestTurnSignal_FanOutInOrder(t *testing.T) {
	t.Parallel()

	s := NewTurnSignal()
	var order []string
	s.Subscribe(func() { order = append(order, "a") })
	unsubB := s.Subscribe(func() { order = append(order, "b") })
	s.Subscribe(func() { order = append(order, "c") })

	s.Publish()
	require.Equal(t, []string{"a", "b", "c"}, order)

	unsubB()
	unsubB()
	order = nil
	s.Publish()
	require.Equal(t, []string{"a", "c"}, order)
	require.Equal(t, 2, s.Count())
	require.Equal(t, 2, s.Subscribers())
}

func TestTurnSignal_SubscribeDuringPublish(t *testing.T) {
	t.Parallel()

	s := NewTurnSignal()
	late := 0
	s.Subscribe(func() {
		s.Subscribe(func() { late++ })
	})

	s.Publish()
	require.Zero(t, late)
	s.Publish()
	require.Equal(t, 1, late)
}

func TestTurnCoordinator_EnemyStopsOneCellShort(t *testing.T) {
	t.Parallel()

	tc, _, _ := newTestCoordinator(t, algorithms.NewGrid(10), algorithms.Cell{X: 0, Z: 0}, algorithms.Cell{X: 3, Z: 0})
	tc.Start()

	enemy := tc.Enemy()
	require.Equal(t, models.MotionMoving, enemy.MotionState())
	require.Equal(t, []algorithms.Cell{{X: 3, Z: 0}, {X: 2, Z: 0}, {X: 1, Z: 0}}, enemy.Path())

	tickUntilIdle(t, tc, enemy)
	require.Equal(t, algorithms.Cell{X: 1, Z: 0}, enemy.Cell())
	require.Equal(t, algorithms.Cell{X: 0, Z: 0}, tc.Player().Cell())
}

func TestTurnCoordinator_AdjacentEnemyStaysPut(t *testing.T) {
	t.Parallel()

	tc, _, rec := newTestCoordinator(t, algorithms.NewGrid(10), algorithms.Cell{X: 4, Z: 4}, algorithms.Cell{X: 4, Z: 5})
	tc.Start()

	require.Equal(t, models.MotionIdle, tc.Enemy().MotionState())
	require.Equal(t, algorithms.Cell{X: 4, Z: 5}, tc.Enemy().Cell())
	require.Equal(t, 1, rec.count(models.EventMoveComplete, models.AgentEnemy))
}

func TestTurnCoordinator_PlayerDroppedWhileEnemyMoves(t *testing.T) {
	t.Parallel()

	grid := algorithms.NewGrid(10)
	tc, signal, rec := newTestCoordinator(t, grid, algorithms.Cell{X: 0, Z: 0}, algorithms.Cell{X: 9, Z: 9})
	tc.Start()
	require.Equal(t, models.MotionMoving, tc.Enemy().MotionState())

	result := tc.RequestPlayerMove(worldPos(algorithms.Cell{X: 5, Z: 0}))
	require.Equal(t, MoveDropped, result)
	require.Equal(t, models.MotionIdle, tc.Player().MotionState())
	require.Nil(t, tc.Player().Path())
	require.Zero(t, rec.count(models.EventPathFound, models.AgentPlayer))
	require.Equal(t, 1, rec.count(models.EventRequestDropped, models.AgentPlayer))
	require.Zero(t, signal.Count())
}

func TestTurnCoordinator_FullTurn(t *testing.T) {
	t.Parallel()

	grid := algorithms.NewGrid(10)
	tc, signal, _ := newTestCoordinator(t, grid, algorithms.Cell{X: 0, Z: 0}, algorithms.Cell{X: 9, Z: 9})
	tc.Start()

	tickUntilIdle(t, tc, tc.Enemy())
	require.Equal(t, 1, algorithms.ManhattanDistance(tc.Enemy().Cell(), tc.Player().Cell()))

	result := tc.RequestPlayerMove(worldPos(algorithms.Cell{X: 6, Z: 6}))
	require.Equal(t, MoveAccepted, result)
	require.Equal(t, models.MotionMoving, tc.Player().MotionState())
	require.Zero(t, grid.BlockedCount())

	tickUntilIdle(t, tc, tc.Player())
	require.Equal(t, algorithms.Cell{X: 6, Z: 6}, tc.Player().Cell())
	require.Equal(t, 1, signal.Count())

	// the turn signal started the enemy again
	require.Equal(t, models.MotionMoving, tc.Enemy().MotionState())
	tickUntilIdle(t, tc, tc.Enemy())
	require.Equal(t, 1, algorithms.ManhattanDistance(tc.Enemy().Cell(), algorithms.Cell{X: 6, Z: 6}))
}

func TestTurnCoordinator_PlayerPathsAroundEnemy(t *testing.T) {
	t.Parallel()

	grid := algorithms.NewGrid(10)
	tc, _, _ := newTestCoordinator(t, grid, algorithms.Cell{X: 0, Z: 0}, algorithms.Cell{X: 1, Z: 0})

	result := tc.RequestPlayerMove(worldPos(algorithms.Cell{X: 2, Z: 0}))
	require.Equal(t, MoveAccepted, result)

	path := tc.Player().Path()
	require.Len(t, path, 5)
	require.False(t, algorithms.PathContains(path, algorithms.Cell{X: 1, Z: 0}))
	require.False(t, grid.IsBlocked(algorithms.Cell{X: 1, Z: 0}))
}

func TestTurnCoordinator_NoPathRestoresGrid(t *testing.T) {
	t.Parallel()

	grid := algorithms.NewGrid(10)
	for _, c := range []algorithms.Cell{{X: 7, Z: 8}, {X: 8, Z: 7}} {
		grid.SetBlocked(c, true)
	}
	tc, signal, rec := newTestCoordinator(t, grid, algorithms.Cell{X: 0, Z: 0}, algorithms.Cell{X: 9, Z: 8})
	before := grid.BlockedCount()

	// the enemy's own cell is blocked for the player's search
	require.Equal(t, MoveNoPath, tc.RequestPlayerMove(worldPos(algorithms.Cell{X: 9, Z: 8})))
	require.Equal(t, before, grid.BlockedCount())
	require.False(t, grid.IsBlocked(algorithms.Cell{X: 9, Z: 8}))

	require.Equal(t, MoveNoPath, tc.RequestPlayerMove(worldPos(algorithms.Cell{X: 12, Z: 0})))
	require.Equal(t, models.MotionIdle, tc.Player().MotionState())
	require.Equal(t, 2, rec.count(models.EventPathNotFound, models.AgentPlayer))
	require.Zero(t, signal.Count())
}

func TestTurnCoordinator_RequestOwnCellPublishesTurn(t *testing.T) {
	t.Parallel()

	tc, signal, _ := newTestCoordinator(t, algorithms.NewGrid(10), algorithms.Cell{X: 2, Z: 2}, algorithms.Cell{X: 7, Z: 7})
	tc.Start()
	tickUntilIdle(t, tc, tc.Enemy())

	result := tc.RequestPlayerMove(worldPos(tc.Player().Cell()))
	require.Equal(t, MoveAccepted, result)
	require.Equal(t, models.Position{X: 2, Y: 1, Z: 2}, tc.Player().Position())
	require.Equal(t, 1, signal.Count())
}

func TestTurnCoordinator_PlayerRequestSupersedes(t *testing.T) {
	t.Parallel()

	tc, _, rec := newTestCoordinator(t, algorithms.NewGrid(10), algorithms.Cell{X: 0, Z: 0}, algorithms.Cell{X: 9, Z: 9})

	require.Equal(t, MoveAccepted, tc.RequestPlayerMove(worldPos(algorithms.Cell{X: 5, Z: 0})))
	tc.Tick(1.5)
	require.Equal(t, MoveAccepted, tc.RequestPlayerMove(worldPos(algorithms.Cell{X: 0, Z: 3})))
	require.Equal(t, 1, rec.count(models.EventMoveCancelled, models.AgentPlayer))

	tickUntilIdle(t, tc, tc.Player())
	require.Equal(t, algorithms.Cell{X: 0, Z: 3}, tc.Player().Cell())
	require.Equal(t, 1, rec.count(models.EventMoveComplete, models.AgentPlayer))
}

func TestTurnCoordinator_StopUnsubscribes(t *testing.T) {
	t.Parallel()

	tc, signal, _ := newTestCoordinator(t, algorithms.NewGrid(10), algorithms.Cell{X: 0, Z: 0}, algorithms.Cell{X: 5, Z: 5})
	tc.Start()
	require.Equal(t, 1, signal.Subscribers())

	tc.Stop()
	require.Zero(t, signal.Subscribers())
	require.Equal(t, models.MotionIdle, tc.Enemy().MotionState())
}

func TestGridAgent_StatusReportsOpponentOnPath(t *testing.T) {
	t.Parallel()

	tc, _, _ := newTestCoordinator(t, algorithms.NewGrid(10), algorithms.Cell{X: 0, Z: 0}, algorithms.Cell{X: 3, Z: 0})
	tc.Start()

	player, enemy := tc.Status()
	require.Equal(t, models.MotionIdle, player.State)
	require.Equal(t, models.MotionMoving, enemy.State)
	require.Equal(t, [2]int{3, 0}, enemy.Cell)
	require.False(t, enemy.BlocksOpponent)
	require.Equal(t, [][2]int{{2, 0}, {1, 0}}, enemy.Path)
}
