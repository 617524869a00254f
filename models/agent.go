package models

// ========================================
// Agent motion state
// ========================================
type MotionState string

const (
	MotionIdle   MotionState = "idle"   // stationary, may accept a move
	MotionMoving MotionState = "moving" // executing a path
)

// AgentKind - which side of the duel an agent plays
type AgentKind string

const (
	AgentPlayer AgentKind = "player"
	AgentEnemy  AgentKind = "enemy"
)

// AgentStatus - snapshot of one agent
type AgentStatus struct {
	Kind           AgentKind   `json:"kind"`
	Cell           [2]int      `json:"cell"`     // floor(x), floor(z)
	Position       Position    `json:"position"` // continuous position
	State          MotionState `json:"state"`
	Speed          float64     `json:"speed"`
	Path           [][2]int    `json:"path,omitempty"`
	BlocksOpponent bool        `json:"blocks_opponent"` // opponent's cell lies on Path
}

// SessionStatus - snapshot of the whole duel
type SessionStatus struct {
	SessionID string      `json:"session_id"`
	LayoutID  string      `json:"layout_id"`
	GridSize  int         `json:"grid_size"`
	Blocked   int         `json:"blocked"`
	Turns     int         `json:"turns"` // turn signals published so far
	Running   bool        `json:"running"`
	Player    AgentStatus `json:"player"`
	Enemy     AgentStatus `json:"enemy"`
}
