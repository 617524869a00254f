package models

import "time"

// ========================================
// Message type constants
// ========================================
const (
	// Server → Web
	MessageTypePosition   = "position"    // agent position update
	MessageTypeStatus     = "status"      // full session snapshot
	MessageTypePathUpdate = "path_update" // new path accepted for an agent
	MessageTypeTurn       = "turn"        // player stationary, enemy's turn
	MessageTypeMapUpdate  = "map_update"  // layout reset
	MessageTypeSystemInfo = "system_info" // connection info
	MessageTypeMoveResult = "move_result" // answer to a move request

	// Web → Server
	MessageTypeMove  = "move"  // player movement request
	MessageTypeReset = "reset" // session reset
)

// ========================================
// Common WebSocket message envelope
// ========================================
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"` // Unix timestamp (ms)
}

// NewMessage - envelope stamped with the current time
func NewMessage(msgType string, data interface{}) WebSocketMessage {
	return WebSocketMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// PositionData - agent position broadcast
type PositionData struct {
	Agent    AgentKind   `json:"agent"`
	Position Position    `json:"position"`
	State    MotionState `json:"state"`
}

// MoveCommand - target world position for the player (y is ignored)
type MoveCommand struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PathData - path accepted for an agent
type PathData struct {
	Agent     AgentKind `json:"agent"`
	Cells     [][2]int  `json:"cells"`
	Length    int       `json:"length"`    // steps, not cells
	Algorithm string    `json:"algorithm"` // "a_star"
	CreatedAt time.Time `json:"created_at"`
}

// TurnData - turn signal broadcast
type TurnData struct {
	Turn       int    `json:"turn"`
	PlayerCell [2]int `json:"player_cell"`
	EnemyCell  [2]int `json:"enemy_cell"`
}

// ResetCommand - session reset request
type ResetCommand struct {
	Random    bool   `json:"random"`
	Obstacles int    `json:"obstacles"`
	Seed      int64  `json:"seed"`
	Layout    string `json:"layout_path"` // file name inside the layouts directory
}

// MoveResultData - outcome of a move request sent over the websocket
type MoveResultData struct {
	Target MoveCommand `json:"target"`
	Result string      `json:"result"`
}
