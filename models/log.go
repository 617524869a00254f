package models

import (
	"time"
)

// Movement event types
const (
	EventPathFound      = "path_found"
	EventPathNotFound   = "path_not_found"
	EventMoveStart      = "move_start"
	EventMoveComplete   = "move_complete"
	EventMoveCancelled  = "move_cancelled"
	EventRequestDropped = "request_dropped" // player asked while the enemy moved
	EventTurnSignal     = "turn_signal"
	EventLayoutLoaded   = "layout_loaded"
)

// MoveLog - movement event log
type MoveLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	SessionID string    `gorm:"index;size:36" json:"session_id"`
	EventType string    `gorm:"index;size:32" json:"event_type"`
	Agent     string    `gorm:"size:16" json:"agent"`

	// cells
	FromX   int `json:"from_x"`
	FromZ   int `json:"from_z"`
	TargetX int `json:"target_x"`
	TargetZ int `json:"target_z"`

	// path
	PathLength int     `json:"path_length"`
	Speed      float64 `json:"speed"`
	Turn       int     `json:"turn"`

	// path cells as JSON, when there is one
	DataJSON string `json:"data_json"`
}

// LogStats - event counts over a window
type LogStats struct {
	TotalLogs   int64            `json:"total_logs"`
	EventCounts map[string]int64 `json:"event_counts"`
	TimeRange   string           `json:"time_range"`
}
