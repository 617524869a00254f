package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"gridduel-backend/services"
)

var logStore *services.LogStore

// InitLogStore - nil leaves the log routes answering 503
func InitLogStore(store *services.LogStore) {
	logStore = store
}

// logQuery - store check, session id and limit shared by the log routes
func logQuery(c *fiber.Ctx) (sessionID string, limit int, ok bool) {
	if logStore == nil {
		_ = c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "log database unavailable",
		})
		return "", 0, false
	}

	sessionID = c.Query("session_id")
	if sessionID == "" && gameSession != nil {
		sessionID = gameSession.ID
	}

	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}
	return sessionID, limit, true
}

// HandleGetRecentLogs - newest movement logs
func HandleGetRecentLogs(c *fiber.Ctx) error {
	sessionID, limit, ok := logQuery(c)
	if !ok {
		return nil
	}

	logs, err := logStore.GetRecentLogs(sessionID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(logs),
		"logs":    logs,
	})
}

// HandleGetLogsByTimeRange - logs between start and end (RFC3339)
func HandleGetLogsByTimeRange(c *fiber.Ctx) error {
	sessionID, limit, ok := logQuery(c)
	if !ok {
		return nil
	}

	start := time.Now().Add(-24 * time.Hour)
	if s := c.Query("start"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid start time format (use RFC3339)",
			})
		}
		start = parsed
	}

	end := time.Now()
	if s := c.Query("end"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid end time format (use RFC3339)",
			})
		}
		end = parsed
	}

	logs, err := logStore.GetLogsByTimeRange(sessionID, start, end, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(logs),
		"time_range": fiber.Map{
			"start": start.Format(time.RFC3339),
			"end":   end.Format(time.RFC3339),
		},
		"logs": logs,
	})
}

// HandleGetLogsByEventType - logs of one event type
func HandleGetLogsByEventType(c *fiber.Ctx) error {
	eventType := c.Query("event_type")
	if eventType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "event_type parameter is required",
		})
	}

	sessionID, limit, ok := logQuery(c)
	if !ok {
		return nil
	}

	logs, err := logStore.GetLogsByEventType(sessionID, eventType, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"count":      len(logs),
		"event_type": eventType,
		"logs":       logs,
	})
}

// HandleGetLogStats - event counts for the last hours
func HandleGetLogStats(c *fiber.Ctx) error {
	sessionID, _, ok := logQuery(c)
	if !ok {
		return nil
	}

	hours, err := strconv.Atoi(c.Query("hours", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}

	stats, err := logStore.GetLogStats(sessionID, hours)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to fetch stats",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}
