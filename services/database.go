package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gridduel-backend/models"
)

// InitDatabase - open the movement log database and migrate it
//
// DB_DRIVER=mysql needs MYSQL_HOST, MYSQL_USER, MYSQL_PASSWORD and
// MYSQL_DATABASE; anything else opens the SQLite file at SQLITE_PATH.
func InitDatabase(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DBDriver {
	case "mysql":
		if cfg.MySQLHost == "" || cfg.MySQLUser == "" || cfg.MySQLPassword == "" || cfg.MySQLDatabase == "" {
			return nil, fmt.Errorf("MySQL env vars not set: MYSQL_HOST, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DATABASE")
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.MySQLUser, cfg.MySQLPassword, cfg.MySQLHost, cfg.MySQLPort, cfg.MySQLDatabase)
		dialector = mysql.Open(dsn)
	default:
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("DB connection failed: %w", err)
	}

	if err := db.AutoMigrate(&models.MoveLog{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	log.Printf("✅ %s connected and migrated", dialector.Name())
	return db, nil
}

// LogStore - movement log persistence and queries
type LogStore struct {
	db *gorm.DB
}

// NewLogStore - store over an open database
func NewLogStore(db *gorm.DB) *LogStore {
	return &LogStore{db: db}
}

// SaveLogs - batch insert, satisfies LogSink
func (s *LogStore) SaveLogs(logs []models.MoveLog) error {
	if len(logs) == 0 {
		return nil
	}
	return s.db.CreateInBatches(logs, 100).Error
}

// GetRecentLogs - newest logs of a session
func (s *LogStore) GetRecentLogs(sessionID string, limit int) ([]models.MoveLog, error) {
	var logs []models.MoveLog
	err := s.db.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// GetLogsByEventType - newest logs of one event type
func (s *LogStore) GetLogsByEventType(sessionID, eventType string, limit int) ([]models.MoveLog, error) {
	var logs []models.MoveLog
	err := s.db.Where("session_id = ? AND event_type = ?", sessionID, eventType).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// GetLogsByTimeRange - logs between start and end, newest first
func (s *LogStore) GetLogsByTimeRange(sessionID string, start, end time.Time, limit int) ([]models.MoveLog, error) {
	var logs []models.MoveLog
	query := s.db.Where("session_id = ? AND created_at BETWEEN ? AND ?", sessionID, start, end)
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Order("created_at DESC").Find(&logs).Error
	return logs, err
}

// GetLogStats - event counts for the last hours
func (s *LogStore) GetLogStats(sessionID string, hours int) (*models.LogStats, error) {
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	var total int64
	err := s.db.Model(&models.MoveLog{}).
		Where("session_id = ? AND created_at >= ?", sessionID, since).
		Count(&total).Error
	if err != nil {
		return nil, err
	}

	var eventCounts []struct {
		EventType string
		Count     int64
	}
	err = s.db.Model(&models.MoveLog{}).
		Select("event_type, COUNT(*) as count").
		Where("session_id = ? AND created_at >= ?", sessionID, since).
		Group("event_type").
		Scan(&eventCounts).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(eventCounts))
	for _, ec := range eventCounts {
		counts[ec.EventType] = ec.Count
	}

	return &models.LogStats{
		TotalLogs:   total,
		EventCounts: counts,
		TimeRange:   fmt.Sprintf("Last %d hours", hours),
	}, nil
}
