package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"gridduel-backend/algorithms"
)

// Config - runtime settings read from the environment (.env via godotenv)
type Config struct {
	Port          string
	GridSize      int
	LayoutPath    string
	LayoutDir     string // reset requests may only name files in here
	PlayerSpeed   float64
	EnemySpeed    float64
	TickRate      int     // ticks per second
	SurfaceHeight float64 // y of every agent position
	CORSOrigins   string

	// logging buffer
	LogFlushSize     int
	LogFlushInterval time.Duration

	// database
	DBDriver      string // "sqlite" | "mysql"
	SQLitePath    string
	MySQLHost     string
	MySQLPort     int
	MySQLUser     string
	MySQLPassword string
	MySQLDatabase string
}

// DefaultConfig - defaults used when a variable is unset or invalid
func DefaultConfig() Config {
	return Config{
		Port:             "3000",
		GridSize:         10,
		LayoutDir:        "layouts",
		PlayerSpeed:      1.0,
		EnemySpeed:       1.0,
		TickRate:         30,
		SurfaceHeight:    1.0,
		CORSOrigins:      "http://localhost:5173, http://localhost:3000",
		LogFlushSize:     50,
		LogFlushInterval: 10 * time.Second,
		DBDriver:         "sqlite",
		SQLitePath:       "gridduel.db",
		MySQLPort:        3306,
	}
}

// LoadConfig - DefaultConfig overlaid with environment variables
func LoadConfig() Config {
	cfg := DefaultConfig()

	cfg.Port = envString("PORT", cfg.Port)
	cfg.GridSize = envInt("GRID_SIZE", cfg.GridSize)
	cfg.LayoutPath = envString("GRID_LAYOUT_PATH", cfg.LayoutPath)
	cfg.LayoutDir = envString("GRID_LAYOUT_DIR", cfg.LayoutDir)
	cfg.PlayerSpeed = envFloat("PLAYER_SPEED", cfg.PlayerSpeed)
	cfg.EnemySpeed = envFloat("ENEMY_SPEED", cfg.EnemySpeed)
	cfg.TickRate = envInt("TICK_RATE_HZ", cfg.TickRate)
	cfg.SurfaceHeight = envFloat("SURFACE_HEIGHT", cfg.SurfaceHeight)
	cfg.CORSOrigins = envString("CORS_ORIGINS", cfg.CORSOrigins)

	cfg.LogFlushSize = envInt("LOG_FLUSH_SIZE", cfg.LogFlushSize)
	cfg.LogFlushInterval = envDuration("LOG_FLUSH_INTERVAL", cfg.LogFlushInterval)

	cfg.DBDriver = envString("DB_DRIVER", cfg.DBDriver)
	cfg.SQLitePath = envString("SQLITE_PATH", cfg.SQLitePath)
	cfg.MySQLHost = os.Getenv("MYSQL_HOST")
	cfg.MySQLPort = envInt("MYSQL_PORT", cfg.MySQLPort)
	cfg.MySQLUser = os.Getenv("MYSQL_USER")
	cfg.MySQLPassword = os.Getenv("MYSQL_PASSWORD")
	cfg.MySQLDatabase = os.Getenv("MYSQL_DATABASE")

	// speeds and rates must stay positive
	if !algorithms.ValidSize(cfg.GridSize) {
		log.Printf("⚠️  GRID_SIZE=%d is invalid, using %d", cfg.GridSize, algorithms.DefaultGridSize)
		cfg.GridSize = algorithms.DefaultGridSize
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 30
	}
	if cfg.PlayerSpeed <= 0 {
		cfg.PlayerSpeed = 1.0
	}
	if cfg.EnemySpeed <= 0 {
		cfg.EnemySpeed = 1.0
	}
	if cfg.LogFlushSize <= 0 {
		cfg.LogFlushSize = 50
	}

	return cfg
}

// TickInterval - wall-clock time between ticks
func (c Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️  %s=%q is not an integer, using %d", key, v, def)
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("⚠️  %s=%q is not a number, using %g", key, v, def)
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️  %s=%q is not a duration, using %v", key, v, def)
		return def
	}
	return d
}
