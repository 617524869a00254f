package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"gridduel-backend/handlers"
	"gridduel-backend/models"
	"gridduel-backend/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment only")
	}
	cfg := services.LoadConfig()

	// movement logs are optional, the duel runs without a database
	var sink services.LogSink
	db, err := services.InitDatabase(cfg)
	if err != nil {
		log.Printf("❌ DB init failed, movement logs will not be saved: %v", err)
		handlers.InitLogStore(nil)
	} else {
		store := services.NewLogStore(db)
		sink = store
		handlers.InitLogStore(store)
	}

	logs := services.NewLogBuffer(sink, cfg.LogFlushSize, cfg.LogFlushInterval)
	logs.Start()
	defer logs.Stop()

	var layout *models.GridLayout
	if cfg.LayoutPath != "" {
		layout, err = services.LoadLayoutFile(cfg.LayoutPath, cfg.GridSize)
		if err != nil {
			log.Printf("⚠️  %v", err)
			layout = nil
		}
	}

	go handlers.Manager.Start()

	session := services.NewGameSession(cfg, layout, handlers.Manager.BroadcastMessage, logs)
	handlers.InitGame(session, cfg)
	session.Start()
	defer session.Stop()

	app := fiber.New()

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	handlers.SetupRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down")
		_ = app.Shutdown()
	}()

	log.Printf("🚀 Server: http://localhost:%s", cfg.Port)
	log.Printf("📡 WebSocket: ws://localhost:%s/websocket/web", cfg.Port)
	log.Printf("🎯 Move API: POST http://localhost:%s/api/move", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("❌ Server stopped: %v", err)
	}
}
