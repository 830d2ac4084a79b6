package main

import (
	"strings"

	"github.com/benbeisheim/checkmate-backend/internal/config"
	"github.com/benbeisheim/checkmate-backend/internal/controller"
	"github.com/benbeisheim/checkmate-backend/internal/middleware"
	"github.com/benbeisheim/checkmate-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

var logLevels = map[string]log.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.SetLevel(logLevels[cfg.LogLevel])

	app := fiber.New()

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ", "),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Client-ID",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize services
	gameManager := service.NewGameManager()
	gameService := service.NewGameService(gameManager, service.EngineOptions{
		Timeout:      cfg.EngineTimeout,
		DefaultSkill: cfg.DefaultSkill,
		MaxDepth:     cfg.MaxDepth,
	})

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	// Set up WebSocket routes
	app.Use("/ws/*", middleware.EnsureClientID())
	gameExists := func(gameID string) bool {
		_, err := gameService.Session(gameID)
		return err == nil
	}
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(gameExists), websocket.New(func(c *websocket.Conn) {
		wsController.HandleConnection(c)
	}, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         cfg.AllowedOrigins,
	}))

	// Set up REST routes
	controller.RegisterRoutes(app, gameController)

	log.Infof("listening on %s (engine timeout %s, max depth %d)", cfg.Addr, cfg.EngineTimeout, cfg.MaxDepth)
	log.Fatal(app.Listen(cfg.Addr))
}
