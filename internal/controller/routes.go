package controller

import (
	"github.com/benbeisheim/checkmate-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the REST API under /api.
func RegisterRoutes(app *fiber.App, gameController *GameController) {
	api := app.Group("/api", middleware.EnsureClientID())

	gameRoutes := api.Group("/games")
	gameRoutes.Post("/", gameController.CreateGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Delete("/:gameId", gameController.DeleteGame)
	gameRoutes.Get("/:gameId/moves", gameController.LegalMoves)
	gameRoutes.Post("/:gameId/moves", gameController.MakeMove)
	gameRoutes.Post("/:gameId/undo", gameController.Undo)
	gameRoutes.Post("/:gameId/engine", gameController.EngineMove)

	api.Get("/engine/evaluate", gameController.Evaluate)
}
