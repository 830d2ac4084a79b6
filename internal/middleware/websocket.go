package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// GameIDKey holds the validated game id for the websocket handler.
const GameIDKey = "gameID"

// WebSocketUpgrade admits an upgrade only for a client id set by
// EnsureClientID and a game that gameExists reports as live.
func WebSocketUpgrade(gameExists func(gameID string) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID, _ := c.Locals(ClientIDKey).(string)
		if clientID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "client ID is required",
			})
		}

		gameID := c.Params("gameId")
		if gameID == "" || !gameExists(gameID) {
			log.Debugf("client %s asked to watch unknown game %q", clientID, gameID)
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "game not found",
			})
		}

		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		c.Locals(GameIDKey, gameID)
		return c.Next()
	}
}
