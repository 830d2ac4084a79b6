package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoApp() *fiber.App {
	app := fiber.New()
	app.Get("/echo", EnsureClientID(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(ClientIDKey).(string))
	})
	live := func(gameID string) bool { return gameID == "live" }
	app.Get("/ws/game/:gameId", EnsureClientID(), WebSocketUpgrade(live), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(GameIDKey).(string))
	})
	return app
}

func TestEnsureClientID(t *testing.T) {
	app := newEchoApp()

	tests := []struct {
		name   string
		target string
		header string
		status int
		body   string
	}{
		{"header", "/echo", "abc", fiber.StatusOK, "abc"},
		{"query", "/echo?clientId=xyz", "", fiber.StatusOK, "xyz"},
		{"header wins", "/echo?clientId=xyz", "abc", fiber.StatusOK, "abc"},
		{"missing", "/echo", "", fiber.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("X-Client-ID", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.body != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.body, string(body))
			}
		})
	}
}

func TestWebSocketUpgrade(t *testing.T) {
	app := newEchoApp()

	tests := []struct {
		name    string
		target  string
		upgrade bool
		status  int
	}{
		{"upgrade to live game", "/ws/game/live?clientId=abc", true, fiber.StatusOK},
		{"plain request", "/ws/game/live?clientId=abc", false, fiber.StatusUpgradeRequired},
		{"unknown game", "/ws/game/gone?clientId=abc", true, fiber.StatusNotFound},
		{"missing client id", "/ws/game/live", true, fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.upgrade {
				req.Header.Set("Connection", "Upgrade")
				req.Header.Set("Upgrade", "websocket")
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
