package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/checkmate-backend/internal/middleware"
	"github.com/benbeisheim/checkmate-backend/internal/model"
	"github.com/benbeisheim/checkmate-backend/internal/service"
	"github.com/benbeisheim/checkmate-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// lockedConn serializes writes; state pushes arrive from other goroutines.
type lockedConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (l *lockedConn) WriteJSON(v interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.WriteJSON(v)
}

// HandleConnection subscribes the connection to its game and serves inbound
// messages until the client goes away.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID, _ := c.Locals(middleware.GameIDKey).(string)
	clientID, _ := c.Locals(middleware.ClientIDKey).(string)
	conn := &lockedConn{conn: c}

	session, err := wsc.gameService.Session(gameID)
	if err != nil {
		log.Warnf("websocket for client %s: %v", clientID, err)
		wsc.sendError(conn, err)
		c.Close()
		return
	}
	session.Subscribe(clientID, conn)
	defer session.Unsubscribe(clientID, conn)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("read error for client %s in game %s: %v", clientID, gameID, err)
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(conn, fmt.Errorf("parse message: %w", err))
			continue
		}
		if err := wsc.handleMessage(context.Background(), gameID, msg); err != nil {
			log.Debugf("client %s in game %s: %v", clientID, gameID, err)
			wsc.sendError(conn, err)
		}
	}
}

// State changes are pushed to every subscriber by the session, so handlers
// only report errors.
func (wsc *WebSocketController) handleMessage(ctx context.Context, gameID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		_, _, err := wsc.gameService.MakeMove(ctx, gameID, move.From, move.To, model.PieceType(move.Promotion))
		return err

	case ws.MessageTypeUndo:
		_, err := wsc.gameService.Undo(ctx, gameID)
		return err

	case ws.MessageTypeEngineMove:
		var req service.EngineRequest
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				return err
			}
		}
		_, _, err := wsc.gameService.EngineMove(ctx, gameID, req)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(c service.Subscriber, err error) {
	payload, _ := json.Marshal(ws.ErrorPayload{Error: err.Error()})
	if werr := c.WriteJSON(ws.Message{
		Type:    ws.MessageTypeError,
		Payload: json.RawMessage(payload),
	}); werr != nil {
		log.Debugf("write error message: %v", werr)
	}
}
