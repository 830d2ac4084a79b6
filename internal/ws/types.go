package ws

import (
	"encoding/json"
)

// MessageType tags a websocket envelope. Clients send move, undo and
// engineMove; the server sends gameState and error.
type MessageType string

const (
	MessageTypeMove       MessageType = "move"
	MessageTypeUndo       MessageType = "undo"
	MessageTypeEngineMove MessageType = "engineMove"
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeError      MessageType = "error"
)

type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MovePayload is the payload of a move message.
type MovePayload struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// ErrorPayload is the payload of an error message.
type ErrorPayload struct {
	Error string `json:"error"`
}
