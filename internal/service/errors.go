package service

import "errors"

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrNotHumanTurn  = errors.New("side to move is an engine seat")
	ErrEngineTimeout = errors.New("engine did not answer in time")
	ErrGameChanged   = errors.New("game changed while the engine was thinking")
	ErrInvalidSeat   = errors.New("invalid seat")
)
